package analyses

import (
	"time"

	"cv-analyzer/internal/analyzer"
)

// Analysis is the stored outcome of analyzing one session's CV. A session
// holds at most one analysis; saving again replaces it.
type Analysis struct {
	ID             string          `json:"id"`
	SessionID      string          `json:"sessionId"`
	UserID         string          `json:"userId,omitempty"`
	JobDescription string          `json:"jobDescription,omitempty"`
	Result         analyzer.Result `json:"result"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AnalyzeInput is a structured CV submitted for analysis.
type AnalyzeInput struct {
	SessionID      string
	UserID         string
	Document       analyzer.CVDocument
	JobDescription string
}

// UploadInput is a CV file submitted for extraction and analysis.
type UploadInput struct {
	SessionID      string
	UserID         string
	FileName       string
	MimeType       string
	Data           []byte
	JobDescription string
}

// BatchItem is one unpersisted document in a batch request.
type BatchItem struct {
	Document       analyzer.CVDocument `json:"cv_data"`
	JobDescription string              `json:"job_description,omitempty"`
}
