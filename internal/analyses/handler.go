package analyses

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/analyzer"
	"cv-analyzer/internal/shared/server/middleware"
	"cv-analyzer/internal/shared/server/respond"
)

// DefaultMaxUploadBytes bounds uploaded CV files when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cv/analyze", h.analyze)
	rg.POST("/cv/analyze/batch", h.analyzeBatch)
	rg.POST("/cv/upload", h.upload)
	rg.GET("/cv/analysis/:sessionId", h.getAnalysis)
	rg.DELETE("/cv/analysis/:sessionId", h.deleteAnalysis)
}

type analyzeRequest struct {
	SessionID      string               `json:"session_id"`
	CVData         *analyzer.CVDocument `json:"cv_data"`
	JobDescription string               `json:"job_description"`
	UserID         string               `json:"user_id"`
}

type analysisResponse struct {
	Success    bool            `json:"success"`
	AnalysisID string          `json:"analysis_id"`
	SessionID  string          `json:"session_id"`
	Analysis   analyzer.Result `json:"analysis"`
	CreatedAt  string          `json:"created_at,omitempty"`
	UpdatedAt  string          `json:"updated_at,omitempty"`
}

func newAnalysisResponse(a Analysis) analysisResponse {
	return analysisResponse{
		Success:    true,
		AnalysisID: a.ID,
		SessionID:  a.SessionID,
		Analysis:   a.Result,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" || req.CVData == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session_id and cv_data are required", missingFields(req))
		return
	}
	middleware.SetSessionID(c, req.SessionID)

	analysis, err := h.Svc.Analyze(c.Request.Context(), AnalyzeInput{
		SessionID:      req.SessionID,
		UserID:         req.UserID,
		Document:       *req.CVData,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		h.fail(c, err, "failed to analyze CV")
		return
	}
	markAnalysis(c, analysis)
	respond.OK(c, newAnalysisResponse(analysis))
}

type batchRequest struct {
	Items []BatchItem `json:"items"`
}

func (h *Handler) analyzeBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	results, err := h.Svc.AnalyzeBatch(c.Request.Context(), req.Items)
	if err != nil {
		h.fail(c, err, "failed to analyze batch")
		return
	}
	respond.OK(c, gin.H{"success": true, "results": results})
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+(1<<20))
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", gin.H{
				"maxBytes": h.MaxUploadBytes,
			})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form expected", nil)
		return
	}

	sessionID := strings.TrimSpace(c.PostForm("session_id"))
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session_id is required", []map[string]string{
			{"field": "session_id", "issue": "required"},
		})
		return
	}
	middleware.SetSessionID(c, sessionID)

	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []map[string]string{
			{"field": "file", "issue": "required"},
		})
		return
	}
	if fh.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", gin.H{
			"maxBytes": h.MaxUploadBytes,
		})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}

	analysis, err := h.Svc.AnalyzeUpload(c.Request.Context(), UploadInput{
		SessionID:      sessionID,
		UserID:         c.PostForm("user_id"),
		FileName:       fh.Filename,
		MimeType:       fh.Header.Get("Content-Type"),
		Data:           data,
		JobDescription: c.PostForm("job_description"),
	})
	if err != nil {
		h.fail(c, err, "failed to analyze upload")
		return
	}
	markAnalysis(c, analysis)
	respond.OK(c, newAnalysisResponse(analysis))
}

func (h *Handler) getAnalysis(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	middleware.SetSessionID(c, sessionID)

	analysis, err := h.Svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, err, "failed to fetch analysis")
		return
	}
	markAnalysis(c, analysis)
	respond.OK(c, newAnalysisResponse(analysis))
}

func (h *Handler) deleteAnalysis(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	middleware.SetSessionID(c, sessionID)

	if err := h.Svc.Delete(c.Request.Context(), sessionID); err != nil {
		h.fail(c, err, "failed to delete analysis")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnsupportedFile):
		respond.Error(c, http.StatusUnprocessableEntity, "unsupported_file", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
	}
}

func markAnalysis(c *gin.Context, a Analysis) {
	c.Set("analysisId", a.ID)
	c.Set("rating", a.Result.Rating)
}

func missingFields(req analyzeRequest) []map[string]string {
	var out []map[string]string
	if req.SessionID == "" {
		out = append(out, map[string]string{"field": "session_id", "issue": "required"})
	}
	if req.CVData == nil {
		out = append(out, map[string]string{"field": "cv_data", "issue": "required"})
	}
	return out
}
