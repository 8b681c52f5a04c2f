package analyses

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedFile = errors.New("unsupported file")
)

// MaxBatchItems bounds the size of one batch request.
const MaxBatchItems = 25
