package errs

import "errors"

var (
	ErrInvalid            = errors.New("invalid")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrInvalidEncoding    = errors.New("invalid text encoding")
	ErrIndexNotConfigured = errors.New("vector index not configured")
	ErrTransient          = errors.New("transient upstream failure")
	ErrUpstream           = errors.New("upstream service failure")
	ErrInternal           = errors.New("internal")
)
