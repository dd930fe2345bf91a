package errcode

const (
	ErrUnknown = 20000000 + iota
	ErrInvalid
	ErrUnsupportedFile
	ErrInvalidEncoding
	ErrIndexNotConfigured
	ErrTransient
	ErrUpstream
	ErrInternal
)
