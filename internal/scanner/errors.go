package scanner

import "errors"

// Scan failures. Returned errors wrap one of these; test with errors.Is.
var (
	ErrInputNotFound    = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInputIsDirectory = errors.New("expected a file but found a directory")
	ErrInvalidPattern   = errors.New("invalid regex pattern")
	ErrDecode           = errors.New("undecodable input")
	ErrIO               = errors.New("read failed")
)
