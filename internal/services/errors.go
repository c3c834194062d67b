package services

import "errors"

// Common service errors
var (
	ErrPayloadTooLarge     = errors.New("file size exceeds 2MB limit")
	ErrInvalidImage        = errors.New("invalid image file")
	ErrNotFound            = errors.New("record not found")
	ErrStorageFailure      = errors.New("storage failure")
	ErrInvalidAudit        = errors.New("invalid audit record")
	ErrInvalidContent      = errors.New("invalid content")
	ErrUnknownSection      = errors.New("unknown content section")
	ErrOperationNotAllowed = errors.New("operation not allowed for this section")
	ErrDuplicate           = errors.New("record already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrForbidden           = errors.New("operation not permitted")
)
