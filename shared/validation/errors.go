package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrInvalidMimeType is returned when an uploaded file has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ErrTooManyFiles is returned when more files arrive than the form allows
var ErrTooManyFiles = errors.New("too many files")

// ErrNoFiles is returned when a form that needs a file has none
var ErrNoFiles = errors.New("no file uploaded")
