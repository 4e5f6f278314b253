package validation

import (
	"fmt"
	"net/http"
)

// ParseMultipart caps the body at maxSize and parses the form. Exceeding the
// cap closes the connection mid-upload; browsers show a reset.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}
	return nil
}

// FormatSizeMB converts bytes to megabytes for user-facing messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
