package validation

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is one validated file from a form, read into memory.
type Upload struct {
	Name        string
	ContentType string
	Content     []byte
}

// UploadRules bounds what a form may carry. An empty AllowedTypes accepts
// every type.
type UploadRules struct {
	MaxFiles     int
	AllowedTypes []string
}

// Default rules for certificate and document uploads.
var DocumentUploads = UploadRules{
	MaxFiles:     5,
	AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp", "application/pdf"},
}

// ReadUploads validates the files under field of a parsed multipart form.
func ReadUploads(form *multipart.Form, field string, rules UploadRules) ([]Upload, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, ErrNoFiles
	}
	headers := form.File[field]
	if rules.MaxFiles > 0 && len(headers) > rules.MaxFiles {
		return nil, fmt.Errorf("%w: got %d, at most %d", ErrTooManyFiles, len(headers), rules.MaxFiles)
	}

	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		content, err := readAll(fh)
		if err != nil {
			return nil, err
		}
		mimeType, err := DetectMimeType(fh.Header.Get("Content-Type"), content)
		if err != nil {
			return nil, fmt.Errorf("%w (file: %s)", err, fh.Filename)
		}
		if !allowed(rules.AllowedTypes, mimeType) {
			return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fh.Filename)
		}
		uploads = append(uploads, Upload{Name: filepath.Base(fh.Filename), ContentType: mimeType, Content: content})
	}
	return uploads, nil
}

// DetectMimeType sniffs content. A specific declared type (anything but
// empty or application/octet-stream) must agree with what was sniffed.
func DetectMimeType(declared string, content []byte) (string, error) {
	detected := mimetype.Detect(content)
	if declared != "" {
		if base, _, err := mime.ParseMediaType(declared); err == nil {
			declared = base
		}
	}
	if declared != "" && declared != "application/octet-stream" && !detected.Is(declared) {
		return "", fmt.Errorf("%w: declared %s, content is %s", ErrInvalidMimeType, declared, detected.String())
	}
	if base, _, err := mime.ParseMediaType(detected.String()); err == nil {
		return base, nil
	}
	return detected.String(), nil
}

func allowed(types []string, mimeType string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == mimeType {
			return true
		}
	}
	return false
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
