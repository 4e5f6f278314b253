package apiclient

import (
	"context"
	"encoding/json"

	internal_errors "github.com/eduportal/portal/shared/errors"
)

// UploadFiles sends files to the media library.
func (c *Client) UploadFiles(ctx context.Context, form Form) (json.RawMessage, error) {
	if err := requireFiles(form); err != nil {
		return nil, err
	}
	return c.Post(ctx, "/upload", form)
}

func (c *Client) UploadedFiles(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/upload/files")
}

// ProcessOCR runs text recognition on an image. The route lives outside /api.
func (c *Client) ProcessOCR(ctx context.Context, form Form) (json.RawMessage, error) {
	if err := requireFiles(form); err != nil {
		return nil, err
	}
	return c.Root().Post(ctx, "/ocr/process", form)
}

func requireFiles(form Form) error {
	if len(form.Files) == 0 {
		return &internal_errors.ValidationError{Field: "files", Message: "at least one file is required"}
	}
	return nil
}
