package apiclient

import (
	"context"
	"encoding/json"
)

// Me is the currently authenticated user.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/users/me")
}

func (c *Client) StudentByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("students", id))
}

func (c *Client) StudentProfile(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/students/profile")
}

func (c *Client) StudentStatistics(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/students/statistics")
}
