package apiclient

import (
	"context"
	"encoding/json"
)

// === Course Methods ===

func (c *Client) Courses(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/courses")
}

func (c *Client) CourseByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("courses", id))
}

func (c *Client) CreateCourse(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/courses", data)
}

func (c *Client) UpdateCourse(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.Put(ctx, itemPath("courses", id), data)
}

func (c *Client) DeleteCourse(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Delete(ctx, itemPath("courses", id))
}

// === Assignment Methods ===

func (c *Client) Assignments(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/assignments")
}

func (c *Client) AssignmentByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("assignments", id))
}

func (c *Client) SubmitAssignment(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/assignments/submit", data)
}
