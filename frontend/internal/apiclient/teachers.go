package apiclient

import (
	"context"
	"encoding/json"
	"net/url"
)

func (c *Client) Teachers(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, withQuery("/teachers", url.Values{"populate": {"avatar"}}))
}

func (c *Client) TeacherByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, withQuery(itemPath("teachers", id), url.Values{"populate": {"avatar"}}))
}

func (c *Client) CreateTeacher(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/teachers", data)
}

func (c *Client) UpdateTeacher(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.Put(ctx, itemPath("teachers", id), data)
}

func (c *Client) DeleteTeacher(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Delete(ctx, itemPath("teachers", id))
}

func (c *Client) TeachersByDepartment(ctx context.Context, department string) (json.RawMessage, error) {
	return c.Get(ctx, withQuery("/teachers", url.Values{"department": {department}}))
}

func (c *Client) RecruitingTeachers(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, withQuery("/teachers", url.Values{"recruiting": {"true"}}))
}

// === News Methods ===

func (c *Client) News(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/news")
}

func (c *Client) NewsByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("news", id))
}

func (c *Client) NewsByCategory(ctx context.Context, category string) (json.RawMessage, error) {
	return c.Get(ctx, withQuery("/news", url.Values{"category": {category}}))
}

func (c *Client) CreateNews(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/news", data)
}

func (c *Client) UpdateNews(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.Put(ctx, itemPath("news", id), data)
}

func (c *Client) DeleteNews(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Delete(ctx, itemPath("news", id))
}
