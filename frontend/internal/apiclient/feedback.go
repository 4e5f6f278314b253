package apiclient

import (
	"context"
	"encoding/json"
	"net/url"
)

func (c *Client) Feedbacks(ctx context.Context, page Pagination) (json.RawMessage, error) {
	q := url.Values{}
	page.apply(q)
	return c.Get(ctx, withQuery("/feedbacks", q))
}

func (c *Client) FeedbackByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("feedbacks", id))
}

func (c *Client) SubmitFeedback(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/feedbacks", wrap(data))
}

func (c *Client) UpdateFeedback(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.Put(ctx, itemPath("feedbacks", id), wrap(data))
}

func (c *Client) DeleteFeedback(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Delete(ctx, itemPath("feedbacks", id))
}

// === Resume Methods ===

func (c *Client) Resume(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/resume")
}

func (c *Client) UpdateResume(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Put(ctx, "/resume", data)
}
