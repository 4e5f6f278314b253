package apiclient

import (
	"context"
	"encoding/json"
)

func (c *Client) Activities(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/activities")
}

func (c *Client) ActivityByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("activities", id))
}

func (c *Client) CreateActivity(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/activities", data)
}

func (c *Client) UpdateActivity(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.Put(ctx, itemPath("activities", id), data)
}

func (c *Client) DeleteActivity(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Delete(ctx, itemPath("activities", id))
}

func (c *Client) ViewActivity(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("activities", id)+"/view")
}

func (c *Client) JoinActivity(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return c.Post(ctx, itemPath("activities", id)+"/join", nil)
}
