package apiclient

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

func (c *Client) Achievements(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/achievements")
}

// AchievementByID fetches one record. Soft-deleted records are only returned
// when includeDeleted is set.
func (c *Client) AchievementByID(ctx context.Context, id string, includeDeleted bool) (json.RawMessage, error) {
	q := url.Values{}
	if includeDeleted {
		q.Set("includeDeleted", "true")
	}
	return c.Get(ctx, withQuery(itemPath("achievements", id), q))
}

func (c *Client) CreateAchievement(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/achievements", data)
}

func (c *Client) UpdateAchievement(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.Put(ctx, itemPath("achievements", id), data)
}

// DeleteAchievement removes the record for good. Views use SoftDeleteAchievement.
func (c *Client) DeleteAchievement(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Delete(ctx, itemPath("achievements", id))
}

// SoftDeleteAchievement keeps the record and marks it deleted with an update.
// An empty id fails here without touching the network.
func (c *Client) SoftDeleteAchievement(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return c.Put(ctx, itemPath("achievements", id), wrap(map[string]any{
		"is_deleted": true,
		"deleted_at": c.now().UTC().Format(time.RFC3339),
	}))
}

// RestoreAchievement undoes SoftDeleteAchievement.
func (c *Client) RestoreAchievement(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return c.Put(ctx, itemPath("achievements", id), wrap(map[string]any{
		"is_deleted": false,
		"deleted_at": nil,
	}))
}

// ViewAchievement records a view and returns the detail.
func (c *Client) ViewAchievement(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("achievements", id)+"/view")
}
