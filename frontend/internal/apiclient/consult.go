package apiclient

import (
	"context"
	"encoding/json"
	"net/url"
)

// The backend resource really is spelled consult-teachsers.
const consultTeachers = "consult-teachsers"

func (c *Client) Consultants(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/consultants")
}

func (c *Client) ConsultantByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("consultants", id))
}

func (c *Client) BookConsultation(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/consultations/book", data)
}

// === Consult teacher Methods ===
// List and detail calls return the records with the data envelope removed.

func (c *Client) ConsultTeachers(ctx context.Context) (json.RawMessage, error) {
	return c.listConsultTeachers(ctx, url.Values{})
}

func (c *Client) ConsultTeachersByType(ctx context.Context, kind string) (json.RawMessage, error) {
	return c.listConsultTeachers(ctx, url.Values{"type": {kind}})
}

func (c *Client) OnlineConsultTeachers(ctx context.Context) (json.RawMessage, error) {
	return c.listConsultTeachers(ctx, url.Values{"is_online": {"true"}})
}

func (c *Client) listConsultTeachers(ctx context.Context, q url.Values) (json.RawMessage, error) {
	q.Set("populate", "avatar")
	raw, err := c.Get(ctx, withQuery("/"+consultTeachers, q))
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) ConsultTeacherByID(ctx context.Context, id string) (json.RawMessage, error) {
	raw, err := c.Get(ctx, withQuery(itemPath(consultTeachers, id), url.Values{"populate": {"avatar"}}))
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) CreateConsultTeacher(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/"+consultTeachers, data)
}

func (c *Client) UpdateConsultTeacher(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.Put(ctx, itemPath(consultTeachers, id), data)
}

func (c *Client) DeleteConsultTeacher(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Delete(ctx, itemPath(consultTeachers, id))
}
