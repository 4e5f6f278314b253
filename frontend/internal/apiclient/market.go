package apiclient

import (
	"context"
	"encoding/json"
	"net/url"
)

// PositionFilter narrows the job listing. Empty fields are not sent.
type PositionFilter struct {
	Pagination
	Keyword string
	City    string
}

func (c *Client) Companies(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/companies")
}

func (c *Client) CompanyByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("companies", id))
}

func (c *Client) Positions(ctx context.Context, filter PositionFilter) (json.RawMessage, error) {
	q := url.Values{}
	filter.apply(q)
	setIfNotEmpty(q, "filters[title][$containsi]", filter.Keyword)
	setIfNotEmpty(q, "filters[city][$eq]", filter.City)
	return c.Get(ctx, withQuery("/positions", q))
}

func (c *Client) PositionByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.Get(ctx, itemPath("positions", id))
}

func (c *Client) ContactCompany(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/companies/contact", data)
}

func (c *Client) ApplyPosition(ctx context.Context, data any) (json.RawMessage, error) {
	return c.Post(ctx, "/positions/apply", data)
}

func (c *Client) MarketStats(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/market/stats")
}
