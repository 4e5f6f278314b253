package apiclient

import (
	"context"
	"encoding/json"
	"net/url"
)

// The department collection was renamed more than once on the backend; the
// lookups try each name in order.
var (
	departmentResources = []string{"departments", "colleges", "academies"}
	collegeResources    = []string{"colleges", "departments", "academies"}
)

// DepartmentByCode returns the department records matching code.
func (c *Client) DepartmentByCode(ctx context.Context, code string) (json.RawMessage, error) {
	if err := requireID("code", code); err != nil {
		return nil, err
	}
	q := url.Values{"filters[code][$eq]": {code}}
	candidates := make([]string, len(departmentResources))
	for i, res := range departmentResources {
		candidates[i] = withQuery("/"+res, q)
	}
	raw, err := tryInOrder(ctx, candidates, c.Get)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

// Colleges lists every college.
func (c *Client) Colleges(ctx context.Context) (json.RawMessage, error) {
	candidates := make([]string, len(collegeResources))
	for i, res := range collegeResources {
		candidates[i] = "/" + res
	}
	raw, err := tryInOrder(ctx, candidates, c.Get)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}
