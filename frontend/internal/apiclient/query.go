package apiclient

import (
	"net/url"
	"strconv"
)

// Pagination is optional; zero fields are left out of the query string.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) apply(q url.Values) {
	if p.Page > 0 {
		q.Set("pagination[page]", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pagination[pageSize]", strconv.Itoa(p.PageSize))
	}
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
