// Package probe runs named diagnostic calls against the backend. The debug
// CLI and the api-test page share it.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	internal_errors "github.com/eduportal/portal/shared/errors"
	"github.com/eduportal/portal/shared/logger"
)

type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
	Skip Status = "SKIP"
)

var errSkipped = errors.New("skipped")

// Check is one diagnostic call. Run returns the payload to show.
type Check struct {
	Name string
	Run  func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error)
}

type Result struct {
	Name     string
	Status   Status
	Message  string
	Duration time.Duration
	Payload  json.RawMessage
}

// Run executes checks in order. A failing check does not stop the rest.
func Run(ctx context.Context, c *apiclient.Client, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		start := time.Now()
		payload, err := check.Run(ctx, c)
		res := Result{Name: check.Name, Duration: time.Since(start), Payload: payload}
		switch {
		case errors.Is(err, errSkipped):
			res.Status = Skip
			res.Message = strings.TrimPrefix(err.Error(), errSkipped.Error()+": ")
		case err != nil:
			res.Status = Fail
			res.Message = describe(err)
		default:
			res.Status = Pass
			res.Message = summarize(payload)
		}
		logger.Log.Debug("probe finished", "check", check.Name, "status", res.Status, "duration", res.Duration)
		results = append(results, res)
	}
	return results
}

// Passed reports whether no check failed.
func Passed(results []Result) bool {
	for _, r := range results {
		if r.Status == Fail {
			return false
		}
	}
	return true
}

func describe(err error) string {
	var status *internal_errors.StatusError
	if errors.As(err, &status) {
		return fmt.Sprintf("status %d", status.StatusCode)
	}
	var transport *internal_errors.TransportError
	if errors.As(err, &transport) {
		return transport.Message
	}
	return err.Error()
}

func summarize(payload json.RawMessage) string {
	r := gjson.ParseBytes(payload)
	data := r.Get("data")
	switch {
	case r.IsArray():
		return fmt.Sprintf("array with %d items", len(r.Array()))
	case data.IsArray():
		return fmt.Sprintf("data is an array with %d items", len(data.Array()))
	case data.Exists():
		return "data is present"
	case r.IsObject():
		var keys []string
		r.ForEach(func(k, _ gjson.Result) bool {
			keys = append(keys, k.String())
			return true
		})
		sort.Strings(keys)
		return "fields: " + strings.Join(keys, ", ")
	default:
		return "ok"
	}
}

// firstID picks the id of the first record of a list payload, with or
// without the data envelope. documentId wins over id.
func firstID(raw json.RawMessage) string {
	for _, path := range []string{"data.0.documentId", "data.0.id", "0.documentId", "0.id"} {
		if v := gjson.GetBytes(raw, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
