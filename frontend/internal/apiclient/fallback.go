package apiclient

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/eduportal/portal/shared/logger"
)

var errNoCandidates = errors.New("no candidate paths")

// tryInOrder calls fetch for each candidate path until one succeeds. A
// candidate is tried only if the previous one failed; when all fail the last
// error is returned.
func tryInOrder(ctx context.Context, candidates []string, fetch func(context.Context, string) (json.RawMessage, error)) (json.RawMessage, error) {
	lastErr := errNoCandidates
	for i, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := fetch(ctx, path)
		if err == nil {
			if i > 0 {
				logger.Log.Debug("fallback path succeeded", "path", path, "attempt", i+1)
			}
			return raw, nil
		}
		logger.Log.Debug("candidate path failed", "path", path, "error", err)
		lastErr = err
	}
	return nil, lastErr
}
