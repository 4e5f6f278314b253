package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/eduportal/portal/frontend/internal/session"
	internal_errors "github.com/eduportal/portal/shared/errors"
)

func TestFeedbacksPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  Pagination
		query url.Values
	}{
		{name: "none", page: Pagination{}, query: url.Values{}},
		{name: "page only", page: Pagination{Page: 2}, query: url.Values{"pagination[page]": {"2"}}},
		{name: "size only", page: Pagination{PageSize: 25}, query: url.Values{"pagination[pageSize]": {"25"}}},
		{name: "both", page: Pagination{Page: 3, PageSize: 10}, query: url.Values{"pagination[page]": {"3"}, "pagination[pageSize]": {"10"}}},
	}
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":[]}`))
	c := fb.client(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Feedbacks(context.Background(), tt.page)
			require.NoError(t, err)
			req := fb.last(t)
			assert.Equal(t, "/api/feedbacks", req.Path)
			got, err := url.ParseQuery(req.Query)
			require.NoError(t, err)
			assert.Equal(t, tt.query, got)
		})
	}
}

func TestSubmitFeedbackWrapsData(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":{"id":5}}`))
	_, err := fb.client(nil).SubmitFeedback(context.Background(), map[string]string{"content": "more labs"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"content":"more labs"}}`, string(fb.last(t).Body))
}

func TestPositionsFilter(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":[]}`))
	c := fb.client(nil)

	_, err := c.Positions(context.Background(), PositionFilter{Pagination: Pagination{Page: 1}, Keyword: "golang"})
	require.NoError(t, err)
	got, _ := url.ParseQuery(fb.last(t).Query)
	assert.Equal(t, url.Values{"pagination[page]": {"1"}, "filters[title][$containsi]": {"golang"}}, got)

	_, err = c.Positions(context.Background(), PositionFilter{})
	require.NoError(t, err)
	assert.Empty(t, fb.last(t).Query)
}

func TestSoftDeleteAchievement(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	t.Run("empty id never reaches the network", func(t *testing.T) {
		fb := newFakeBackend(t, respondJSON(http.StatusOK, `{}`))
		c := fb.client(nil)
		for _, id := range []string{"", "   "} {
			_, err := c.SoftDeleteAchievement(context.Background(), id)
			var vErr *internal_errors.ValidationError
			require.ErrorAs(t, err, &vErr)
		}
		assert.Empty(t, fb.calls())
	})

	t.Run("marks the record with an update", func(t *testing.T) {
		fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":{"id":11,"is_deleted":true}}`))
		c := fb.client(nil, WithClock(func() time.Time { return now }))

		_, err := c.SoftDeleteAchievement(context.Background(), "11")
		require.NoError(t, err)

		calls := fb.calls()
		require.Len(t, calls, 1)
		req := calls[0]
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "/api/achievements/11", req.Path)
		assert.True(t, gjson.GetBytes(req.Body, "data.is_deleted").Bool())
		assert.Equal(t, "2024-05-06T07:08:09Z", gjson.GetBytes(req.Body, "data.deleted_at").String())
	})
}

func TestRestoreAchievement(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{}`))
	_, err := fb.client(nil).RestoreAchievement(context.Background(), "11")
	require.NoError(t, err)
	req := fb.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.JSONEq(t, `{"data":{"is_deleted":false,"deleted_at":null}}`, string(req.Body))
}

func TestAchievementByIDIncludeDeleted(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":{}}`))
	c := fb.client(nil)

	_, err := c.AchievementByID(context.Background(), "4", false)
	require.NoError(t, err)
	assert.Empty(t, fb.last(t).Query)

	_, err = c.AchievementByID(context.Background(), "4", true)
	require.NoError(t, err)
	assert.Equal(t, "includeDeleted=true", fb.last(t).Query)
}

func TestDepartmentByCodeFallback(t *testing.T) {
	t.Run("later candidate wins", func(t *testing.T) {
		fb := newFakeBackend(t, routes(map[string]http.HandlerFunc{
			"/api/colleges": respondJSON(http.StatusOK, `{"data":[{"code":"CS","name":"Computer Science"}]}`),
		}))
		raw, err := fb.client(nil).DepartmentByCode(context.Background(), "CS")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"code":"CS","name":"Computer Science"}]`, string(raw))

		calls := fb.calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "/api/departments", calls[0].Path)
		assert.Equal(t, "/api/colleges", calls[1].Path)
		q, _ := url.ParseQuery(calls[1].Query)
		assert.Equal(t, "CS", q.Get("filters[code][$eq]"))
	})

	t.Run("first success stops", func(t *testing.T) {
		fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":[]}`))
		_, err := fb.client(nil).DepartmentByCode(context.Background(), "EE")
		require.NoError(t, err)
		assert.Len(t, fb.calls(), 1)
	})

	t.Run("all fail returns last error", func(t *testing.T) {
		fb := newFakeBackend(t, routes(map[string]http.HandlerFunc{
			"/api/academies": respondJSON(http.StatusBadGateway, `{}`),
		}))
		_, err := fb.client(nil).DepartmentByCode(context.Background(), "EE")
		var sErr *internal_errors.StatusError
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, http.StatusBadGateway, sErr.StatusCode)
		assert.Equal(t, "/academies?filters%5Bcode%5D%5B%24eq%5D=EE", sErr.Path)
		assert.Len(t, fb.calls(), 3)
	})
}

func TestTryInOrderStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := tryInOrder(ctx, []string{"/a", "/b"}, func(context.Context, string) (json.RawMessage, error) {
		calls++
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)

	_, err = tryInOrder(context.Background(), nil, nil)
	assert.ErrorIs(t, err, errNoCandidates)
}

func TestConsultTeachersUnwrapsData(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":[{"id":1,"name":"Wang"}],"meta":{}}`))
	c := fb.client(nil)

	raw, err := c.OnlineConsultTeachers(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Wang"}]`, string(raw))

	req := fb.last(t)
	assert.Equal(t, "/api/consult-teachsers", req.Path)
	q, _ := url.ParseQuery(req.Query)
	assert.Equal(t, "avatar", q.Get("populate"))
	assert.Equal(t, "true", q.Get("is_online"))
}

func TestLogoutAlwaysClearsToken(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusInternalServerError, `{}`))
	tokens := session.NewMemory("t")
	_, err := fb.client(tokens).Logout(context.Background())
	assert.Error(t, err)
	assert.Empty(t, tokens.Token())
}

func TestRefreshTokenReplacesToken(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"jwt":"fresh"}`))
	tokens := session.NewMemory("old")
	_, err := fb.client(tokens).RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", tokens.Token())
}

func TestItemPathEscapesID(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{}`))
	_, err := fb.client(nil).TeacherByID(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/teachers/a/b", fb.last(t).Path, "server sees the decoded path")
	assert.Equal(t, "/teachers/a%2Fb", itemPath("teachers", "a/b"))
}

func TestJoinActivity(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"joined":true}`))
	c := fb.client(nil)

	_, err := c.JoinActivity(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, fb.last(t).Method)
	assert.Equal(t, "/api/activities/8/join", fb.last(t).Path)

	_, err = c.JoinActivity(context.Background(), "")
	assert.Error(t, err)
	assert.Len(t, fb.calls(), 1)
}
