package apiclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	internal_errors "github.com/eduportal/portal/shared/errors"
)

func TestChatResolvesStudentID(t *testing.T) {
	tests := []struct {
		name string
		me   string
		want string
	}{
		{name: "student_id", me: `{"id":1,"student_id":"S-100"}`, want: "S-100"},
		{name: "camel case", me: `{"id":1,"studentId":"S-200"}`, want: "S-200"},
		{name: "plain id", me: `{"id":42}`, want: "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t, routes(map[string]http.HandlerFunc{
				"/api/users/me":               respondJSON(http.StatusOK, tt.me),
				"/api/student-portraits/chat": respondJSON(http.StatusOK, `{"response":"keep going"}`),
			}))
			reply, err := fb.client(nil).Chat(context.Background(), ChatRequest{Question: "how am I doing?"})
			require.NoError(t, err)
			assert.Equal(t, "keep going", reply.Message)
			assert.False(t, reply.Error)

			req := fb.last(t)
			assert.Equal(t, tt.want, gjson.GetBytes(req.Body, "data.student_id").String())
			assert.Equal(t, "how am I doing?", gjson.GetBytes(req.Body, "data.question").String())
		})
	}
}

func TestChatSkipsLookupWithStudentID(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":{"answer":"ok"}}`))
	reply, err := fb.client(nil).Chat(context.Background(), ChatRequest{Question: "q", StudentID: "S-1"})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Message)
	require.Len(t, fb.calls(), 1)
	assert.Equal(t, "/api/student-portraits/chat", fb.last(t).Path)
}

func TestChatRequiresQuestion(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{}`))
	_, err := fb.client(nil).Chat(context.Background(), ChatRequest{})
	var vErr *internal_errors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "question", vErr.Field)
	assert.Empty(t, fb.calls())
}

func TestChatEmptyReply(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":{"score":3}}`))
	_, err := fb.client(nil).Chat(context.Background(), ChatRequest{Question: "q", StudentID: "S-1"})
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestSafeChatNeverFails(t *testing.T) {
	tests := []struct {
		name   string
		handle http.HandlerFunc
	}{
		{
			name:   "identity lookup fails",
			handle: routes(map[string]http.HandlerFunc{}),
		},
		{
			name: "identity missing",
			handle: routes(map[string]http.HandlerFunc{
				"/api/users/me": respondJSON(http.StatusOK, `{"username":"li"}`),
			}),
		},
		{
			name: "chat endpoint fails",
			handle: routes(map[string]http.HandlerFunc{
				"/api/users/me":               respondJSON(http.StatusOK, `{"id":7}`),
				"/api/student-portraits/chat": respondJSON(http.StatusInternalServerError, `{}`),
			}),
		},
		{
			name: "unauthorized",
			handle: routes(map[string]http.HandlerFunc{
				"/api/users/me": respondJSON(http.StatusUnauthorized, `{}`),
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t, tt.handle)
			reply := fb.client(nil).SafeChat(context.Background(), ChatRequest{Question: "q"})
			require.NotNil(t, reply)
			assert.True(t, reply.Error)
			assert.Equal(t, FallbackChatMessage, reply.Message)
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		c := New("http://127.0.0.1:1/api", "http://127.0.0.1:1", nil, WithTimeout(time.Second))
		reply := c.SafeChat(context.Background(), ChatRequest{Question: "q", StudentID: "S-1"})
		assert.True(t, reply.Error)
		assert.NotEmpty(t, reply.Message)
	})
}

func TestReplyMessage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: `"plain text"`, want: "plain text"},
		{raw: `{"response":"a","message":"b"}`, want: "a"},
		{raw: `{"message":"b"}`, want: "b"},
		{raw: `{"reply":"c"}`, want: "c"},
		{raw: `{"data":"d"}`, want: "d"},
		{raw: `{"data":{"message":"nested"}}`, want: "nested"},
		{raw: `{"data":{"count":1}}`, want: ""},
		{raw: `{}`, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, replyMessage([]byte(tt.raw)), tt.raw)
	}
}

func TestReplyFieldsFound(t *testing.T) {
	assert.Equal(t, []string{"message", "data", "data.answer"}, ReplyFieldsFound([]byte(`{"message":"a","data":{"answer":"b"}}`)))
	assert.Empty(t, ReplyFieldsFound([]byte(`{"other":1}`)))
}

func TestPortraitByIDRequiresID(t *testing.T) {
	fb := newFakeBackend(t, respondJSON(http.StatusOK, `{"data":{"id":3}}`))
	c := fb.client(nil)

	_, err := c.PortraitByID(context.Background(), "")
	var vErr *internal_errors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, fb.calls())

	raw, err := c.PortraitByID(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.GetBytes(raw, "data.id").Int())
	assert.Equal(t, "/api/student-portraits/3", fb.last(t).Path)
}

func TestAppendQAHistory(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("extends existing history", func(t *testing.T) {
		fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				respondJSON(http.StatusOK, `{"data":{"id":3,"qa_history":[{"question":"old","answer":"yes"}]}}`)(w, r)
				return
			}
			respondJSON(http.StatusOK, `{"data":{"id":3}}`)(w, r)
		})
		c := fb.client(nil, WithClock(func() time.Time { return now }))

		_, err := c.AppendQAHistory(context.Background(), "3", QAEntry{Question: "new", Answer: "sure"})
		require.NoError(t, err)

		calls := fb.calls()
		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodGet, calls[0].Method)
		put := calls[1]
		assert.Equal(t, http.MethodPut, put.Method)
		assert.Equal(t, "/api/student-portraits/3", put.Path)

		history := gjson.GetBytes(put.Body, "data.qa_history").Array()
		require.Len(t, history, 2)
		assert.Equal(t, "old", history[0].Get("question").String())
		assert.Equal(t, "new", history[1].Get("question").String())
		assert.Equal(t, "2024-03-01T09:00:00Z", history[1].Get("asked_at").String())
	})

	t.Run("starts history from attributes or nothing", func(t *testing.T) {
		fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				respondJSON(http.StatusOK, `{"data":{"attributes":{"risk_alerts":[{"level":"low"}]}}}`)(w, r)
				return
			}
			respondJSON(http.StatusOK, `{}`)(w, r)
		})
		c := fb.client(nil)

		_, err := c.AppendRiskAlert(context.Background(), "5", RiskAlert{Level: "high", Message: "missed exams"})
		require.NoError(t, err)
		alerts := gjson.GetBytes(fb.last(t).Body, "data.risk_alerts").Array()
		require.Len(t, alerts, 2)
		assert.Equal(t, "high", alerts[1].Get("level").String())

		_, err = c.AppendQAHistory(context.Background(), "5", QAEntry{Question: "first"})
		require.NoError(t, err)
		assert.Len(t, gjson.GetBytes(fb.last(t).Body, "data.qa_history").Array(), 1)
	})

	t.Run("read failure stops the write", func(t *testing.T) {
		fb := newFakeBackend(t, respondJSON(http.StatusNotFound, `{}`))
		_, err := fb.client(nil).AppendQAHistory(context.Background(), "9", QAEntry{Question: "q"})
		var sErr *internal_errors.StatusError
		require.ErrorAs(t, err, &sErr)
		assert.True(t, sErr.IsNotFound())
		assert.Len(t, fb.calls(), 1)
	})
}

func TestMockReply(t *testing.T) {
	assert.Contains(t, MockReply("What about my GPA?"), "exam scores")
	assert.Contains(t, MockReply("我的成绩怎么样"), "exam scores")
	assert.Contains(t, MockReply("any internship tips"), "internships")
	assert.Contains(t, MockReply("I feel so much pressure"), "sleep schedule")
	assert.Contains(t, MockReply("which elective course"), "elective")
	assert.Contains(t, MockReply("competition awards"), "Competitions")
	assert.Equal(t, defaultCannedReply, MockReply("hello"))
}
