package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	internal_errors "github.com/eduportal/portal/shared/errors"
	"github.com/eduportal/portal/shared/logger"
)

const portraits = "student-portraits"

// FallbackChatMessage is what SafeChat answers with when anything fails.
const FallbackChatMessage = "Sorry, the assistant is unavailable right now. Please try again later."

var (
	// Fields a chat answer may arrive in, checked in this order at the top
	// level and then under data.
	replyFields = []string{"response", "message", "answer", "reply", "data"}
	// Fields of /users/me that identify the student.
	identityFields = []string{"student_id", "studentId", "id"}

	ErrEmptyReply = errors.New("chat reply carried no message")
)

type ChatRequest struct {
	Question  string `json:"question" validate:"required"`
	StudentID string `json:"student_id"`
	Context   any    `json:"context,omitempty"`
}

type ChatReply struct {
	Message string          `json:"message"`
	Error   bool            `json:"error"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

type QAEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

type RiskAlert struct {
	Level    string    `json:"level"`
	Message  string    `json:"message"`
	RaisedAt time.Time `json:"raised_at"`
}

// Portrait returns the profile records of a student.
func (c *Client) Portrait(ctx context.Context, studentID string) (json.RawMessage, error) {
	if err := requireID("student_id", studentID); err != nil {
		return nil, err
	}
	raw, err := c.Get(ctx, withQuery("/"+portraits, url.Values{"filters[student_id][$eq]": {studentID}}))
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

// PortraitByID fetches one portrait record with its envelope.
func (c *Client) PortraitByID(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return c.Get(ctx, itemPath(portraits, id))
}

// AnalyzePortrait asks the backend to rebuild the profile analysis.
func (c *Client) AnalyzePortrait(ctx context.Context, studentID string) (json.RawMessage, error) {
	if err := requireID("student_id", studentID); err != nil {
		return nil, err
	}
	return c.Post(ctx, "/"+portraits+"/analyze", wrap(map[string]string{"student_id": studentID}))
}

// Chat asks the profile assistant a question. Without a StudentID the caller
// is resolved through /users/me first. Every failure is returned.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.StudentID == "" {
		id, err := c.CurrentStudentID(ctx)
		if err != nil {
			return nil, err
		}
		req.StudentID = id
	}

	raw, err := c.Post(ctx, "/"+portraits+"/chat", wrap(req))
	if err != nil {
		return nil, err
	}
	msg := replyMessage(raw)
	if msg == "" {
		return nil, ErrEmptyReply
	}
	return &ChatReply{Message: msg, Raw: raw}, nil
}

// SafeChat is Chat for callers that do not handle errors: any failure,
// identity resolution included, becomes a reply with Error set.
func (c *Client) SafeChat(ctx context.Context, req ChatRequest) *ChatReply {
	reply, err := c.Chat(ctx, req)
	if err != nil {
		logger.Log.Error("profile chat failed, answering with fallback", "error", err)
		return &ChatReply{Message: FallbackChatMessage, Error: true}
	}
	return reply
}

// CurrentStudentID reads the student id of the token owner from /users/me.
func (c *Client) CurrentStudentID(ctx context.Context) (string, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return "", err
	}
	for _, field := range identityFields {
		if v := gjson.GetBytes(me, field); v.Exists() && v.String() != "" {
			return v.String(), nil
		}
	}
	return "", &internal_errors.ValidationError{Field: "student_id", Message: "current user has no id"}
}

func replyMessage(raw json.RawMessage) string {
	if r := gjson.ParseBytes(raw); r.Type == gjson.String {
		return strings.TrimSpace(r.String())
	}
	for _, prefix := range []string{"", "data."} {
		for _, field := range replyFields {
			if v := gjson.GetBytes(raw, prefix+field); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	return ""
}

// ReplyFieldsFound lists which known answer fields raw carries, nested ones
// as data.<field>. Used by connection diagnostics.
func ReplyFieldsFound(raw json.RawMessage) []string {
	var found []string
	for _, prefix := range []string{"", "data."} {
		for _, field := range replyFields {
			if gjson.GetBytes(raw, prefix+field).Exists() {
				found = append(found, prefix+field)
			}
		}
	}
	return found
}

// AppendQAHistory adds one question/answer pair to the portrait's history.
// The array is read, extended and written back whole; concurrent appends
// to the same portrait are last-write-wins.
func (c *Client) AppendQAHistory(ctx context.Context, portraitID string, entry QAEntry) (json.RawMessage, error) {
	if entry.AskedAt.IsZero() {
		entry.AskedAt = c.now().UTC()
	}
	return c.appendToArray(ctx, portraitID, "qa_history", entry)
}

// AppendRiskAlert adds an alert the same way AppendQAHistory adds history.
func (c *Client) AppendRiskAlert(ctx context.Context, portraitID string, alert RiskAlert) (json.RawMessage, error) {
	if alert.RaisedAt.IsZero() {
		alert.RaisedAt = c.now().UTC()
	}
	return c.appendToArray(ctx, portraitID, "risk_alerts", alert)
}

func (c *Client) appendToArray(ctx context.Context, portraitID, field string, entry any) (json.RawMessage, error) {
	if err := requireID("id", portraitID); err != nil {
		return nil, err
	}
	raw, err := c.PortraitByID(ctx, portraitID)
	if err != nil {
		return nil, err
	}

	existing := gjson.GetBytes(raw, "data."+field)
	if !existing.Exists() {
		existing = gjson.GetBytes(raw, "data.attributes."+field)
	}
	items := []json.RawMessage{}
	if existing.IsArray() {
		for _, item := range existing.Array() {
			items = append(items, json.RawMessage(item.Raw))
		}
	}
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	items = append(items, entryJSON)

	return c.Put(ctx, itemPath(portraits, portraitID), wrap(map[string]any{field: items}))
}
