package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eduportal/portal/frontend/internal/apiclient"
)

const chatPath = "/student-portraits/chat"

func UserChecks() []Check {
	return []Check{
		{Name: "current user", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) { return c.Me(ctx) }},
		{Name: "student profile", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) { return c.StudentProfile(ctx) }},
	}
}

func CourseChecks() []Check {
	return []Check{
		{Name: "course list", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) { return c.Courses(ctx) }},
		{Name: "assignment list", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) { return c.Assignments(ctx) }},
	}
}

// TeacherChecks lists teachers, then loads the first one.
func TeacherChecks() []Check {
	var first string
	return []Check{
		{Name: "teacher list", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) {
			raw, err := c.Teachers(ctx)
			first = firstID(raw)
			return raw, err
		}},
		{Name: "teacher detail", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) {
			if first == "" {
				return nil, fmt.Errorf("%w: no teacher to load", errSkipped)
			}
			return c.TeacherByID(ctx, first)
		}},
	}
}

// ConnectionChecks use routes that exist on a stock backend.
func ConnectionChecks() []Check {
	return []Check{
		{Name: "uploaded files", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) { return c.UploadedFiles(ctx) }},
		{Name: "achievements", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) { return c.Achievements(ctx) }},
	}
}

// ChatChecks diagnose the profile assistant: reachability, credentials, the
// two request shapes the endpoint may accept, and where the answer lives.
func ChatChecks(question, studentID string) []Check {
	var lastReply json.RawMessage
	chat := func(body any) func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) {
		return func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) {
			raw, err := c.Post(ctx, chatPath, body)
			if err == nil {
				lastReply = raw
			}
			return raw, err
		}
	}
	direct := map[string]string{"question": question, "student_id": studentID}

	return []Check{
		{Name: "server reachable", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) {
			return c.Root().Get(ctx, "/")
		}},
		{Name: "credentials accepted", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) {
			if c.Tokens().Token() == "" {
				return nil, fmt.Errorf("%w: no token stored", errSkipped)
			}
			return c.Me(ctx)
		}},
		{Name: "direct request format", Run: chat(direct)},
		{Name: "wrapped request format", Run: chat(map[string]any{"data": direct})},
		{Name: "reply fields", Run: func(ctx context.Context, c *apiclient.Client) (json.RawMessage, error) {
			if lastReply == nil {
				return nil, fmt.Errorf("%w: no successful chat reply", errSkipped)
			}
			found := apiclient.ReplyFieldsFound(lastReply)
			if len(found) == 0 {
				return lastReply, fmt.Errorf("reply carries none of the known answer fields")
			}
			return json.RawMessage(fmt.Sprintf(`{"found":%q}`, strings.Join(found, ","))), nil
		}},
	}
}

// Suites maps the names accepted by the CLI and the api-test page.
func Suites(question, studentID string) map[string][]Check {
	return map[string][]Check{
		"user":       UserChecks(),
		"courses":    CourseChecks(),
		"teachers":   TeacherChecks(),
		"connection": ConnectionChecks(),
		"chat":       ChatChecks(question, studentID),
	}
}
