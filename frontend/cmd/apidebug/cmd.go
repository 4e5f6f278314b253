package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	"github.com/eduportal/portal/frontend/internal/probe"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/jwt"
)

// mockToken is a syntactically valid token for student 1 that expired long
// ago. It lets guarded pages be opened without a backend login.
const mockToken = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJpZCI6MSwidXNlcm5hbWUiOiJ0ZXN0dXNlciIsImVtYWlsIjoidGVzdEBleGFtcGxlLmNvbSIsImlhdCI6MTYzMDAwMDAwMCwiZXhwIjoxNjMwMDg2NDAwfQ.test"

const defaultQuestion = "What are my strengths as a student?"

var (
	errHelp         = errors.New("help provided")
	errChecksFailed = errors.New("some checks failed")

	now = time.Now // mockable
)

type commandLine struct {
	out    io.Writer
	tokens session.TokenStore
	client *apiclient.Client
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  set-mock-token [-token TOKEN]           - store a token (a mock one by default)")
	fmt.Fprintln(cli.out, "  clear-token                             - remove the stored token")
	fmt.Fprintln(cli.out, "  check-token                             - show the stored token's claims")
	fmt.Fprintln(cli.out, "  test-user [-v]                          - current user and student profile")
	fmt.Fprintln(cli.out, "  test-courses [-v]                       - course and assignment lists")
	fmt.Fprintln(cli.out, "  test-teachers [-v]                      - teacher list, then the first teacher")
	fmt.Fprintln(cli.out, "  test-connection [-v]                    - upload and achievement endpoints")
	fmt.Fprintln(cli.out, "  test-chat [-question Q] [-student ID] [-v] - profile assistant diagnostics")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd := flag.NewFlagSet(args[1], flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	verbose := cmd.Bool("v", false, "print response payloads")

	switch args[1] {
	case "set-mock-token":
		token := cmd.String("token", mockToken, "token to store")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *token == "" {
			cmd.Usage()
			return errHelp
		}
		cli.tokens.SetToken(*token)
		fmt.Fprintln(cli.out, "token stored")
		return nil
	case "clear-token":
		cli.tokens.Clear()
		fmt.Fprintln(cli.out, "token cleared")
		return nil
	case "check-token":
		return cli.checkToken()
	case "test-user", "test-courses", "test-teachers", "test-connection":
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		suite := map[string]string{
			"test-user":       "user",
			"test-courses":    "courses",
			"test-teachers":   "teachers",
			"test-connection": "connection",
		}[args[1]]
		return cli.runChecks(ctx, probe.Suites("", "")[suite], *verbose)
	case "test-chat":
		question := cmd.String("question", defaultQuestion, "question to ask")
		studentID := cmd.String("student", "", "student id; read from the token owner when empty")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		id := *studentID
		if id == "" && cli.tokens.Token() != "" {
			if resolved, err := cli.client.CurrentStudentID(ctx); err == nil {
				id = resolved
			}
		}
		return cli.runChecks(ctx, probe.ChatChecks(*question, id), *verbose)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) checkToken() error {
	token := cli.tokens.Token()
	if token == "" {
		fmt.Fprintln(cli.out, "no token stored")
		return nil
	}
	fmt.Fprintf(cli.out, "token present (%d chars)\n", len(token))

	claims, err := jwt.Inspect(token)
	if err != nil {
		fmt.Fprintf(cli.out, "token is not a readable JWT: %s\n", err)
		return nil
	}
	if claims.UserID != 0 {
		fmt.Fprintf(cli.out, "user id:    %d\n", claims.UserID)
	}
	if !claims.IssuedAt.IsZero() {
		fmt.Fprintf(cli.out, "issued at:  %s\n", claims.IssuedAt.UTC().Format(time.RFC3339))
	}
	if !claims.ExpiresAt.IsZero() {
		state := "valid"
		if claims.Expired(now()) {
			state = "expired"
		}
		fmt.Fprintf(cli.out, "expires at: %s (%s)\n", claims.ExpiresAt.UTC().Format(time.RFC3339), state)
	}

	keys := make([]string, 0, len(claims.Raw))
	for k := range claims.Raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch k {
		case "id", "iat", "exp":
			continue
		}
		fmt.Fprintf(cli.out, "%-12s%v\n", k+":", claims.Raw[k])
	}
	return nil
}

func (cli *commandLine) runChecks(ctx context.Context, checks []probe.Check, verbose bool) error {
	if cli.tokens.Token() == "" {
		fmt.Fprintln(cli.out, "warning: no token stored, guarded endpoints will answer 401")
	}
	results := probe.Run(ctx, cli.client, checks)
	for _, res := range results {
		fmt.Fprintf(cli.out, "[%s] %-24s %s (%s)\n", res.Status, res.Name, res.Message, res.Duration.Round(time.Millisecond))
		if verbose && len(res.Payload) > 0 {
			pretty, err := json.MarshalIndent(res.Payload, "    ", "  ")
			if err != nil {
				pretty = res.Payload
			}
			fmt.Fprintf(cli.out, "    %s\n", pretty)
		}
	}
	if !probe.Passed(results) {
		return errChecksFailed
	}
	return nil
}
