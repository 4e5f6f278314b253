// Command apidebug runs diagnostic calls against the portal backend from a
// terminal, with the token kept in a local file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/config"
	"github.com/eduportal/portal/shared/logger"
)

func main() {
	if err := config.LoadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		errAndDie(err)
	}
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	errAndDie(err)
	// Diagnostics print results themselves; the client logs only on request.
	level := "warn"
	if cfg.Public.DevMode {
		level = cfg.Public.LogLevel
	}
	logger.InitializeWriter(os.Stderr, level, false)

	tokenPath := cfg.Public.TokenFile
	if tokenPath == "" {
		tokenPath = session.DefaultFilePath()
	}
	tokens := session.NewFile(tokenPath)

	cli := &commandLine{
		out:    os.Stdout,
		tokens: tokens,
		client: apiclient.New(cfg.APIURL(), cfg.ServerURL(), tokens, apiclient.WithTimeout(cfg.Public.Timeout)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cli.run(ctx, os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
