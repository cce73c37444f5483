package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/auth"
	"github.com/veltzer/tubekit/internal/retry"
	"github.com/veltzer/tubekit/internal/shared"
	"github.com/veltzer/tubekit/internal/tasks"
	"github.com/veltzer/tubekit/internal/youtube"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer

	// client and engine are initialized lazily on first remote call so
	// offline commands (local, setup) never touch the OAuth flow.
	auth   *auth.Authenticator
	client *youtube.Client
	engine *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, playlistCommand,
		cleanupCommand, subtractCommand, mergeCommand, sortCommand,
		leftToSeeCommand, overflowCommand, diffCommand,
		dumpCommand, localCommand, videoCommand, channelCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger. Remote components pick it up on lazy
// init, so this must run before the first API call.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// authenticator builds (or returns) the OAuth authenticator.
func (r *Runner) authenticator() (*auth.Authenticator, error) {
	if r.auth != nil {
		return r.auth, nil
	}
	a, err := auth.New(
		r.config.YouTube.ClientID,
		r.config.YouTube.ClientSecret,
		r.config.YouTube.TokenDir,
		r.logger,
	)
	if err != nil {
		return nil, err
	}
	r.auth = a
	return a, nil
}

// yt returns the API client, running the auth flow on first use.
func (r *Runner) yt(ctx context.Context) (*youtube.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	a, err := r.authenticator()
	if err != nil {
		return nil, err
	}
	httpClient, err := a.Client(ctx)
	if err != nil {
		return nil, err
	}

	opts := []youtube.ClientOption{}
	if r.config.Pagination.PageSize > 0 {
		opts = append(opts, youtube.WithPageSize(r.config.Pagination.PageSize))
	}
	if r.config.Retry.MaxAttempts > 0 {
		cfg := retry.DefaultConfig()
		cfg.MaxAttempts = r.config.Retry.MaxAttempts
		opts = append(opts, youtube.WithRetryConfig(cfg))
	}
	if r.config.RateLimit.RequestsPerSecond > 0 {
		opts = append(opts, youtube.WithRateLimit(r.config.RateLimit.RequestsPerSecond))
	}

	client, err := youtube.NewClient(ctx, httpClient, r.logger, opts)
	if err != nil {
		return nil, err
	}
	r.client = client
	r.engine = tasks.NewEngine(client, r.logger)
	return client, nil
}

// reconciler returns the engine, initializing the client first.
func (r *Runner) reconciler(ctx context.Context) (*tasks.Engine, *youtube.Client, error) {
	client, err := r.yt(ctx)
	if err != nil {
		return nil, nil, err
	}
	return r.engine, client, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeDryRunNote reminds the user that nothing was mutated.
func (r *Runner) writeDryRunNote(commit bool) {
	if !commit {
		r.writePlain("\nDry run: no changes were made. Re-run with --commit to apply.\n")
	}
}
