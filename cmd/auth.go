package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Run the OAuth browser flow and cache the token",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check whether a cached token exists",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached token",
				Action: r.AuthLogout,
			},
		},
	}
}

// AuthLogin forces the authorization flow and caches the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	a, err := r.authenticator()
	if err != nil {
		return err
	}

	if _, err := a.Client(ctx); err != nil {
		return err
	}

	r.writePlain("Authenticated. Token cached at %s\n", a.TokenPath())
	return nil
}

// AuthStatus reports whether a cached token exists.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	a, err := r.authenticator()
	if err != nil {
		return err
	}

	if a.Authenticated() {
		r.writePlain("Authenticated (token at %s)\n", a.TokenPath())
	} else {
		r.writePlain("Not authenticated. Run 'tubekit auth login'.\n")
	}
	return nil
}

// AuthLogout deletes the cached token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	a, err := r.authenticator()
	if err != nil {
		return err
	}

	if err := a.Logout(); err != nil {
		return err
	}
	r.writePlain("Logged out.\n")
	return nil
}
