package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/shared"
)

// setupCommand creates a starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a starter config.toml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// Setup writes the example configuration to disk for the user to fill in.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("Wrote %s. Fill in your OAuth client credentials before running other commands.\n", path)
	return nil
}
