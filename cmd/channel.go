package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/youtube"
)

// channelCommand exposes account channel helpers.
func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "channel",
		Usage: "Account channel operations",
		Commands: []*cli.Command{
			{
				Name:  "id",
				Usage: "Print the authenticated account's channel id",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "watch-later", Usage: "Print the derived Watch Later playlist id instead"},
				},
				Action: r.ChannelID,
			},
			{
				Name:  "list",
				Usage: "Print the account's channels as JSON",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.Channels,
			},
		},
	}
}

// Channels prints the account's channel records.
func (r *Runner) Channels(ctx context.Context, cmd *cli.Command) error {
	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	channels, err := client.Channels(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(channels, cmd.Bool("pretty"))
}

// ChannelID prints the channel id, or the Watch Later playlist id derived
// from it.
func (r *Runner) ChannelID(ctx context.Context, cmd *cli.Command) error {
	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	id, err := client.ChannelID(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("watch-later") {
		r.writePlain("%s\n", youtube.WatchLaterID(id))
		return nil
	}
	r.writePlain("%s\n", id)
	return nil
}
