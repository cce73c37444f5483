package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/shared"
	"github.com/veltzer/tubekit/internal/tasks"
)

// cleanupCommand removes duplicates and dead entries from playlists.
func cleanupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "cleanup",
		Usage:     "Remove duplicate, deleted, and privatized videos from playlists",
		ArgsUsage: "<name>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Clean every playlist on the account"},
			&cli.BoolFlag{Name: "dedup", Usage: "Remove duplicate videos", Value: true},
			&cli.BoolFlag{Name: "deleted", Usage: "Remove deleted videos", Value: true},
			&cli.BoolFlag{Name: "privatized", Usage: "Remove privatized videos"},
			&cli.BoolFlag{Name: "commit", Usage: "Issue deletions (--commit=false for a dry run)", Value: true},
		},
		Action: r.Cleanup,
	}
}

// Cleanup runs the cleanup pass over the named playlists, or all of them.
func (r *Runner) Cleanup(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 && !cmd.Bool("all") {
		return fmt.Errorf("%w: playlist names (or --all)", shared.ErrMissingArgument)
	}

	opts := tasks.CleanupOpts{
		Dedup:      cmd.Bool("dedup"),
		Deleted:    cmd.Bool("deleted"),
		Privatized: cmd.Bool("privatized"),
		Commit:     cmd.Bool("commit"),
	}

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	var ids []string
	if cmd.Bool("all") {
		playlists, err := client.ListPlaylists(ctx)
		if err != nil {
			return err
		}
		for _, pl := range playlists {
			ids = append(ids, pl.ID)
			names = append(names, pl.Title)
		}
	} else {
		ids, err = client.ResolveIDs(ctx, names)
		if err != nil {
			return err
		}
	}

	var total tasks.CleanupResult
	for i, id := range ids {
		items, err := client.ListItems(ctx, id)
		if err != nil {
			return err
		}

		result, err := engine.Cleanup(ctx, items, opts, nil)
		if err != nil {
			return err
		}

		r.writePlain("%s: %d items, %d duplicates, %d deleted videos, %d privatized, removed %d\n",
			names[i], result.Seen, result.Duplicates, result.DeletedVideo, result.Privatized, result.Deleted)

		total.Seen += result.Seen
		total.Duplicates += result.Duplicates
		total.DeletedVideo += result.DeletedVideo
		total.Privatized += result.Privatized
		total.WantToDelete += result.WantToDelete
		total.Deleted += result.Deleted
	}

	if len(ids) > 1 {
		r.writePlainHeader("Cleanup Summary")
		r.writePlain("Items seen: %d\nWould remove: %d\nRemoved: %d\n",
			total.Seen, total.WantToDelete, total.Deleted)
	}
	r.writeDryRunNote(opts.Commit)
	return nil
}
