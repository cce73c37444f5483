package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/dumpdir"
	"github.com/veltzer/tubekit/internal/shared"
	"github.com/veltzer/tubekit/internal/tasks"
	"github.com/veltzer/tubekit/internal/youtube"
)

// subtractCommand removes one playlist's videos from another.
func subtractCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "subtract",
		Usage:     "Remove from a playlist every video that appears in other playlists",
		ArgsUsage: "<from> <what>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "commit", Usage: "Issue deletions (--commit=false for a dry run)", Value: true},
		},
		Action: r.Subtract,
	}
}

// Subtract computes from = from - union(what).
func (r *Runner) Subtract(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: a source playlist and at least one playlist to subtract", shared.ErrMissingArgument)
	}
	from, what := args[0], args[1:]
	commit := cmd.Bool("commit")

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	fromItems, err := client.ItemsFromNames(ctx, []string{from})
	if err != nil {
		return err
	}
	whatIDs, err := client.VideoIDsFromNames(ctx, what)
	if err != nil {
		return err
	}

	result, err := engine.Subtract(ctx, fromItems, whatIDs, commit)
	if err != nil {
		return err
	}

	r.writePlain("%s: %d items, %d matched, %d deleted\n", from, result.Seen, result.WantToDelete, result.Deleted)
	r.writeDryRunNote(commit)
	return nil
}

// mergeCommand unions playlists into a destination.
func mergeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Add to a destination playlist every video from the sources it is missing",
		ArgsUsage: "<dest> <source>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "commit", Usage: "Issue insertions (--commit=false for a dry run)", Value: true},
		},
		Action: r.Merge,
	}
}

// Merge unions source playlists into the destination without duplicating.
func (r *Runner) Merge(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: a destination playlist and at least one source", shared.ErrMissingArgument)
	}
	dest, sources := args[0], args[1:]
	commit := cmd.Bool("commit")

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	destID, err := client.ResolveID(ctx, dest)
	if err != nil {
		return err
	}
	destItems, err := client.ListItems(ctx, destID)
	if err != nil {
		return err
	}
	sourceItems, err := client.ItemsFromNames(ctx, sources)
	if err != nil {
		return err
	}

	result, err := engine.Merge(ctx, destID, destItems, sourceItems, commit)
	if err != nil {
		return err
	}

	r.writePlain("%s: %d present, %d source items, %d added, %d skipped\n",
		dest, result.DestSeen, result.Sources, result.Added, result.Skipped)
	r.writeDryRunNote(commit)
	return nil
}

// sortCommand reorders a playlist.
func sortCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sort",
		Usage:     "Sort a playlist by title, channel, or upload date",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Usage: "Sort key (title, channel, date)", Value: "title"},
			&cli.BoolFlag{Name: "commit", Usage: "Rewrite the playlist (--commit=false for a dry run)", Value: true},
		},
		Action: r.Sort,
	}
}

// Sort reorders a playlist by deleting and reinserting every item.
func (r *Runner) Sort(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	key, err := tasks.ParseSortKey(cmd.String("key"))
	if err != nil {
		return err
	}
	commit := cmd.Bool("commit")

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	id, err := client.ResolveID(ctx, name)
	if err != nil {
		return err
	}
	items, err := client.ListItems(ctx, id)
	if err != nil {
		return err
	}

	if commit {
		r.writePlain("Sorting rewrites the playlist in place; interrupting it leaves a partial order.\n")
	}

	result, err := engine.Sort(ctx, id, items, key, commit)
	if err != nil {
		return err
	}

	r.writePlain("%s: %d items, %d deleted, %d reinserted (key=%s)\n",
		name, result.Total, result.Deleted, result.Added, key)
	r.writeDryRunNote(commit)
	return nil
}

// leftToSeeCommand reports unwatched videos.
func leftToSeeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "left-to-see",
		Usage: "List video ids present in the catalog playlists but absent from the seen playlists",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "of", Usage: "Catalog playlist names", Required: true},
			&cli.StringSliceFlag{Name: "seen", Usage: "Playlists of already-watched videos", Required: true},
		},
		Action: r.LeftToSee,
	}
}

// LeftToSee prints union(of) minus union(seen), sorted.
func (r *Runner) LeftToSee(ctx context.Context, cmd *cli.Command) error {
	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	all, err := client.VideoIDsFromNames(ctx, cmd.StringSlice("of"))
	if err != nil {
		return err
	}
	seen, err := client.VideoIDsFromNames(ctx, cmd.StringSlice("seen"))
	if err != nil {
		return err
	}

	unseen := tasks.LeftToSee(all, seen)
	for _, id := range unseen {
		r.writePlain("%s\n", id)
	}
	r.logger.Info("left to see", "total", len(all), "seen", len(seen), "unseen", len(unseen))
	return nil
}

// overflowCommand drains a playlist into another up to the capacity cap.
func overflowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "overflow",
		Usage:     "Move videos from one playlist into another until the destination is full",
		ArgsUsage: "<source> <dest>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "capacity", Usage: "Destination capacity", Value: youtube.MaxPlaylistItems},
			&cli.BoolFlag{Name: "commit", Usage: "Issue the moves (--commit=false for a dry run)", Value: true},
		},
		Action: r.Overflow,
	}
}

// Overflow moves source items into the destination while it has room.
func (r *Runner) Overflow(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().Get(0)
	dest := cmd.Args().Get(1)
	if source == "" || dest == "" {
		return fmt.Errorf("%w: source and destination playlist names", shared.ErrMissingArgument)
	}
	commit := cmd.Bool("commit")

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	ids, err := client.ResolveIDs(ctx, []string{source, dest})
	if err != nil {
		return err
	}
	sourceItems, err := client.ListItems(ctx, ids[0])
	if err != nil {
		return err
	}
	destCount, err := client.ItemCount(ctx, ids[1])
	if err != nil {
		return err
	}

	result, err := engine.Overflow(ctx, sourceItems, ids[1], destCount, int(cmd.Int("capacity")), commit)
	if err != nil {
		return err
	}

	r.writePlain("%s → %s: %d present, %d slots, moved %d of %d\n",
		source, dest, result.DestCount, result.Available, result.Moved, result.WantToMove)
	r.writeDryRunNote(commit)
	return nil
}

// diffCommand compares playlists against dump files.
func diffCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Compare playlist contents against local dump files",
		ArgsUsage: "<name>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "folder", Usage: "Dump folder (defaults to the configured one)"},
			&cli.BoolFlag{Name: "reverse", Usage: "Show the intersection instead of the difference"},
		},
		Action: r.Diff,
	}
}

// Diff prints playlist ids missing from the dump files, or with --reverse the
// ids present in both.
func (r *Runner) Diff(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("%w: playlist names", shared.ErrMissingArgument)
	}

	folder := cmd.String("folder")
	if folder == "" {
		folder = expandFolder(r.config.Dump.Folder)
	}
	idx, err := dumpdir.Load(folder)
	if err != nil {
		return err
	}
	fileIDs := make(map[string]struct{})
	for _, file := range idx.Files() {
		for _, id := range idx.Lines(file) {
			fileIDs[id] = struct{}{}
		}
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}
	playlistIDs, err := client.VideoIDsFromNames(ctx, names)
	if err != nil {
		return err
	}

	for _, id := range tasks.DiffIDs(playlistIDs, fileIDs, cmd.Bool("reverse")) {
		r.writePlain("%s\n", id)
	}
	return nil
}
