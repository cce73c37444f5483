package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/formatter"
	"github.com/veltzer/tubekit/internal/shared"
)

// playlistsCommand lists the account's playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pls"},
		Usage:   "List all playlists on the account",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
		},
		Action: r.Playlists,
	}
}

// playlistCommand groups single-playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Operations on a single playlist",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the video ids of a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output full items as JSON"},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:      "count",
				Usage:     "Count the items in one or more playlists",
				ArgsUsage: "<name>...",
				Action:    r.PlaylistCount,
			},
			{
				Name:  "clear",
				Usage: "Delete every item in a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "commit", Usage: "Issue deletions (--commit=false for a dry run)", Value: true},
				},
				Action: r.PlaylistClear,
			},
			{
				Name:  "copy",
				Usage: "Append all items of one playlist to another",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "source"},
					&cli.StringArg{Name: "dest"},
				},
				Action: r.PlaylistCopy,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
					&cli.StringArg{Name: "new-name"},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:  "create",
				Usage: "Create a new playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Playlist description"},
					&cli.StringFlag{Name: "privacy", Usage: "Privacy status (private, unlisted, public)", Value: "private"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist entirely",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "commit", Usage: "Delete it (--commit=false for a dry run)", Value: true},
				},
				Action: r.PlaylistDelete,
			},
			{
				Name:  "add",
				Usage: "Add video ids from a file to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "File with one video id per line", Required: true},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "search",
				Usage: "Search a playlist's items by title or channel",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
					&cli.StringArg{Name: "query"},
				},
				Action: r.PlaylistSearch,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to CSV, text, JSON, or an id list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "Export format (csv, text, json, ids)", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// Playlists lists every playlist the account owns.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	playlists, err := client.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	for _, pl := range playlists {
		r.writePlain("%s (%d items)\n", pl.Title, pl.ItemCount)
	}
	return nil
}

// PlaylistShow prints the contents of one playlist.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	items, err := client.ItemsFromNames(ctx, []string{name})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	for _, item := range items {
		r.writePlain("%s\n", item.VideoID)
	}
	return nil
}

// PlaylistCount counts items by paging each playlist fully.
func (r *Runner) PlaylistCount(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("%w: playlist names", shared.ErrMissingArgument)
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	ids, err := client.ResolveIDs(ctx, names)
	if err != nil {
		return err
	}

	total := 0
	for i, id := range ids {
		count, err := client.ItemCount(ctx, id)
		if err != nil {
			return err
		}
		total += count
		r.writePlain("%s: %d\n", names[i], count)
	}
	if len(names) > 1 {
		r.writePlain("total: %d\n", total)
	}
	return nil
}

// PlaylistClear deletes every item in a playlist.
func (r *Runner) PlaylistClear(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	commit := cmd.Bool("commit")

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	items, err := client.ItemsFromNames(ctx, []string{name})
	if err != nil {
		return err
	}

	result, err := engine.Clear(ctx, items, commit)
	if err != nil {
		return err
	}

	r.writePlain("%s: %d items, %d deleted\n", name, result.Seen, result.Deleted)
	r.writeDryRunNote(commit)
	return nil
}

// PlaylistCopy appends all items of the source playlist to the destination.
func (r *Runner) PlaylistCopy(ctx context.Context, cmd *cli.Command) error {
	source := cmd.StringArg("source")
	dest := cmd.StringArg("dest")
	if source == "" || dest == "" {
		return fmt.Errorf("%w: source and destination playlist names", shared.ErrMissingArgument)
	}

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	ids, err := client.ResolveIDs(ctx, []string{source, dest})
	if err != nil {
		return err
	}

	items, err := client.ListItems(ctx, ids[0])
	if err != nil {
		return err
	}

	copied, err := engine.Copy(ctx, items, ids[1])
	if err != nil {
		return err
	}

	r.writePlain("Copied %d items from %s to %s\n", copied, source, dest)
	return nil
}

// PlaylistRename changes a playlist's title.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	newName := cmd.StringArg("new-name")
	if name == "" || newName == "" {
		return fmt.Errorf("%w: current and new playlist names", shared.ErrMissingArgument)
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	id, err := client.ResolveID(ctx, name)
	if err != nil {
		return err
	}
	if err := client.RenamePlaylist(ctx, id, newName); err != nil {
		return err
	}

	r.writePlain("Renamed %s to %s\n", name, newName)
	return nil
}

// PlaylistCreate creates a new playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	id, err := client.CreatePlaylist(ctx, name, cmd.String("description"), cmd.String("privacy"))
	if err != nil {
		return err
	}

	r.writePlain("Created %s (%s)\n", name, id)
	return nil
}

// PlaylistDelete removes a playlist entirely.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	commit := cmd.Bool("commit")

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	id, err := client.ResolveID(ctx, name)
	if err != nil {
		return err
	}

	if commit {
		if err := client.DeletePlaylist(ctx, id); err != nil {
			return err
		}
		r.writePlain("Deleted %s\n", name)
	} else {
		r.writePlain("Would delete %s (%s)\n", name, id)
	}
	r.writeDryRunNote(commit)
	return nil
}

// PlaylistAdd inserts video ids read from a file.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	videoIDs, err := readIDFile(cmd.String("file"))
	if err != nil {
		return err
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	id, err := client.ResolveID(ctx, name)
	if err != nil {
		return err
	}

	for _, videoID := range videoIDs {
		if err := client.InsertItem(ctx, id, videoID); err != nil {
			return err
		}
	}

	r.writePlain("Added %d videos to %s\n", len(videoIDs), name)
	return nil
}

// PlaylistSearch finds items matching a query in title or channel.
func (r *Runner) PlaylistSearch(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	query := cmd.StringArg("query")
	if name == "" || query == "" {
		return fmt.Errorf("%w: playlist name and query", shared.ErrMissingArgument)
	}

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	items, err := client.ItemsFromNames(ctx, []string{name})
	if err != nil {
		return err
	}

	for _, item := range engine.Search(items, query) {
		r.writePlain("%s  %s", item.VideoID, item.Title)
		if item.Channel != "" {
			r.writePlain("  (%s)", item.Channel)
		}
		r.writePlain("\n")
	}
	return nil
}

// PlaylistExport writes a playlist to a file in the requested format.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	playlists, err := client.ListPlaylists(ctx)
	if err != nil {
		return err
	}
	export := &formatter.PlaylistExport{}
	for _, pl := range playlists {
		if pl.Title == name {
			export.Playlist = pl
		}
	}
	if export.Playlist.ID == "" {
		return fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
	}

	export.Items, err = client.ListItems(ctx, export.Playlist.ID)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	var path string
	switch format := cmd.String("format"); format {
	case "csv":
		path, err = formatter.WriteCSVExport(export, output)
	case "text":
		path, err = formatter.WriteTextExport(export, output)
	case "json":
		path, err = formatter.WriteJSONExport(export, output)
	case "ids":
		if output == "" {
			output = export.Playlist.ID + ".txt"
		}
		err = os.WriteFile(output, formatter.ExportToIDList(export.Items), 0644)
		path = output
	default:
		return fmt.Errorf("%w: format %q (want csv, text, json, or ids)", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	r.writePlain("Exported %s to %s\n", name, path)
	return nil
}

// readIDFile reads one video id per line, skipping blanks and comments.
func readIDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open id file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read id file: %w", err)
	}
	return ids, nil
}
