package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/formatter"
	"github.com/veltzer/tubekit/internal/shared"
)

// dumpCommand archives every playlist to local files.
func dumpCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Write every playlist to a folder, one file of video ids per playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "folder", Usage: "Destination folder (defaults to the configured one, supports $date and $home)"},
		},
		Action: r.Dump,
	}
}

// dumpManifest records one dump run.
type dumpManifest struct {
	RunID     string         `json:"run_id"`
	Timestamp string         `json:"timestamp"`
	Folder    string         `json:"folder"`
	Playlists map[string]int `json:"playlists"`
}

// Dump writes each playlist's video ids to <folder>/<title>, plus a manifest
// describing the run. The manifest is hidden so the dump index skips it.
func (r *Runner) Dump(ctx context.Context, cmd *cli.Command) error {
	folder := cmd.String("folder")
	if folder == "" {
		folder = r.config.Dump.Folder
	}
	folder = expandFolder(folder)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	playlists, err := client.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	manifest := dumpManifest{
		RunID:     shared.GenerateID(),
		Timestamp: time.Now().Format(time.RFC3339),
		Folder:    folder,
		Playlists: make(map[string]int, len(playlists)),
	}

	for i, pl := range playlists {
		items, err := client.ListItems(ctx, pl.ID)
		if err != nil {
			return err
		}

		path := filepath.Join(folder, safeFilename(pl.Title))
		if err := os.WriteFile(path, formatter.ExportToIDList(items), 0644); err != nil {
			return err
		}

		manifest.Playlists[pl.Title] = len(items)
		r.logger.Info("dumped playlist", "playlist", pl.Title, "items", len(items), "progress", i+1, "total", len(playlists))
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(folder, ".manifest.json"), data, 0644); err != nil {
		return err
	}

	r.writePlain("Dumped %d playlists to %s (run %s)\n", len(playlists), folder, manifest.RunID)
	return nil
}

// expandFolder substitutes $date and $home in a dump folder template and
// expands a leading tilde.
func expandFolder(folder string) string {
	folder = strings.ReplaceAll(folder, "$date", time.Now().Format("2006-01-02"))
	if home, err := os.UserHomeDir(); err == nil {
		folder = strings.ReplaceAll(folder, "$home", home)
	}
	return shared.ExpandHome(folder)
}

// safeFilename strips path separators from a playlist title so it can name a
// dump file.
func safeFilename(title string) string {
	title = strings.ReplaceAll(title, "/", "_")
	title = strings.ReplaceAll(title, string(os.PathSeparator), "_")
	if title == "" {
		title = "untitled"
	}
	return title
}
