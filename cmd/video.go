package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/metadata"
	"github.com/veltzer/tubekit/internal/shared"
)

// videoCommand groups per-video operations.
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "video",
		Usage: "Per-video operations",
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "Print a video's API record as JSON",
				ArgsUsage: "<video-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.VideoInfo,
			},
			{
				Name:      "metadata",
				Usage:     "Fetch yt-dlp metadata for playlists into a resumable CSV",
				ArgsUsage: "<name>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Read video ids from a file instead of playlists"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "CSV output path", Value: "metadata.csv"},
				},
				Action: r.VideoMetadata,
			},
		},
	}
}

// VideoInfo prints the full API record of one video.
func (r *Runner) VideoInfo(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	client, err := r.yt(ctx)
	if err != nil {
		return err
	}

	video, err := client.VideoInfo(ctx, id)
	if err != nil {
		return err
	}
	return r.writeJSON(video, cmd.Bool("pretty"))
}

// VideoMetadata fetches yt-dlp metadata for every video in the named
// playlists (or an id file) and appends rows to a CSV.
//
// The run is resumable: ids already present in the output are skipped, and
// every row is flushed as it is written. Videos yt-dlp cannot resolve get a
// marker row so they are not retried on resume.
func (r *Runner) VideoMetadata(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	idFile := cmd.String("file")
	if len(names) == 0 && idFile == "" {
		return fmt.Errorf("%w: playlist names or --file", shared.ErrMissingArgument)
	}

	var videoIDs []string
	if idFile != "" {
		ids, err := readIDFile(idFile)
		if err != nil {
			return err
		}
		videoIDs = ids
	} else {
		client, err := r.yt(ctx)
		if err != nil {
			return err
		}
		items, err := client.ItemsFromNames(ctx, names)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			if _, dup := seen[item.VideoID]; dup {
				continue
			}
			seen[item.VideoID] = struct{}{}
			videoIDs = append(videoIDs, item.VideoID)
		}
	}

	output := cmd.String("output")
	processed, err := metadata.ReadProcessedIDs(output)
	if err != nil {
		return err
	}
	writer, err := metadata.OpenWriter(output)
	if err != nil {
		return err
	}
	defer writer.Close()

	fetcher := metadata.NewFetcher(r.logger)
	fetched, skipped, missing := 0, 0, 0
	for i, id := range videoIDs {
		if _, done := processed[id]; done {
			skipped++
			continue
		}

		rec, err := fetcher.Fetch(ctx, id)
		if errors.Is(err, shared.ErrVideoNotFound) {
			if err := writer.WriteNotFound(id); err != nil {
				return err
			}
			missing++
			continue
		}
		if err != nil {
			return err
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
		fetched++

		if (i+1)%100 == 0 || i+1 == len(videoIDs) {
			r.logger.Info("metadata progress", "current", i+1, "total", len(videoIDs))
		}
	}

	r.writePlain("Wrote %s: %d fetched, %d already present, %d not found\n", output, fetched, skipped, missing)
	return nil
}
