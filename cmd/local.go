package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/dumpdir"
	"github.com/veltzer/tubekit/internal/shared"
)

// localCommand queries dump folders without touching the API.
func localCommand(r *Runner) *cli.Command {
	folderFlag := &cli.StringFlag{
		Name:  "folder",
		Usage: "Dump folder (defaults to the configured one)",
	}

	return &cli.Command{
		Name:  "local",
		Usage: "Query local playlist dumps (no API calls)",
		Commands: []*cli.Command{
			{
				Name:      "find",
				Usage:     "Find which dump files contain a video id",
				ArgsUsage: "<video-id>",
				Flags:     []cli.Flag{folderFlag},
				Action:    r.LocalFind,
			},
			{
				Name:      "search",
				Usage:     "Search dump lines with a regular expression",
				ArgsUsage: "<pattern>",
				Flags:     []cli.Flag{folderFlag},
				Action:    r.LocalSearch,
			},
			{
				Name:   "stats",
				Usage:  "Per-file line counts with min/max summary",
				Flags:  []cli.Flag{folderFlag},
				Action: r.LocalStats,
			},
			{
				Name:   "dupes",
				Usage:  "Report ids repeated within a file or across files",
				Flags:  []cli.Flag{folderFlag},
				Action: r.LocalDupes,
			},
			{
				Name:      "collect-ids",
				Usage:     "Extract video ids from arbitrary text files",
				ArgsUsage: "<file>...",
				Action:    r.LocalCollectIDs,
			},
		},
	}
}

func (r *Runner) loadDumpIndex(cmd *cli.Command) (*dumpdir.Index, error) {
	folder := cmd.String("folder")
	if folder == "" {
		folder = expandFolder(r.config.Dump.Folder)
	}
	return dumpdir.Load(folder)
}

// LocalFind prints the dump files containing a video id.
func (r *Runner) LocalFind(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	idx, err := r.loadDumpIndex(cmd)
	if err != nil {
		return err
	}

	files := idx.FindID(id)
	if len(files) == 0 {
		r.writePlain("%s not found in any dump file\n", id)
		return nil
	}
	for _, file := range files {
		r.writePlain("%s\n", file)
	}
	return nil
}

// LocalSearch greps the dump lines.
func (r *Runner) LocalSearch(ctx context.Context, cmd *cli.Command) error {
	pattern := cmd.Args().First()
	if pattern == "" {
		return fmt.Errorf("%w: search pattern", shared.ErrMissingArgument)
	}

	idx, err := r.loadDumpIndex(cmd)
	if err != nil {
		return err
	}

	matches, err := idx.Search(pattern)
	if err != nil {
		return err
	}
	for _, m := range matches {
		r.writePlain("%s:%d:%s\n", m.File, m.Line, m.Text)
	}
	return nil
}

// LocalStats summarizes dump file sizes.
func (r *Runner) LocalStats(ctx context.Context, cmd *cli.Command) error {
	idx, err := r.loadDumpIndex(cmd)
	if err != nil {
		return err
	}

	st := idx.Stats()
	files := make([]string, 0, len(st.Counts))
	for file := range st.Counts {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		r.writePlain("%s: %d\n", file, st.Counts[file])
	}
	r.writePlain("\ntotal: %d\nsmallest: %s (%d)\nlargest: %s (%d)\n",
		st.Total, st.MinFile, st.MinSize, st.MaxFile, st.MaxSize)
	return nil
}

// LocalCollectIDs scrapes video ids out of text files. Lines can carry bare
// ids or watch/share URLs, so the output feeds 'playlist add --file' and
// 'video metadata --file' without hand cleaning.
func (r *Runner) LocalCollectIDs(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: files to scan", shared.ErrMissingArgument)
	}

	ids, err := dumpdir.CollectIDs(paths)
	if err != nil {
		return err
	}
	for _, id := range ids {
		r.writePlain("%s\n", id)
	}
	r.logger.Info("collected video ids", "files", len(paths), "unique", len(ids))
	return nil
}

// LocalDupes reports repeated ids inside and across dump files.
func (r *Runner) LocalDupes(ctx context.Context, cmd *cli.Command) error {
	idx, err := r.loadDumpIndex(cmd)
	if err != nil {
		return err
	}

	intra, cross := idx.Duplicates()
	for _, dup := range intra {
		r.writePlain("within %s: %s\n", dup.FirstFile, dup.ID)
	}
	for _, dup := range cross {
		r.writePlain("across files: %s in %s and %s\n", dup.ID, dup.FirstFile, dup.OtherFile)
	}
	r.writePlain("\n%d within-file, %d cross-file duplicates\n", len(intra), len(cross))
	return nil
}
