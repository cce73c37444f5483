// Package metadata fetches per-video metadata through yt-dlp and writes it to
// a resumable CSV file.
//
// yt-dlp is shelled out to rather than reimplemented; its -j mode prints one
// JSON document per video with every field the CSV needs. Runs are resumable
// because the writer flushes after every row and the reader can list the ids
// already present in an output file.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/veltzer/tubekit/internal/shared"
)

// Record holds the metadata columns for one video.
type Record struct {
	VideoID                    string
	Title                      string
	Description                string
	Duration                   float64
	UploadDate                 string
	Uploader                   string
	UploaderID                 string
	Channel                    string
	ChannelID                  string
	ViewCount                  int64
	LikeCount                  int64
	CommentCount               int64
	AverageRating              *float64
	AgeLimit                   int64
	Categories                 []string
	Tags                       []string
	IsLive                     *bool
	WasLive                    *bool
	LiveStatus                 string
	Resolution                 string
	FPS                        float64
	VCodec                     string
	ACodec                     string
	Width                      int64
	Height                     int64
	Thumbnail                  string
	WebpageURL                 string
	Availability               string
	PlayableInEmbed            *bool
	ChannelFollowerCount       int64
	Language                   string
	SubtitlesAvailable         bool
	AutomaticCaptionsAvailable bool
}

// RunFunc executes a command and returns its stdout. Injectable for tests.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}

// Fetcher retrieves video metadata via the yt-dlp binary.
type Fetcher struct {
	logger *log.Logger
	run    RunFunc
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithRunFunc replaces the subprocess runner.
func WithRunFunc(run RunFunc) FetcherOption {
	return func(f *Fetcher) { f.run = run }
}

// NewFetcher creates a Fetcher. logger may be nil.
func NewFetcher(logger *log.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{logger: logger, run: defaultRun}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// rawInfo mirrors the yt-dlp -j fields the CSV cares about.
type rawInfo struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	Duration             float64        `json:"duration"`
	UploadDate           string         `json:"upload_date"`
	Uploader             string         `json:"uploader"`
	UploaderID           string         `json:"uploader_id"`
	Channel              string         `json:"channel"`
	ChannelID            string         `json:"channel_id"`
	ViewCount            int64          `json:"view_count"`
	LikeCount            int64          `json:"like_count"`
	CommentCount         int64          `json:"comment_count"`
	AverageRating        *float64       `json:"average_rating"`
	AgeLimit             int64          `json:"age_limit"`
	Categories           []string       `json:"categories"`
	Tags                 []string       `json:"tags"`
	IsLive               *bool          `json:"is_live"`
	WasLive              *bool          `json:"was_live"`
	LiveStatus           string         `json:"live_status"`
	Resolution           string         `json:"resolution"`
	FPS                  float64        `json:"fps"`
	VCodec               string         `json:"vcodec"`
	ACodec               string         `json:"acodec"`
	Width                int64          `json:"width"`
	Height               int64          `json:"height"`
	Thumbnail            string         `json:"thumbnail"`
	WebpageURL           string         `json:"webpage_url"`
	Availability         string         `json:"availability"`
	PlayableInEmbed      *bool          `json:"playable_in_embed"`
	ChannelFollowerCount int64          `json:"channel_follower_count"`
	Language             string         `json:"language"`
	Subtitles            map[string]any `json:"subtitles"`
	AutomaticCaptions    map[string]any `json:"automatic_captions"`
}

// Fetch returns the metadata for one video id.
//
// A failed first attempt is retried with --ignore-no-formats-error, which
// lets yt-dlp emit metadata for videos it cannot download (upcoming streams,
// region locks). A second failure means the video is gone and the caller
// should record it as not found.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (*Record, error) {
	url := "https://www.youtube.com/watch?v=" + videoID

	out, err := f.run(ctx, "yt-dlp", "-j", url)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("metadata fetch failed, retrying without formats", "video", videoID, "err", err)
		}
		out, err = f.run(ctx, "yt-dlp", "-j", "--ignore-no-formats-error", url)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}

	var raw rawInfo
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output for %s: %w", videoID, err)
	}
	if raw.ID == "" {
		raw.ID = videoID
	}

	return &Record{
		VideoID:                    raw.ID,
		Title:                      raw.Title,
		Description:                raw.Description,
		Duration:                   raw.Duration,
		UploadDate:                 raw.UploadDate,
		Uploader:                   raw.Uploader,
		UploaderID:                 raw.UploaderID,
		Channel:                    raw.Channel,
		ChannelID:                  raw.ChannelID,
		ViewCount:                  raw.ViewCount,
		LikeCount:                  raw.LikeCount,
		CommentCount:               raw.CommentCount,
		AverageRating:              raw.AverageRating,
		AgeLimit:                   raw.AgeLimit,
		Categories:                 raw.Categories,
		Tags:                       raw.Tags,
		IsLive:                     raw.IsLive,
		WasLive:                    raw.WasLive,
		LiveStatus:                 raw.LiveStatus,
		Resolution:                 raw.Resolution,
		FPS:                        raw.FPS,
		VCodec:                     raw.VCodec,
		ACodec:                     raw.ACodec,
		Width:                      raw.Width,
		Height:                     raw.Height,
		Thumbnail:                  raw.Thumbnail,
		WebpageURL:                 raw.WebpageURL,
		Availability:               raw.Availability,
		PlayableInEmbed:            raw.PlayableInEmbed,
		ChannelFollowerCount:       raw.ChannelFollowerCount,
		Language:                   raw.Language,
		SubtitlesAvailable:         len(raw.Subtitles) > 0,
		AutomaticCaptionsAvailable: len(raw.AutomaticCaptions) > 0,
	}, nil
}
