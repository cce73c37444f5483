package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// NotFoundTitle marks rows for videos yt-dlp could not resolve. The row keeps
// its video id so a resumed run skips it instead of retrying forever.
const NotFoundTitle = "METADATA_NOT_FOUND"

// FieldNames returns the CSV header, in column order.
func FieldNames() []string {
	return []string{
		"video_id", "title", "description", "duration", "upload_date",
		"uploader", "uploader_id", "channel", "channel_id",
		"view_count", "like_count", "comment_count", "average_rating",
		"age_limit", "categories", "tags",
		"is_live", "was_live", "live_status",
		"resolution", "fps", "vcodec", "acodec", "width", "height",
		"thumbnail", "webpage_url", "availability", "playable_in_embed",
		"channel_follower_count", "language",
		"subtitles_available", "automatic_captions_available",
	}
}

// row renders the record as CSV cells matching FieldNames order.
func (r *Record) row() []string {
	return []string{
		r.VideoID, r.Title, r.Description,
		formatFloat(r.Duration), r.UploadDate,
		r.Uploader, r.UploaderID, r.Channel, r.ChannelID,
		formatInt(r.ViewCount), formatInt(r.LikeCount), formatInt(r.CommentCount),
		formatFloatPtr(r.AverageRating),
		formatInt(r.AgeLimit),
		strings.Join(r.Categories, "|"), strings.Join(r.Tags, "|"),
		formatBoolPtr(r.IsLive), formatBoolPtr(r.WasLive), r.LiveStatus,
		r.Resolution, formatFloat(r.FPS), r.VCodec, r.ACodec,
		formatInt(r.Width), formatInt(r.Height),
		r.Thumbnail, r.WebpageURL, r.Availability,
		formatBoolPtr(r.PlayableInEmbed),
		formatInt(r.ChannelFollowerCount), r.Language,
		strconv.FormatBool(r.SubtitlesAvailable),
		strconv.FormatBool(r.AutomaticCaptionsAvailable),
	}
}

func formatInt(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatBoolPtr(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// ReadProcessedIDs returns the video ids already present in the CSV at path.
// A missing file means a fresh run and yields an empty set.
func ReadProcessedIDs(path string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return ids, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open metadata csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read metadata csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) > 0 && rec[0] != "" {
			ids[rec[0]] = struct{}{}
		}
	}
}

// Writer appends metadata rows to a CSV file, flushing after every row so an
// interrupted run loses at most the row in flight.
type Writer struct {
	f *os.File
	w *csv.Writer
}

// OpenWriter opens path for appending, writing the header first when the file
// is new or empty.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open metadata csv: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat metadata csv: %w", err)
	}

	w := &Writer{f: f, w: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := w.writeRow(FieldNames()); err != nil {
			f.Close()
			return nil, err
		}
	}
	return w, nil
}

// Write appends one record.
func (w *Writer) Write(rec *Record) error {
	return w.writeRow(rec.row())
}

// WriteNotFound appends a marker row for a video that could not be resolved.
func (w *Writer) WriteNotFound(videoID string) error {
	rec := Record{VideoID: videoID, Title: NotFoundTitle}
	return w.writeRow(rec.row())
}

func (w *Writer) writeRow(row []string) error {
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("write metadata row: %w", err)
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush metadata row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
