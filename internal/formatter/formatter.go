// package formatter provides functions to export playlist contents to various formats (CSV, plain text, JSON, id lists)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/veltzer/tubekit/internal/shared"
	"github.com/veltzer/tubekit/internal/youtube"
)

// PlaylistExport bundles a playlist with its full item list for export.
type PlaylistExport struct {
	Playlist youtube.Playlist `json:"playlist"`
	Items    []youtube.Item   `json:"items"`
}

// ExportToCSV converts a PlaylistExport to CSV format with columns: position, video_id, title, channel
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"position", "video_id", "title", "channel"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{
			strconv.FormatInt(item.Position, 10),
			item.VideoID,
			item.Title,
			item.Channel,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text format
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Playlist.Title))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(export.Items)))

	for i, item := range export.Items {
		channelPart := ""
		if item.Channel != "" {
			channelPart = fmt.Sprintf(" - %s", item.Channel)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s [%s]\n", i+1, item.Title, channelPart, item.VideoID))
	}

	return buf.Bytes(), nil
}

// ExportToIDList renders just the video ids, one per line, the dump file format.
func ExportToIDList(items []youtube.Item) []byte {
	var buf bytes.Buffer
	for _, item := range items {
		buf.WriteString(item.VideoID)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ExportToJSON converts a PlaylistExport to indented JSON
func ExportToJSON(export *PlaylistExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// WriteCSVExport exports a playlist to a CSV file.
//
// Defaults to {playlist.ID}.csv as the filename.
func WriteCSVExport(export *PlaylistExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = export.Playlist.ID + ".csv"
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports a playlist to plain text format.
//
// Defaults to {playlist.ID}.txt as the filename.
func WriteTextExport(export *PlaylistExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = export.Playlist.ID + ".txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports a playlist to an indented JSON file.
//
// Defaults to {playlist.ID}.json as the filename.
func WriteJSONExport(export *PlaylistExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = export.Playlist.ID + ".json"
	}

	jsonData, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}
