// Package dumpdir indexes a folder of playlist dump files.
//
// A dump file is plain text, one video id per line, named after the playlist
// it was taken from. The index is built entirely from local files; no remote
// calls are made.
package dumpdir

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Index maps dump file names to their ordered line lists.
type Index struct {
	files map[string][]string
	names []string // sorted file names, for deterministic iteration
}

// Load reads every regular file in folder into an Index. Subdirectories and
// hidden files are skipped. Line order within each file is preserved.
func Load(folder string) (*Index, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read dump folder: %w", err)
	}

	idx := &Index{files: make(map[string][]string, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		lines, err := readLines(filepath.Join(folder, entry.Name()))
		if err != nil {
			return nil, err
		}
		idx.files[entry.Name()] = lines
		idx.names = append(idx.names, entry.Name())
	}
	sort.Strings(idx.names)
	return idx, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read dump file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return lines, nil
}

// videoIDPattern matches an 11-character video id standing alone at the start
// of a line or embedded in a share or watch URL.
var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/.*[?&]v=|^)([A-Za-z0-9_-]{11})(?:\s|$|&)`)

// CollectIDs scans arbitrary text files for video ids and returns the sorted
// unique set. Lines carrying neither a bare id nor a video URL are ignored,
// so the input does not have to be a clean dump file.
func CollectIDs(paths []string) ([]string, error) {
	found := make(map[string]struct{})
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open collect file: %w", err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			for _, m := range videoIDPattern.FindAllStringSubmatch(scanner.Text(), -1) {
				found[m[1]] = struct{}{}
			}
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
	}

	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Files returns the indexed file names in sorted order.
func (idx *Index) Files() []string {
	return idx.names
}

// Lines returns the ordered line list for one file, or nil when the file is
// not in the index.
func (idx *Index) Lines(name string) []string {
	return idx.files[name]
}

// FindID returns the names of every file containing the id, sorted.
func (idx *Index) FindID(id string) []string {
	var hits []string
	for _, name := range idx.names {
		for _, line := range idx.files[name] {
			if line == id {
				hits = append(hits, name)
				break
			}
		}
	}
	return hits
}

// Match is one pattern hit inside a dump file. Line numbers are 1-based.
type Match struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Search returns every line matching the regular expression, with file names
// and line numbers.
func (idx *Index) Search(pattern string) ([]Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile search pattern: %w", err)
	}
	var matches []Match
	for _, name := range idx.names {
		for i, line := range idx.files[name] {
			if re.MatchString(line) {
				matches = append(matches, Match{File: name, Line: i + 1, Text: line})
			}
		}
	}
	return matches, nil
}

// Stats summarizes the line counts of every indexed file.
type Stats struct {
	Counts  map[string]int `json:"counts"`
	Total   int            `json:"total"`
	MinFile string         `json:"min_file"`
	MinSize int            `json:"min_size"`
	MaxFile string         `json:"max_file"`
	MaxSize int            `json:"max_size"`
}

// Stats returns per-file line counts plus the smallest and largest file. An
// empty index returns zero values.
func (idx *Index) Stats() Stats {
	st := Stats{Counts: make(map[string]int, len(idx.names))}
	for i, name := range idx.names {
		n := len(idx.files[name])
		st.Counts[name] = n
		st.Total += n
		if i == 0 || n < st.MinSize {
			st.MinFile, st.MinSize = name, n
		}
		if i == 0 || n > st.MaxSize {
			st.MaxFile, st.MaxSize = name, n
		}
	}
	return st
}

// Duplicate is one id that appears more than once.
type Duplicate struct {
	ID string `json:"id"`
	// FirstFile is where the id was first seen (sorted file order). For
	// intra-file duplicates it is the file itself; for cross-file duplicates
	// OtherFile names a later file repeating the id.
	FirstFile string `json:"first_file"`
	OtherFile string `json:"other_file,omitempty"`
}

// Duplicates reports repeated ids: intra (same id twice in one file) and
// cross (same id in two distinct files). Files are visited in sorted order,
// so first-seen attribution is deterministic.
func (idx *Index) Duplicates() (intra, cross []Duplicate) {
	firstSeen := make(map[string]string)
	for _, name := range idx.names {
		inFile := make(map[string]struct{})
		for _, id := range idx.files[name] {
			if _, dup := inFile[id]; dup {
				intra = append(intra, Duplicate{ID: id, FirstFile: name})
				continue
			}
			inFile[id] = struct{}{}

			if first, seen := firstSeen[id]; seen {
				cross = append(cross, Duplicate{ID: id, FirstFile: first, OtherFile: name})
			} else {
				firstSeen[id] = name
			}
		}
	}
	return intra, cross
}
