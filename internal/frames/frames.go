// Package frames names frame files and lists them in frame order.
//
// Frame files are named frame_NNNN.<ext> with a zero-based, four-digit
// (minimum) decode index. Listing parses the index back out of each name so
// frame_0010.jpg sorts after frame_0009.jpg regardless of how the directory
// happens to be enumerated.
package frames

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"framepack/internal/services"
)

const prefix = "frame_"

// Order selects how List arranges matching files.
type Order string

const (
	// OrderNumeric sorts by parsed frame index; names without an index follow
	// in lexical order.
	OrderNumeric Order = "numeric"
	// OrderFilesystem keeps directory enumeration order.
	OrderFilesystem Order = "filesystem"
)

// Entry is one matching frame file.
type Entry struct {
	Name  string
	Path  string
	Index int // -1 when the name carries no frame index
}

// Name returns the file name for the frame at index.
func Name(index int, ext string) string {
	return fmt.Sprintf("%s%04d.%s", prefix, index, strings.TrimPrefix(ext, "."))
}

// Pattern returns the ffmpeg-style output pattern for frames in dir.
func Pattern(dir, ext string) string {
	return filepath.Join(dir, prefix+"%04d."+strings.TrimPrefix(ext, "."))
}

// ParseIndex extracts the frame index from a name like frame_0042.jpg.
func ParseIndex(name string) (int, bool) {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, prefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(base, prefix)
	dot := strings.IndexByte(rest, '.')
	if dot <= 0 {
		return 0, false
	}
	digits := rest[:dot]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return index, true
}

// List returns the entries in dir whose names end with "."+ext, skipping
// directories and symlinks that resolve to directories. Other entries are
// kept so an unreadable frame fails when it is decoded instead of vanishing.
// The suffix comparison is case-sensitive.
func List(dir, ext string, order Order) ([]Entry, error) {
	dirEntries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	suffix := "." + strings.TrimPrefix(ext, ".")
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !strings.HasSuffix(name, suffix) || len(name) == len(suffix) {
			continue
		}
		if isDir(dir, de) {
			continue
		}
		index, ok := ParseIndex(name)
		if !ok {
			index = -1
		}
		entries = append(entries, Entry{Name: name, Path: filepath.Join(dir, name), Index: index})
	}

	if order == OrderNumeric || order == "" {
		SortNumeric(entries)
	}
	return entries, nil
}

// SortNumeric orders entries by frame index, placing unindexed names last.
func SortNumeric(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Index >= 0 && b.Index >= 0:
			if a.Index != b.Index {
				return a.Index < b.Index
			}
			return a.Name < b.Name
		case a.Index >= 0:
			return true
		case b.Index >= 0:
			return false
		default:
			return a.Name < b.Name
		}
	})
}

// MaxGapSpans caps how many missing runs a GapReport lists.
const MaxGapSpans = 16

// Span is an inclusive run of missing frame indices.
type Span struct {
	From int
	To   int
}

// GapReport counts the indices missing between the first and last indexed
// entry and lists the first MaxGapSpans runs of them.
type GapReport struct {
	Missing int
	Spans   []Span
}

// Gaps reports missing indices. Its cost depends on the number of entries,
// not on how far apart their indices are.
func Gaps(entries []Entry) GapReport {
	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.Index >= 0 {
			indices = append(indices, e.Index)
		}
	}
	sort.Ints(indices)

	var report GapReport
	for i := 1; i < len(indices); i++ {
		prev, cur := indices[i-1], indices[i]
		if cur-prev <= 1 {
			continue
		}
		report.Missing += cur - prev - 1
		if len(report.Spans) < MaxGapSpans {
			report.Spans = append(report.Spans, Span{From: prev + 1, To: cur - 1})
		}
	}
	return report
}

func isDir(dir string, de fs.DirEntry) bool {
	if de.IsDir() {
		return true
	}
	if de.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, de.Name()))
	return err == nil && info.IsDir()
}

func readDir(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "pack", "open directory", dir, err)
	}
	defer f.Close()
	// ReadDir(-1) on the handle keeps the raw enumeration order, unlike
	// os.ReadDir which sorts by name.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "pack", "read directory", dir, err)
	}
	return entries, nil
}
