// Package sourcetext loads a circuit definition file once and keeps both its
// full content and a precomputed table of line-start byte offsets in
// memory, so diagnostic helpers never need to reopen the file for an
// absolute seek — every caret and line lookup is an in-memory slice.
package sourcetext

import (
	"fmt"
	"os"
	"strings"
)

var osReadFile = os.ReadFile

// Source is a validated, loaded circuit definition file. If a Source value
// exists, it is guaranteed to hold the file's full content and a non-empty
// line-offset table. There is no unloaded or partially-initialised state.
//
// Create a Source through Load or FromString.
type Source struct {
	path    string
	content string
	// lineStarts holds the byte offset of the first character of each line,
	// 0-indexed by line number - 1. lineStarts[0] is always 0.
	lineStarts []int
}

// Load reads the file at path and returns a ready-to-use Source, or an
// error if the file cannot be read.
func Load(path string) (Source, error) {
	content, err := osReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("sourcetext: %w", err)
	}
	return FromString(path, string(content)), nil
}

// FromString builds a Source directly from an in-memory string, bypassing
// the filesystem. Used by tests that exercise the scanner/parser against a
// literal circuit description without writing a file.
func FromString(path, content string) Source {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return Source{path: path, content: content, lineStarts: starts}
}

// Path returns the originating file path (or synthetic name for in-memory
// sources).
func (s Source) Path() string { return s.path }

// Content returns the full loaded source text.
func (s Source) Content() string { return s.content }

// LineCount returns the number of lines in the source.
func (s Source) LineCount() int { return len(s.lineStarts) }

// LineNumber returns the 1-based line number containing byte offset pos.
func (s Source) LineNumber(pos int) int {
	// Binary search over lineStarts for the last start <= pos.
	lo, hi := 0, len(s.lineStarts)-1
	line := 1
	for lo <= hi {
		mid := (lo + hi) / 2
		if s.lineStarts[mid] <= pos {
			line = mid + 1
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return line
}

// LineStart returns the byte offset of the start of the line containing
// pos.
func (s Source) LineStart(pos int) int {
	return s.lineStarts[s.LineNumber(pos)-1]
}

// LineText returns the full text of the line starting at byte offset
// lineStart, without its trailing newline.
func (s Source) LineText(lineStart int) string {
	end := strings.IndexByte(s.content[lineStart:], '\n')
	if end < 0 {
		return s.content[lineStart:]
	}
	return s.content[lineStart : lineStart+end]
}
