// Package diffview builds transient comparison views showing a document's
// current text against an AI-proposed replacement.
//
// A Session is cheap, immutable data. Opening one on screen is best-effort;
// callers that cannot render a session fall back to the plain-text form from
// Render.
package diffview

import (
	"fmt"
	"strings"
)

// Op represents the type of diff operation.
type Op uint8

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

// String returns the string representation of the diff operation.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Hunk represents a single contiguous diff change.
type Hunk struct {
	// Operation is the type of change.
	Operation Op

	// OldStart is the starting line in the original content.
	OldStart int

	// NewStart is the starting line in the new content.
	NewStart int

	// OldLines contains the original lines (for delete/replace/equal).
	OldLines []string

	// NewLines contains the new lines (for insert/replace/equal).
	NewLines []string
}

// Session is a side-by-side comparison of original and proposed text.
type Session struct {
	// Title identifies the comparison (typically the document name).
	Title string

	// Left is the original text.
	Left string

	// Right is the proposed text.
	Right string

	// Hunks are the computed line differences.
	Hunks []Hunk
}

// New computes a diff session between original and proposed text.
func New(title, left, right string) *Session {
	return &Session{
		Title: title,
		Left:  left,
		Right: right,
		Hunks: ComputeLines(splitLines(left), splitLines(right)),
	}
}

// AdditionCount returns the number of added lines.
func (s *Session) AdditionCount() int {
	count := 0
	for _, h := range s.Hunks {
		if h.Operation == OpInsert || h.Operation == OpReplace {
			count += len(h.NewLines)
		}
	}
	return count
}

// DeletionCount returns the number of deleted lines.
func (s *Session) DeletionCount() int {
	count := 0
	for _, h := range s.Hunks {
		if h.Operation == OpDelete || h.Operation == OpReplace {
			count += len(h.OldLines)
		}
	}
	return count
}

// HasChanges returns true if the session contains any non-equal hunk.
func (s *Session) HasChanges() bool {
	for _, h := range s.Hunks {
		if h.Operation != OpEqual {
			return true
		}
	}
	return false
}

// Render returns a plain-text unified rendering of the session, suitable as
// the fallback display when no diff UI is available.
func (s *Session) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- %s (current)\n", s.Title)
	fmt.Fprintf(&b, "+++ %s (proposed)\n", s.Title)

	for _, h := range s.Hunks {
		switch h.Operation {
		case OpEqual:
			for _, line := range h.OldLines {
				b.WriteString("  " + line + "\n")
			}
		case OpDelete:
			for _, line := range h.OldLines {
				b.WriteString("- " + line + "\n")
			}
		case OpInsert:
			for _, line := range h.NewLines {
				b.WriteString("+ " + line + "\n")
			}
		case OpReplace:
			for _, line := range h.OldLines {
				b.WriteString("- " + line + "\n")
			}
			for _, line := range h.NewLines {
				b.WriteString("+ " + line + "\n")
			}
		}
	}

	return b.String()
}

// ComputeLines computes a line-by-line diff using LCS.
func ComputeLines(oldLines, newLines []string) []Hunk {
	oldLen := len(oldLines)
	newLen := len(newLines)

	if oldLen == 0 && newLen == 0 {
		return nil
	}
	if oldLen == 0 {
		return []Hunk{{Operation: OpInsert, NewLines: newLines}}
	}
	if newLen == 0 {
		return []Hunk{{Operation: OpDelete, OldLines: oldLines}}
	}

	// LCS length table.
	lcs := make([][]int, oldLen+1)
	for i := range lcs {
		lcs[i] = make([]int, newLen+1)
	}
	for i := oldLen - 1; i >= 0; i-- {
		for j := newLen - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	// Walk the table emitting hunks, merging adjacent delete+insert pairs
	// into replace hunks.
	var hunks []Hunk
	var pending *Hunk
	i, j := 0, 0

	flush := func() {
		if pending != nil {
			if len(pending.OldLines) > 0 && len(pending.NewLines) > 0 {
				pending.Operation = OpReplace
			} else if len(pending.OldLines) > 0 {
				pending.Operation = OpDelete
			} else {
				pending.Operation = OpInsert
			}
			hunks = append(hunks, *pending)
			pending = nil
		}
	}

	changed := func() *Hunk {
		if pending == nil {
			pending = &Hunk{OldStart: i, NewStart: j}
		}
		return pending
	}

	for i < oldLen && j < newLen {
		if oldLines[i] == newLines[j] {
			flush()
			eq := Hunk{Operation: OpEqual, OldStart: i, NewStart: j}
			for i < oldLen && j < newLen && oldLines[i] == newLines[j] {
				eq.OldLines = append(eq.OldLines, oldLines[i])
				eq.NewLines = append(eq.NewLines, newLines[j])
				i++
				j++
			}
			hunks = append(hunks, eq)
		} else if lcs[i+1][j] >= lcs[i][j+1] {
			h := changed()
			h.OldLines = append(h.OldLines, oldLines[i])
			i++
		} else {
			h := changed()
			h.NewLines = append(h.NewLines, newLines[j])
			j++
		}
	}
	for i < oldLen {
		h := changed()
		h.OldLines = append(h.OldLines, oldLines[i])
		i++
	}
	for j < newLen {
		h := changed()
		h.NewLines = append(h.NewLines, newLines[j])
		j++
	}
	flush()

	return hunks
}

// splitLines splits text into lines without trailing line endings.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
