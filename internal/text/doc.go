// Package text provides the document text engine used by the assist
// workflow: byte ranges, edits, and a revisioned buffer with atomic
// replacement.
//
// The buffer is string-backed rather than rope-backed. The suggestion
// lifecycle performs one replacement per accepted suggestion, not one per
// keystroke, so the O(n) copy on edit is irrelevant and the simpler
// representation wins.
package text
