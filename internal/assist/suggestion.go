package assist

import (
	"github.com/dshills/codeassist/internal/host"
	"github.com/dshills/codeassist/internal/text"
)

// State represents the lifecycle state of the manager.
type State uint8

const (
	// StateIdle means no suggestion is pending.
	StateIdle State = iota
	// StatePresented means a suggestion is on display awaiting accept or
	// reject. There is no timeout; it stays presented until acted upon or
	// superseded.
	StatePresented
	// StateApplying is the transient state while the accept sequence runs.
	StateApplying
	// StateRejecting is the transient state while the reject sequence runs.
	StateRejecting
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePresented:
		return "presented"
	case StateApplying:
		return "applying"
	case StateRejecting:
		return "rejecting"
	default:
		return "unknown"
	}
}

// PendingSuggestion is an AI-proposed replacement for a text range, paired
// with an explanation. The manager owns at most one instance at a time.
type PendingSuggestion struct {
	// DocumentID identifies the target document independent of any view.
	DocumentID host.DocumentID

	// Range is the text span being replaced, valid at presentation time.
	// It can go stale if the document is edited externally before accept;
	// the host surface rejects the edit in that case.
	Range text.Range

	// ReplacementText is the proposed text. May be empty; the manager
	// exercises no judgment on content.
	ReplacementText string

	// Explanation is the human-readable rationale. Always present,
	// possibly empty.
	Explanation string
}

// Notifier is the user-visible channel for terminal outcomes. Every accept,
// reject, and failure produces exactly one notification; there are no silent
// failures.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}
