package assist

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/codeassist/internal/decoration"
	"github.com/dshills/codeassist/internal/diffview"
	"github.com/dshills/codeassist/internal/host"
	"github.com/dshills/codeassist/internal/logging"
	"github.com/dshills/codeassist/internal/text"
)

// Options configures manager behavior.
type Options struct {
	// ShowInlineDecorations highlights the target range in a live surface
	// while a suggestion is presented.
	ShowInlineDecorations bool

	// AutoSave persists the document after a successful apply. Save
	// failure is reported but never rolls back the edit.
	AutoSave bool
}

// Manager owns the single pending suggestion and its visual artifacts.
//
// Lifecycle operations are serialized through the state field: a call that
// lands while an accept or reject is mid-flight returns
// ErrOperationInFlight instead of interleaving.
type Manager struct {
	mu      sync.Mutex
	state   State
	pending *PendingSuggestion

	editor   host.Host
	notifier Notifier
	logger   *logging.Logger
	opts     Options

	highlight decoration.Handle
	disposed  bool
}

// NewManager creates a lifecycle manager bound to an editor host.
// A nil logger disables logging.
func NewManager(editor host.Host, notifier Notifier, logger *logging.Logger, opts Options) *Manager {
	if logger == nil {
		logger = logging.Null
	}
	return &Manager{
		editor:    editor,
		notifier:  notifier,
		logger:    logger.WithComponent("assist"),
		opts:      opts,
		highlight: editor.CreateDecoration(decoration.SuggestionStyle()),
	}
}

// HasPending reports whether a suggestion is awaiting accept or reject.
// The trigger layer uses this to decide whether accept/reject actions apply.
func (m *Manager) HasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending returns a copy of the pending suggestion, if any.
func (m *Manager) Pending() (PendingSuggestion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return PendingSuggestion{}, false
	}
	return *m.pending, true
}

// Present records a new pending suggestion and displays it. Any unresolved
// previous suggestion is torn down first: presenting always wins.
//
// The diff view is best-effort. When the host cannot display one, the
// proposal is surfaced through the notification channel instead and the
// lifecycle continues normally. The range highlight is cosmetic and is
// silently skipped when no live surface shows the document.
func (m *Manager) Present(ctx context.Context, id host.DocumentID, rng text.Range, replacement, explanation string) error {
	if id == "" {
		return fmt.Errorf("present: empty document identity")
	}
	if !rng.IsValid() {
		return fmt.Errorf("present %s: %w", rng, ErrInvalidRange)
	}

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrManagerDisposed
	}
	if m.state == StateApplying || m.state == StateRejecting {
		m.mu.Unlock()
		m.logger.Warn("present refused: %s in flight", m.state)
		return ErrOperationInFlight
	}

	m.teardownLocked()
	m.pending = &PendingSuggestion{
		DocumentID:      id,
		Range:           rng,
		ReplacementText: replacement,
		Explanation:     explanation,
	}
	m.state = StatePresented
	suggestion := *m.pending
	m.mu.Unlock()

	m.logger.Debug("presenting suggestion for %s %s", id, rng)
	m.showDiff(ctx, suggestion)
	m.applyHighlight(suggestion)

	return nil
}

// showDiff opens the comparison view, falling back to a plain-text display
// when the host cannot show one. Failure here never blocks the lifecycle.
func (m *Manager) showDiff(ctx context.Context, s PendingSuggestion) {
	var original string
	if doc, err := m.editor.ResolveDocument(ctx, s.DocumentID); err == nil {
		original = doc.TextRange(s.Range)
	}

	session := diffview.New(string(s.DocumentID), original, s.ReplacementText)
	if err := m.editor.OpenDiff(ctx, session); err != nil {
		m.logger.Warn("diff view unavailable for %s: %v", s.DocumentID, err)
		fallback := "Proposed change:\n" + session.Render()
		if s.Explanation != "" {
			fallback += "\n" + s.Explanation
		}
		m.notifier.Info(fallback)
	}
}

// applyHighlight decorates the target range in a live surface showing the
// document. Cosmetic: skipped silently when none is visible.
func (m *Manager) applyHighlight(s PendingSuggestion) {
	if !m.opts.ShowInlineDecorations {
		return
	}

	surface, ok := m.editor.SurfaceFor(s.DocumentID)
	if !ok {
		return
	}

	// Present may have been superseded while the diff was opening; only
	// decorate if this suggestion is still the pending one.
	m.mu.Lock()
	current := m.pending != nil && *m.pending == s
	m.mu.Unlock()
	if !current {
		return
	}

	if err := m.editor.SetDecoration(surface, m.highlight, []text.Range{s.Range}); err != nil {
		m.logger.Warn("decoration failed: %v", err)
	}
}

// Accept applies the pending suggestion: re-resolve the target document by
// identity (reopening it if its view was closed), perform a single atomic
// replacement, optionally save, then clean up.
//
// Calling while idle produces a user-visible warning and no mutation.
// Calling while an accept or reject is already in flight is refused.
func (m *Manager) Accept(ctx context.Context) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrManagerDisposed
	}
	switch m.state {
	case StateIdle:
		m.mu.Unlock()
		m.notifier.Warn("No pending suggestion to accept")
		return ErrNoPendingSuggestion
	case StateApplying, StateRejecting:
		m.mu.Unlock()
		m.logger.Warn("accept ignored: %s in flight", m.state)
		return ErrOperationInFlight
	}
	suggestion := *m.pending
	m.state = StateApplying
	m.mu.Unlock()

	// Re-resolve by identity rather than trusting any cached view. The
	// diff view may have displaced or closed the original editor; reopening
	// here is the primary failure mode this component defends against.
	doc, err := m.editor.ResolveDocument(ctx, suggestion.DocumentID)
	if err != nil {
		m.cleanup()
		m.notifier.Error(fmt.Sprintf("Cannot apply suggestion: %s is unavailable", suggestion.DocumentID))
		return fmt.Errorf("%w: %v", ErrDocumentUnavailable, err)
	}

	surface, err := m.freshestSurface(ctx, doc)
	if err != nil {
		m.cleanup()
		m.notifier.Error(fmt.Sprintf("Cannot apply suggestion: no editing surface for %s", suggestion.DocumentID))
		return fmt.Errorf("%w: %v", ErrDocumentUnavailable, err)
	}

	if err := surface.ApplyEdit(suggestion.Range, suggestion.ReplacementText); err != nil {
		m.cleanup()
		m.notifier.Error(fmt.Sprintf("Failed to apply suggestion to %s: %v", suggestion.DocumentID, err))
		return fmt.Errorf("%w: %v", ErrApplyFailed, err)
	}

	// The edit is the primary contract; persistence is best-effort.
	saveNote := ""
	if m.opts.AutoSave {
		if err := m.editor.Save(ctx, doc); err != nil {
			m.logger.Warn("auto-save failed for %s: %v", suggestion.DocumentID, err)
			saveNote = fmt.Sprintf(" (save failed: %v)", err)
		}
	}

	m.cleanup()
	m.notifier.Info("Suggestion applied" + saveNote)
	m.logger.Info("applied suggestion to %s %s", suggestion.DocumentID, suggestion.Range)
	return nil
}

// freshestSurface prefers the currently active surface when it shows the
// target document, otherwise opens (or reopens) one.
func (m *Manager) freshestSurface(ctx context.Context, doc host.Document) (host.Surface, error) {
	if s, ok := m.editor.ActiveSurface(); ok && s.Document().ID() == doc.ID() {
		return s, nil
	}
	return m.editor.OpenSurface(ctx, doc)
}

// Reject discards the pending suggestion without mutating document text.
// Rejecting while idle is a harmless no-op.
func (m *Manager) Reject(_ context.Context) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrManagerDisposed
	}
	switch m.state {
	case StateIdle:
		m.mu.Unlock()
		m.logger.Debug("reject with no pending suggestion")
		return nil
	case StateApplying, StateRejecting:
		m.mu.Unlock()
		m.logger.Warn("reject ignored: %s in flight", m.state)
		return ErrOperationInFlight
	}
	m.state = StateRejecting
	m.mu.Unlock()

	m.cleanup()
	m.notifier.Info("Suggestion rejected")
	return nil
}

// Dispose releases the manager's resources, including the decoration handle
// itself. Idempotent; called once at host teardown.
func (m *Manager) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.teardownLocked()
	m.pending = nil
	m.state = StateIdle
	m.disposed = true
	m.mu.Unlock()

	m.editor.DisposeDecoration(m.highlight)
}

// cleanup tears down artifacts and returns the manager to idle.
// Runs on every accept/reject exit path, success or failure.
func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
	m.pending = nil
	m.state = StateIdle
}

// teardownLocked clears the visual artifacts of the current suggestion.
// Caller holds m.mu.
func (m *Manager) teardownLocked() {
	m.editor.ClearDecoration(m.highlight)
	m.editor.CloseDiff()
}
