// Package host defines the editor host contract the assist core depends on,
// and provides Workspace, a file-backed implementation of it.
//
// The contract is deliberately narrow: documents resolved by a stable
// identity, live surfaces bound to documents, atomic edits, best-effort diff
// views, and decoration primitives. The assist core never touches anything
// beyond these operations, so adapters for other hosts stay small.
package host

import (
	"context"
	"errors"

	"github.com/dshills/codeassist/internal/decoration"
	"github.com/dshills/codeassist/internal/diffview"
	"github.com/dshills/codeassist/internal/text"
)

// Host contract errors.
var (
	// ErrDocumentNotFound indicates a document identity could not be resolved.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrSurfaceClosed indicates an edit was attempted on a closed surface.
	ErrSurfaceClosed = errors.New("surface closed")

	// ErrEditRejected indicates the surface refused the edit.
	ErrEditRejected = errors.New("edit rejected")

	// ErrDiffUnavailable indicates the host cannot display a diff view.
	ErrDiffUnavailable = errors.New("diff view unavailable")
)

// DocumentID is a stable, opaque key identifying a document independent of
// any currently open view. For file-backed hosts it is the file path.
type DocumentID string

// Document is an open document held by the host.
type Document interface {
	// ID returns the document's stable identity.
	ID() DocumentID

	// Name returns the display name.
	Name() string

	// Text returns the full document text.
	Text() string

	// TextRange returns the text within the given range, clamped to the
	// document bounds.
	TextRange(r text.Range) string

	// Len returns the document length in bytes.
	Len() text.ByteOffset
}

// Surface is a live, visible editing view bound to a document.
type Surface interface {
	// ID identifies the surface for decoration placement.
	ID() string

	// Document returns the document this surface displays.
	Document() Document

	// ApplyEdit atomically replaces the given range with new text.
	// Returns ErrSurfaceClosed if the surface is no longer live, or
	// ErrEditRejected if the edit cannot be applied.
	ApplyEdit(r text.Range, newText string) error
}

// Host is the editor host adapter contract consumed by the assist core.
type Host interface {
	// ResolveDocument resolves a document by identity, reopening it if it
	// is not currently open. Returns ErrDocumentNotFound on failure.
	ResolveDocument(ctx context.Context, id DocumentID) (Document, error)

	// ActiveSurface returns the currently focused surface, if any.
	ActiveSurface() (Surface, bool)

	// OpenSurface opens (or refocuses) a surface for the document.
	OpenSurface(ctx context.Context, doc Document) (Surface, error)

	// Save persists the document through the host.
	Save(ctx context.Context, doc Document) error

	// SurfaceFor returns a live surface currently showing the document,
	// if one exists. Purely cosmetic consumers use this and skip silently
	// when it reports none.
	SurfaceFor(id DocumentID) (Surface, bool)

	// CreateDecoration registers a decoration style and returns its handle.
	CreateDecoration(style decoration.Style) decoration.Handle

	// SetDecoration applies the decoration to ranges on a surface.
	SetDecoration(s Surface, h decoration.Handle, ranges []text.Range) error

	// ClearDecoration removes the decoration wherever it is applied.
	ClearDecoration(h decoration.Handle)

	// DisposeDecoration clears the decoration and releases the handle.
	DisposeDecoration(h decoration.Handle)

	// OpenDiff displays a comparison view. Best-effort: callers must
	// tolerate failure. Returns ErrDiffUnavailable (possibly wrapped) when
	// the view cannot be shown.
	OpenDiff(ctx context.Context, session *diffview.Session) error

	// CloseDiff closes the current comparison view, if any. Idempotent.
	CloseDiff()
}
