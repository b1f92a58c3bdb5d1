package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/codeassist/internal/decoration"
	"github.com/dshills/codeassist/internal/diffview"
	"github.com/dshills/codeassist/internal/text"
)

// Workspace is a file-backed Host implementation. Document identities are
// file paths; resolving an unopened identity loads the file from disk.
type Workspace struct {
	mu sync.Mutex

	docs     map[DocumentID]*workspaceDocument
	surfaces map[string]*workspaceSurface
	active   string
	nextSurf int

	decorations *decoration.Registry

	currentDiff *diffview.Session

	// DiffOpener, when set, is invoked by OpenDiff to display the session.
	// Leaving it nil records the session without displaying anything.
	DiffOpener func(ctx context.Context, session *diffview.Session) error
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		docs:        make(map[DocumentID]*workspaceDocument),
		surfaces:    make(map[string]*workspaceSurface),
		decorations: decoration.NewRegistry(),
	}
}

type workspaceDocument struct {
	id     DocumentID
	buffer *text.Buffer
}

func (d *workspaceDocument) ID() DocumentID { return d.id }

func (d *workspaceDocument) Name() string { return filepath.Base(string(d.id)) }

func (d *workspaceDocument) Text() string { return d.buffer.Text() }

func (d *workspaceDocument) TextRange(r text.Range) string {
	return d.buffer.TextRange(r.Start, r.End)
}

func (d *workspaceDocument) Len() text.ByteOffset { return d.buffer.Len() }

type workspaceSurface struct {
	id     string
	doc    *workspaceDocument
	ws     *Workspace
	closed bool
}

func (s *workspaceSurface) ID() string { return s.id }

func (s *workspaceSurface) Document() Document { return s.doc }

func (s *workspaceSurface) ApplyEdit(r text.Range, newText string) error {
	s.ws.mu.Lock()
	closed := s.closed
	s.ws.mu.Unlock()

	if closed {
		return ErrSurfaceClosed
	}
	if _, err := s.doc.buffer.Replace(r.Start, r.End, newText); err != nil {
		return fmt.Errorf("%w: %v", ErrEditRejected, err)
	}
	return nil
}

// AddDocument registers a document with the given content without touching
// the filesystem. Existing content under the same identity is replaced.
func (w *Workspace) AddDocument(id DocumentID, content string) Document {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc := &workspaceDocument{id: id, buffer: text.NewBufferFromString(content)}
	w.docs[id] = doc
	return doc
}

// ResolveDocument implements Host. Unopened identities are loaded from disk.
func (w *Workspace) ResolveDocument(_ context.Context, id DocumentID) (Document, error) {
	w.mu.Lock()
	if doc, ok := w.docs[id]; ok {
		w.mu.Unlock()
		return doc, nil
	}
	w.mu.Unlock()

	data, err := os.ReadFile(string(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentNotFound, id, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	doc := &workspaceDocument{id: id, buffer: text.NewBufferFromString(string(data))}
	w.docs[id] = doc
	return doc, nil
}

// ActiveSurface implements Host.
func (w *Workspace) ActiveSurface() (Surface, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.surfaces[w.active]
	if !ok || s.closed {
		return nil, false
	}
	return s, true
}

// OpenSurface implements Host. Opening a surface makes it active. If a live
// surface already shows the document it is refocused instead of duplicated.
func (w *Workspace) OpenSurface(_ context.Context, doc Document) (Surface, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wd, ok := w.docs[doc.ID()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, doc.ID())
	}

	for _, s := range w.surfaces {
		if s.doc.id == doc.ID() && !s.closed {
			w.active = s.id
			return s, nil
		}
	}

	w.nextSurf++
	s := &workspaceSurface{
		id:  fmt.Sprintf("surface-%d", w.nextSurf),
		doc: wd,
		ws:  w,
	}
	w.surfaces[s.id] = s
	w.active = s.id
	return s, nil
}

// SurfaceFor implements Host.
func (w *Workspace) SurfaceFor(id DocumentID) (Surface, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range w.surfaces {
		if s.doc.id == id && !s.closed {
			return s, true
		}
	}
	return nil, false
}

// CloseSurface closes any live surface showing the document. The document
// itself stays resolvable by identity.
func (w *Workspace) CloseSurface(id DocumentID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for sid, s := range w.surfaces {
		if s.doc.id == id {
			s.closed = true
			delete(w.surfaces, sid)
			if w.active == sid {
				w.active = ""
			}
		}
	}
}

// Save implements Host, writing the document back to its path.
func (w *Workspace) Save(_ context.Context, doc Document) error {
	w.mu.Lock()
	wd, ok := w.docs[doc.ID()]
	w.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, doc.ID())
	}
	if err := os.WriteFile(string(wd.id), []byte(wd.buffer.Text()), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", wd.id, err)
	}
	return nil
}

// CreateDecoration implements Host.
func (w *Workspace) CreateDecoration(style decoration.Style) decoration.Handle {
	return w.decorations.Create(style)
}

// SetDecoration implements Host.
func (w *Workspace) SetDecoration(s Surface, h decoration.Handle, ranges []text.Range) error {
	return w.decorations.Set(h, s.ID(), ranges)
}

// ClearDecoration implements Host.
func (w *Workspace) ClearDecoration(h decoration.Handle) {
	w.decorations.Clear(h)
}

// DisposeDecoration implements Host.
func (w *Workspace) DisposeDecoration(h decoration.Handle) {
	w.decorations.Dispose(h)
}

// Decorations exposes the registry for renderers.
func (w *Workspace) Decorations() *decoration.Registry {
	return w.decorations
}

// OpenDiff implements Host. The session becomes the current diff view; the
// optional DiffOpener hook performs the actual display.
func (w *Workspace) OpenDiff(ctx context.Context, session *diffview.Session) error {
	w.mu.Lock()
	opener := w.DiffOpener
	w.currentDiff = session
	w.mu.Unlock()

	if opener == nil {
		return nil
	}
	if err := opener(ctx, session); err != nil {
		w.mu.Lock()
		w.currentDiff = nil
		w.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrDiffUnavailable, err)
	}
	return nil
}

// CloseDiff implements Host.
func (w *Workspace) CloseDiff() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.currentDiff = nil
}

// CurrentDiff returns the session currently on display, if any.
func (w *Workspace) CurrentDiff() (*diffview.Session, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentDiff, w.currentDiff != nil
}
