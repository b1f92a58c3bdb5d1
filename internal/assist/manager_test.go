package assist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/codeassist/internal/diffview"
	"github.com/dshills/codeassist/internal/host"
	"github.com/dshills/codeassist/internal/text"
)

// recordingNotifier captures user-visible notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errs   []string
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *recordingNotifier) Warn(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, msg)
}

func (n *recordingNotifier) counts() (infos, warns, errs int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.infos), len(n.warns), len(n.errs)
}

// hookHost wraps a Host with overridable operations for failure injection.
type hookHost struct {
	host.Host
	resolveHook func(ctx context.Context, id host.DocumentID) (host.Document, error)
}

func (h *hookHost) ResolveDocument(ctx context.Context, id host.DocumentID) (host.Document, error) {
	if h.resolveHook != nil {
		return h.resolveHook(ctx, id)
	}
	return h.Host.ResolveDocument(ctx, id)
}

func newTestManager(t *testing.T, ws *host.Workspace, opts Options) (*Manager, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	m := NewManager(ws, n, nil, opts)
	t.Cleanup(m.Dispose)
	return m, n
}

func TestAcceptReplacesExactRange(t *testing.T) {
	ws := host.NewWorkspace()
	ws.AddDocument("mem://a.go", "0123456789OLD-TEXT-HEREtail")

	m, n := newTestManager(t, ws, Options{})
	ctx := context.Background()

	if err := m.Present(ctx, "mem://a.go", text.NewRange(10, 23), "fixed()", "replaces the old text"); err != nil {
		t.Fatalf("present failed: %v", err)
	}
	if !m.HasPending() {
		t.Fatal("expected pending suggestion after present")
	}
	if m.State() != StatePresented {
		t.Fatalf("expected presented state, got %s", m.State())
	}

	if err := m.Accept(ctx); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	doc, err := ws.ResolveDocument(ctx, "mem://a.go")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "0123456789fixed()tail" {
		t.Errorf("unexpected document text %q", doc.Text())
	}
	if m.HasPending() {
		t.Error("pending flag should be unset after accept")
	}
	if m.State() != StateIdle {
		t.Errorf("expected idle state, got %s", m.State())
	}

	infos, _, errs := n.counts()
	if infos != 1 || errs != 0 {
		t.Errorf("expected exactly one success notification, got infos=%d errs=%d", infos, errs)
	}
}

func TestAcceptWhileIdleWarnsWithoutMutation(t *testing.T) {
	ws := host.NewWorkspace()
	ws.AddDocument("mem://a.go", "untouched")

	m, n := newTestManager(t, ws, Options{})

	err := m.Accept(context.Background())
	if !errors.Is(err, ErrNoPendingSuggestion) {
		t.Fatalf("expected ErrNoPendingSuggestion, got %v", err)
	}

	doc, _ := ws.ResolveDocument(context.Background(), "mem://a.go")
	if doc.Text() != "untouched" {
		t.Errorf("document mutated by idle accept: %q", doc.Text())
	}

	_, warns, _ := n.counts()
	if warns != 1 {
		t.Errorf("expected exactly one warning, got %d", warns)
	}
}

func TestAcceptAutoSavePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("var x = old"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws := host.NewWorkspace()
	m, _ := newTestManager(t, ws, Options{AutoSave: true})
	ctx := context.Background()

	id := host.DocumentID(path)
	if _, err := ws.ResolveDocument(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := m.Present(ctx, id, text.NewRange(8, 11), "new", ""); err != nil {
		t.Fatal(err)
	}
	if err := m.Accept(ctx); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "var x = new" {
		t.Errorf("expected persisted content, got %q", data)
	}
}

func TestAcceptAfterSurfaceClosedReopens(t *testing.T) {
	ws := host.NewWorkspace()
	doc := ws.AddDocument("mem://b.go", "hello world")
	ctx := context.Background()

	if _, err := ws.OpenSurface(ctx, doc); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestManager(t, ws, Options{})
	if err := m.Present(ctx, "mem://b.go", text.NewRange(6, 11), "gopher", ""); err != nil {
		t.Fatal(err)
	}

	// Simulate the diff view displacing and closing the original editor.
	ws.CloseSurface("mem://b.go")

	if err := m.Accept(ctx); err != nil {
		t.Fatalf("accept after surface close failed: %v", err)
	}
	if doc.Text() != "hello gopher" {
		t.Errorf("unexpected text %q", doc.Text())
	}
}

func TestRejectNeverMutates(t *testing.T) {
	ws := host.NewWorkspace()
	doc := ws.AddDocument("mem://c.go", "original")
	ctx := context.Background()

	m, n := newTestManager(t, ws, Options{})

	// Reject while idle is a harmless no-op.
	if err := m.Reject(ctx); err != nil {
		t.Fatalf("idle reject should be a no-op, got %v", err)
	}

	if err := m.Present(ctx, "mem://c.go", text.NewRange(0, 8), "changed!", ""); err != nil {
		t.Fatal(err)
	}
	if err := m.Reject(ctx); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if doc.Text() != "original" {
		t.Errorf("reject mutated document: %q", doc.Text())
	}
	if m.HasPending() || m.State() != StateIdle {
		t.Error("expected idle, no pending after reject")
	}
	if _, ok := ws.CurrentDiff(); ok {
		t.Error("diff view should be closed after reject")
	}

	infos, _, _ := n.counts()
	if infos != 1 {
		t.Errorf("expected exactly one rejection notification, got %d", infos)
	}
}

func TestPresentSupersedesPrevious(t *testing.T) {
	ws := host.NewWorkspace()
	doc := ws.AddDocument("mem://d.go", "aaa bbb ccc")
	ctx := context.Background()

	if _, err := ws.OpenSurface(ctx, doc); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestManager(t, ws, Options{ShowInlineDecorations: true})

	if err := m.Present(ctx, "mem://d.go", text.NewRange(0, 3), "AAA", "first"); err != nil {
		t.Fatal(err)
	}
	if ws.Decorations().ActiveCount() != 1 {
		t.Fatal("first suggestion should be decorated")
	}

	if err := m.Present(ctx, "mem://d.go", text.NewRange(8, 11), "CCC", "second"); err != nil {
		t.Fatal(err)
	}

	// At most one pending suggestion, one decoration.
	if ws.Decorations().ActiveCount() != 1 {
		t.Errorf("expected 1 decoration after supersede, got %d", ws.Decorations().ActiveCount())
	}
	pending, ok := m.Pending()
	if !ok || pending.Range != text.NewRange(8, 11) {
		t.Fatalf("expected second suggestion pending, got %+v", pending)
	}

	if err := m.Accept(ctx); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "aaa bbb CCC" {
		t.Errorf("only the second suggestion's range should apply, got %q", doc.Text())
	}
	if ws.Decorations().ActiveCount() != 0 {
		t.Error("decorations leaked after accept")
	}
}

func TestPresentDiffFailureFallsBack(t *testing.T) {
	ws := host.NewWorkspace()
	ws.AddDocument("mem://e.go", "old code here")
	ws.DiffOpener = func(context.Context, *diffview.Session) error {
		return errors.New("no display available")
	}

	m, n := newTestManager(t, ws, Options{})
	ctx := context.Background()

	err := m.Present(ctx, "mem://e.go", text.NewRange(0, 8), "new code", "why it changed")
	if err != nil {
		t.Fatalf("present must tolerate diff failure, got %v", err)
	}
	if !m.HasPending() {
		t.Fatal("suggestion should still be pending after diff failure")
	}

	n.mu.Lock()
	fallback := strings.Join(n.infos, "\n")
	n.mu.Unlock()
	if !strings.Contains(fallback, "new code") {
		t.Errorf("fallback display should carry the replacement text: %q", fallback)
	}
	if !strings.Contains(fallback, "why it changed") {
		t.Errorf("fallback display should carry the explanation: %q", fallback)
	}

	// Accept still works from the fallback presentation.
	if err := m.Accept(ctx); err != nil {
		t.Fatalf("accept after fallback failed: %v", err)
	}
	doc, _ := ws.ResolveDocument(ctx, "mem://e.go")
	if doc.Text() != "new code here" {
		t.Errorf("unexpected text %q", doc.Text())
	}
}

func TestAcceptDocumentUnavailable(t *testing.T) {
	ws := host.NewWorkspace()
	ws.AddDocument("mem://gone.go", "content here")

	ctx := context.Background()
	hooked := &hookHost{Host: ws}
	n := &recordingNotifier{}
	mh := NewManager(hooked, n, nil, Options{})
	defer mh.Dispose()

	if err := mh.Present(ctx, "mem://gone.go", text.NewRange(0, 7), "x", ""); err != nil {
		t.Fatal(err)
	}

	// The document disappears between presentation and accept.
	hooked.resolveHook = func(context.Context, host.DocumentID) (host.Document, error) {
		return nil, host.ErrDocumentNotFound
	}

	err := mh.Accept(ctx)
	if !errors.Is(err, ErrDocumentUnavailable) {
		t.Fatalf("expected ErrDocumentUnavailable, got %v", err)
	}
	if mh.State() != StateIdle || mh.HasPending() {
		t.Error("state should return to idle without mutation")
	}

	doc, _ := ws.ResolveDocument(ctx, "mem://gone.go")
	if doc.Text() != "content here" {
		t.Errorf("document mutated on failed accept: %q", doc.Text())
	}

	_, _, errs := n.counts()
	if errs != 1 {
		t.Errorf("expected exactly one error notification, got %d", errs)
	}
}

func TestAcceptStaleRangeFails(t *testing.T) {
	ws := host.NewWorkspace()
	ws.AddDocument("mem://f.go", "0123456789")

	m, n := newTestManager(t, ws, Options{})
	ctx := context.Background()

	if err := m.Present(ctx, "mem://f.go", text.NewRange(2, 9), "x", ""); err != nil {
		t.Fatal(err)
	}

	// The document shrinks out from under the suggestion.
	ws.AddDocument("mem://f.go", "01")

	err := m.Accept(ctx)
	if !errors.Is(err, ErrApplyFailed) {
		t.Fatalf("expected ErrApplyFailed, got %v", err)
	}
	if m.State() != StateIdle || m.HasPending() {
		t.Error("state should return to idle after apply failure")
	}

	doc, _ := ws.ResolveDocument(ctx, "mem://f.go")
	if doc.Text() != "01" {
		t.Errorf("document mutated by failed apply: %q", doc.Text())
	}

	_, _, errs := n.counts()
	if errs != 1 {
		t.Errorf("expected exactly one error notification, got %d", errs)
	}
}

func TestEmptyReplacementDeletesRange(t *testing.T) {
	ws := host.NewWorkspace()
	doc := ws.AddDocument("mem://g.go", "keep REMOVE keep")

	m, _ := newTestManager(t, ws, Options{})
	ctx := context.Background()

	if err := m.Present(ctx, "mem://g.go", text.NewRange(4, 11), "", ""); err != nil {
		t.Fatalf("empty replacement must be accepted as valid: %v", err)
	}
	if err := m.Accept(ctx); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "keep keep" {
		t.Errorf("unexpected text %q", doc.Text())
	}
}

func TestPresentRejectsInvalidInput(t *testing.T) {
	ws := host.NewWorkspace()
	m, _ := newTestManager(t, ws, Options{})
	ctx := context.Background()

	if err := m.Present(ctx, "", text.NewRange(0, 1), "x", ""); err == nil {
		t.Error("expected error for empty document identity")
	}
	if err := m.Present(ctx, "mem://h.go", text.NewRange(5, 2), "x", ""); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if m.HasPending() {
		t.Error("invalid present must not record a suggestion")
	}
}

func TestOperationsRefusedWhileApplying(t *testing.T) {
	ws := host.NewWorkspace()
	ws.AddDocument("mem://i.go", "0123456789")

	release := make(chan struct{})
	entered := make(chan struct{})
	hooked := &hookHost{Host: ws}

	n := &recordingNotifier{}
	mgr := NewManager(hooked, n, nil, Options{})
	defer mgr.Dispose()
	ctx := context.Background()

	if err := mgr.Present(ctx, "mem://i.go", text.NewRange(0, 5), "AAAAA", ""); err != nil {
		t.Fatal(err)
	}

	hooked.resolveHook = func(c context.Context, id host.DocumentID) (host.Document, error) {
		close(entered)
		<-release
		return ws.ResolveDocument(c, id)
	}

	done := make(chan error, 1)
	go func() {
		done <- mgr.Accept(ctx)
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("accept never reached document resolution")
	}

	// Mid-flight, every lifecycle call is refused rather than interleaved.
	if err := mgr.Accept(ctx); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("re-entrant accept: expected ErrOperationInFlight, got %v", err)
	}
	if err := mgr.Reject(ctx); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("reject during apply: expected ErrOperationInFlight, got %v", err)
	}
	if err := mgr.Present(ctx, "mem://i.go", text.NewRange(5, 6), "x", ""); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("present during apply: expected ErrOperationInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("in-flight accept failed: %v", err)
	}

	doc, _ := ws.ResolveDocument(ctx, "mem://i.go")
	if doc.Text() != "AAAAA56789" {
		t.Errorf("exactly one apply should have run, got %q", doc.Text())
	}
	if mgr.State() != StateIdle {
		t.Errorf("expected idle, got %s", mgr.State())
	}
}

func TestDisposeIdempotentAndReleasesDecoration(t *testing.T) {
	ws := host.NewWorkspace()
	doc := ws.AddDocument("mem://j.go", "text")
	ctx := context.Background()
	if _, err := ws.OpenSurface(ctx, doc); err != nil {
		t.Fatal(err)
	}

	n := &recordingNotifier{}
	m := NewManager(ws, n, nil, Options{ShowInlineDecorations: true})

	if err := m.Present(ctx, "mem://j.go", text.NewRange(0, 4), "next", ""); err != nil {
		t.Fatal(err)
	}
	if ws.Decorations().ActiveCount() != 1 {
		t.Fatal("expected active decoration")
	}

	m.Dispose()
	m.Dispose()

	if ws.Decorations().ActiveCount() != 0 {
		t.Error("dispose must clear decorations")
	}
	if err := m.Present(ctx, "mem://j.go", text.NewRange(0, 1), "x", ""); !errors.Is(err, ErrManagerDisposed) {
		t.Errorf("expected ErrManagerDisposed, got %v", err)
	}
	if err := m.Accept(ctx); !errors.Is(err, ErrManagerDisposed) {
		t.Errorf("expected ErrManagerDisposed, got %v", err)
	}
}
