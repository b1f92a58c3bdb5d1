package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codeassist/internal/diffview"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func testSession(t *testing.T) *diffview.Session {
	t.Helper()
	return diffview.New("main.go: fix", "old line\nshared\n", "new line\nshared\n")
}

func TestReviewAcceptKey(t *testing.T) {
	s := newSimScreen(t)
	review := NewReviewScreen(s, testSession(t))

	done := make(chan Decision, 1)
	go func() {
		d, _ := review.Run()
		done <- d
	}()

	s.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	if d := <-done; d != DecisionAccept {
		t.Errorf("decision = %s, want accept", d)
	}
}

func TestReviewDismissRejects(t *testing.T) {
	s := newSimScreen(t)
	review := NewReviewScreen(s, testSession(t))

	done := make(chan Decision, 1)
	go func() {
		d, _ := review.Run()
		done <- d
	}()

	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if d := <-done; d != DecisionReject {
		t.Errorf("decision = %s, want reject", d)
	}
}

func TestBuildLines(t *testing.T) {
	lines := buildLines(testSession(t))

	var got []string
	for _, l := range lines {
		got = append(got, l.text)
	}
	joined := strings.Join(got, "\n")

	if !strings.Contains(joined, "- old line") {
		t.Errorf("missing removal line in %q", joined)
	}
	if !strings.Contains(joined, "+ new line") {
		t.Errorf("missing addition line in %q", joined)
	}
	if !strings.Contains(joined, "  shared") {
		t.Errorf("missing context line in %q", joined)
	}

	// Removals render before additions within a replace hunk.
	var removedAt, addedAt int
	for i, l := range lines {
		switch l.kind {
		case lineRemoved:
			removedAt = i
		case lineAdded:
			addedAt = i
		}
	}
	if removedAt > addedAt {
		t.Error("removed lines must precede added lines")
	}
}

func TestScrollClamping(t *testing.T) {
	s := newSimScreen(t)
	review := NewReviewScreen(s, testSession(t))

	review.scroll(-10)
	if review.top != 0 {
		t.Errorf("top = %d after scrolling above start", review.top)
	}
	review.scroll(1000)
	if review.top < 0 || review.top > len(review.lines) {
		t.Errorf("top = %d out of bounds", review.top)
	}
}
