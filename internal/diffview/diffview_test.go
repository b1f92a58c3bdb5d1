package diffview

import (
	"strings"
	"testing"
)

func TestComputeLinesIdentical(t *testing.T) {
	lines := []string{"a", "b", "c"}
	hunks := ComputeLines(lines, lines)

	if len(hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(hunks))
	}
	if hunks[0].Operation != OpEqual {
		t.Errorf("expected equal hunk, got %s", hunks[0].Operation)
	}
}

func TestComputeLinesEmpty(t *testing.T) {
	if hunks := ComputeLines(nil, nil); hunks != nil {
		t.Errorf("expected no hunks, got %v", hunks)
	}

	hunks := ComputeLines(nil, []string{"new"})
	if len(hunks) != 1 || hunks[0].Operation != OpInsert {
		t.Errorf("expected single insert hunk, got %v", hunks)
	}

	hunks = ComputeLines([]string{"old"}, nil)
	if len(hunks) != 1 || hunks[0].Operation != OpDelete {
		t.Errorf("expected single delete hunk, got %v", hunks)
	}
}

func TestComputeLinesReplace(t *testing.T) {
	old := []string{"keep", "old line", "keep2"}
	new_ := []string{"keep", "new line", "keep2"}

	hunks := ComputeLines(old, new_)

	if len(hunks) != 3 {
		t.Fatalf("expected 3 hunks, got %d: %v", len(hunks), hunks)
	}
	if hunks[0].Operation != OpEqual || hunks[2].Operation != OpEqual {
		t.Errorf("expected equal hunks around change")
	}
	mid := hunks[1]
	if mid.Operation != OpReplace {
		t.Fatalf("expected replace hunk, got %s", mid.Operation)
	}
	if len(mid.OldLines) != 1 || mid.OldLines[0] != "old line" {
		t.Errorf("unexpected old lines %v", mid.OldLines)
	}
	if len(mid.NewLines) != 1 || mid.NewLines[0] != "new line" {
		t.Errorf("unexpected new lines %v", mid.NewLines)
	}
	if mid.OldStart != 1 || mid.NewStart != 1 {
		t.Errorf("unexpected hunk starts %d/%d", mid.OldStart, mid.NewStart)
	}
}

func TestComputeLinesInsertion(t *testing.T) {
	old := []string{"a", "c"}
	new_ := []string{"a", "b", "c"}

	hunks := ComputeLines(old, new_)

	var inserts int
	for _, h := range hunks {
		if h.Operation == OpInsert {
			inserts++
			if len(h.NewLines) != 1 || h.NewLines[0] != "b" {
				t.Errorf("unexpected insert lines %v", h.NewLines)
			}
		}
	}
	if inserts != 1 {
		t.Errorf("expected 1 insert hunk, got %d", inserts)
	}
}

func TestSessionCounts(t *testing.T) {
	s := New("main.go", "a\nb\nc\n", "a\nB\nc\nd\n")

	if !s.HasChanges() {
		t.Error("expected changes")
	}
	if s.AdditionCount() != 2 {
		t.Errorf("expected 2 additions, got %d", s.AdditionCount())
	}
	if s.DeletionCount() != 1 {
		t.Errorf("expected 1 deletion, got %d", s.DeletionCount())
	}

	same := New("main.go", "a\n", "a\n")
	if same.HasChanges() {
		t.Error("identical content should have no changes")
	}
}

func TestSessionRender(t *testing.T) {
	s := New("util.go", "old()\n", "new()\n")
	out := s.Render()

	for _, want := range []string{
		"--- util.go (current)",
		"+++ util.go (proposed)",
		"- old()",
		"+ new()",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}
