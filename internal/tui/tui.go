// Package tui renders an interactive terminal review of a proposed change:
// a scrollable unified diff with accept/reject keys.
package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codeassist/internal/diffview"
)

// Decision is the outcome of an interactive review.
type Decision int

const (
	// DecisionReject discards the proposed change. Dismissing the view
	// counts as a rejection.
	DecisionReject Decision = iota

	// DecisionAccept applies the proposed change.
	DecisionAccept
)

func (d Decision) String() string {
	if d == DecisionAccept {
		return "accept"
	}
	return "reject"
}

// lineKind classifies a rendered diff line for styling.
type lineKind int

const (
	lineContext lineKind = iota
	lineAdded
	lineRemoved
	lineHeader
)

type diffLine struct {
	kind lineKind
	text string
}

// ReviewScreen displays one diff session and collects a decision.
type ReviewScreen struct {
	screen tcell.Screen
	title  string
	lines  []diffLine
	top    int
}

// NewReviewScreen builds a review over an initialized tcell screen. The
// caller owns the screen lifecycle.
func NewReviewScreen(screen tcell.Screen, session *diffview.Session) *ReviewScreen {
	return &ReviewScreen{
		screen: screen,
		title:  session.Title,
		lines:  buildLines(session),
	}
}

// buildLines flattens the session hunks into styled diff lines.
func buildLines(session *diffview.Session) []diffLine {
	var lines []diffLine
	for _, h := range session.Hunks {
		switch h.Operation {
		case diffview.OpEqual:
			for _, l := range h.OldLines {
				lines = append(lines, diffLine{lineContext, "  " + l})
			}
		case diffview.OpDelete:
			for _, l := range h.OldLines {
				lines = append(lines, diffLine{lineRemoved, "- " + l})
			}
		case diffview.OpInsert:
			for _, l := range h.NewLines {
				lines = append(lines, diffLine{lineAdded, "+ " + l})
			}
		case diffview.OpReplace:
			for _, l := range h.OldLines {
				lines = append(lines, diffLine{lineRemoved, "- " + l})
			}
			for _, l := range h.NewLines {
				lines = append(lines, diffLine{lineAdded, "+ " + l})
			}
		}
	}
	return lines
}

// Run drives the event loop until the user decides. Esc and q reject.
func (r *ReviewScreen) Run() (Decision, error) {
	for {
		r.draw()

		ev := r.screen.PollEvent()
		if ev == nil {
			return DecisionReject, nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			r.screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Rune() == 'a':
				return DecisionAccept, nil
			case ev.Rune() == 'r', ev.Rune() == 'q', ev.Key() == tcell.KeyEscape:
				return DecisionReject, nil
			case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
				r.scroll(-1)
			case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
				r.scroll(1)
			case ev.Key() == tcell.KeyPgUp:
				r.scroll(-r.pageSize())
			case ev.Key() == tcell.KeyPgDn:
				r.scroll(r.pageSize())
			}
		}
	}
}

func (r *ReviewScreen) pageSize() int {
	_, height := r.screen.Size()
	if height <= 2 {
		return 1
	}
	// Title and footer rows are fixed.
	return height - 2
}

func (r *ReviewScreen) scroll(delta int) {
	max := len(r.lines) - r.pageSize()
	if max < 0 {
		max = 0
	}
	r.top += delta
	if r.top > max {
		r.top = max
	}
	if r.top < 0 {
		r.top = 0
	}
}

func (r *ReviewScreen) draw() {
	r.screen.Clear()
	width, height := r.screen.Size()
	if height < 3 {
		r.screen.Show()
		return
	}

	titleStyle := tcell.StyleDefault.Bold(true).Reverse(true)
	drawText(r.screen, 0, 0, width, r.title, titleStyle)

	body := height - 2
	for row := 0; row < body; row++ {
		idx := r.top + row
		if idx >= len(r.lines) {
			break
		}
		drawText(r.screen, 0, row+1, width, r.lines[idx].text, styleFor(r.lines[idx].kind))
	}

	footer := " a accept   r reject   j/k scroll   q dismiss "
	drawText(r.screen, 0, height-1, width, footer, tcell.StyleDefault.Reverse(true))

	r.screen.Show()
}

func styleFor(kind lineKind) tcell.Style {
	switch kind {
	case lineAdded:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case lineRemoved:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case lineHeader:
		return tcell.StyleDefault.Bold(true)
	}
	return tcell.StyleDefault
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			break
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
}
