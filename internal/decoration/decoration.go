// Package decoration manages visual highlight decorations applied to live
// editor surfaces. Decorations are cosmetic: they mark the target range of a
// pending suggestion but carry no document semantics.
//
// A Handle is an ownership token. Whoever creates a decoration is
// responsible for clearing it on every exit path and disposing it at the end
// of its lifetime, so stale highlights never leak onto unrelated content.
package decoration

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/codeassist/internal/text"
)

// ErrDisposed is returned when a disposed handle is used.
var ErrDisposed = errors.New("decoration handle disposed")

// Color is a terminal color in the editor's palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorYellow
	ColorGreen
	ColorRed
	ColorBlue
	ColorGray
)

// Attribute is a bitmask of text attributes.
type Attribute uint8

const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << 0
	AttrUnderline Attribute = 1 << 1
	AttrDim       Attribute = 1 << 2
	AttrReverse   Attribute = 1 << 3
)

// Style describes how a decorated range is rendered.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// SuggestionStyle is the default style for pending-suggestion highlights.
func SuggestionStyle() Style {
	return Style{
		Background: ColorYellow,
		Attributes: AttrBold,
	}
}

// Handle identifies a decoration owned by its creator.
type Handle struct {
	id       uint64
	registry *Registry
}

// Valid reports whether the handle refers to a live decoration.
func (h Handle) Valid() bool {
	if h.registry == nil {
		return false
	}
	return h.registry.valid(h.id)
}

// String returns a human-readable representation of the handle.
func (h Handle) String() string {
	return fmt.Sprintf("decoration(%d)", h.id)
}

// Placement records where a decoration is currently applied.
type Placement struct {
	SurfaceID string
	Ranges    []text.Range
}

// Registry tracks decoration handles and their current placements.
// It is the single source of truth a renderer reads from.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	styles map[uint64]Style
	placed map[uint64]Placement
}

// NewRegistry creates an empty decoration registry.
func NewRegistry() *Registry {
	return &Registry{
		nextID: 1,
		styles: make(map[uint64]Style),
		placed: make(map[uint64]Placement),
	}
}

// Create registers a new decoration with the given style and returns its
// handle.
func (r *Registry) Create(style Style) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.styles[id] = style

	return Handle{id: id, registry: r}
}

// Set applies the decoration to the given ranges on a surface, replacing any
// previous placement of the same handle.
func (r *Registry) Set(h Handle, surfaceID string, ranges []text.Range) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.styles[h.id]; !ok {
		return ErrDisposed
	}

	rs := make([]text.Range, len(ranges))
	copy(rs, ranges)
	r.placed[h.id] = Placement{SurfaceID: surfaceID, Ranges: rs}
	return nil
}

// Clear removes the decoration from wherever it is applied.
// The handle remains valid and can be applied again.
// Clearing an unapplied or disposed handle is a no-op.
func (r *Registry) Clear(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.placed, h.id)
}

// Dispose clears the decoration and releases the handle itself.
// Idempotent.
func (r *Registry) Dispose(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.placed, h.id)
	delete(r.styles, h.id)
}

// Placements returns the current placements on the given surface, paired
// with their styles. The result is a snapshot; mutating it has no effect.
func (r *Registry) Placements(surfaceID string) []StyledPlacement {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []StyledPlacement
	for id, p := range r.placed {
		if p.SurfaceID != surfaceID {
			continue
		}
		rs := make([]text.Range, len(p.Ranges))
		copy(rs, p.Ranges)
		out = append(out, StyledPlacement{Style: r.styles[id], Ranges: rs})
	}
	return out
}

// ActiveCount returns the number of currently applied decorations.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.placed)
}

// StyledPlacement pairs applied ranges with their rendering style.
type StyledPlacement struct {
	Style  Style
	Ranges []text.Range
}

func (r *Registry) valid(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.styles[id]
	return ok
}
