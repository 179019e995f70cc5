// Package input merges mouse and touch events into one pointer stream.
package input

import (
	"image"

	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/trendlines/internal/geom"
)

// Kind is the phase of a pointer event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Event is one logical pointer event in overlay coordinates.
type Event struct {
	Kind Kind
	Pos  geom.PixelPoint
}

// Handler consumes pointer events. interaction.Session implements it.
type Handler interface {
	PointerDown(p geom.PixelPoint)
	PointerMove(p geom.PixelPoint)
	PointerUp(p geom.PixelPoint)
}

// Dispatch forwards ev to h.
func Dispatch(ev Event, h Handler) {
	switch ev.Kind {
	case Down:
		h.PointerDown(ev.Pos)
	case Move:
		h.PointerMove(ev.Pos)
	case Up:
		h.PointerUp(ev.Pos)
	}
}

// Tracker converts window events into pointer events. Only the left mouse
// button and the first active touch sequence drive the pointer.
type Tracker struct {
	// Origin is the overlay's top-left corner in window coordinates.
	Origin image.Point

	pressed  bool
	touching bool
	seq      touch.Sequence
}

// Pressed reports whether a press is in progress.
func (t *Tracker) Pressed() bool { return t.pressed || t.touching }

// Reset forgets any press in progress, e.g. after the window loses focus.
func (t *Tracker) Reset() {
	t.pressed = false
	t.touching = false
}

func (t *Tracker) local(x, y float32) geom.PixelPoint {
	return geom.Pt(float64(x)-float64(t.Origin.X), float64(y)-float64(t.Origin.Y))
}

// Mouse converts e. ok is false for events that do not move the pointer,
// such as other buttons and the wheel.
func (t *Tracker) Mouse(e mouse.Event) (Event, bool) {
	pos := t.local(e.X, e.Y)
	switch e.Direction {
	case mouse.DirNone:
		return Event{Kind: Move, Pos: pos}, true
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return Event{}, false
		}
		t.pressed = true
		return Event{Kind: Down, Pos: pos}, true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !t.pressed {
			return Event{}, false
		}
		t.pressed = false
		return Event{Kind: Up, Pos: pos}, true
	}
	return Event{}, false
}

// Touch converts e. Events from touch sequences other than the active one
// are ignored.
func (t *Tracker) Touch(e touch.Event) (Event, bool) {
	pos := t.local(e.X, e.Y)
	switch e.Type {
	case touch.TypeBegin:
		if t.touching {
			return Event{}, false
		}
		t.touching = true
		t.seq = e.Sequence
		return Event{Kind: Down, Pos: pos}, true
	case touch.TypeMove:
		if !t.touching || e.Sequence != t.seq {
			return Event{}, false
		}
		return Event{Kind: Move, Pos: pos}, true
	case touch.TypeEnd:
		if !t.touching || e.Sequence != t.seq {
			return Event{}, false
		}
		t.touching = false
		return Event{Kind: Up, Pos: pos}, true
	}
	return Event{}, false
}

// Wheel reports the zoom steps of a wheel event: positive zooms in.
func Wheel(e mouse.Event) (int, bool) {
	if e.Direction != mouse.DirStep {
		return 0, false
	}
	switch e.Button {
	case mouse.ButtonWheelUp:
		return 1, true
	case mouse.ButtonWheelDown:
		return -1, true
	}
	return 0, false
}
