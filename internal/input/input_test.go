package input

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/trendlines/internal/geom"
)

func TestMouseStream(t *testing.T) {
	tr := &Tracker{Origin: image.Pt(10, 20)}

	ev, ok := tr.Mouse(mouse.Event{X: 110, Y: 120, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	require.True(t, ok)
	assert.Equal(t, Event{Kind: Down, Pos: geom.Pt(100, 100)}, ev)
	assert.True(t, tr.Pressed())

	ev, ok = tr.Mouse(mouse.Event{X: 210, Y: 145})
	require.True(t, ok)
	assert.Equal(t, Event{Kind: Move, Pos: geom.Pt(200, 125)}, ev)

	ev, ok = tr.Mouse(mouse.Event{X: 310, Y: 170, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	require.True(t, ok)
	assert.Equal(t, Event{Kind: Up, Pos: geom.Pt(300, 150)}, ev)
	assert.False(t, tr.Pressed())
}

func TestMouseIgnoresOtherButtons(t *testing.T) {
	tr := &Tracker{}
	_, ok := tr.Mouse(mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress})
	assert.False(t, ok)
	_, ok = tr.Mouse(mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	assert.False(t, ok, "release without press")
	_, ok = tr.Mouse(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	assert.False(t, ok)
}

func TestTouchFirstSequenceOnly(t *testing.T) {
	tr := &Tracker{}

	ev, ok := tr.Touch(touch.Event{X: 5, Y: 6, Sequence: 1, Type: touch.TypeBegin})
	require.True(t, ok)
	assert.Equal(t, Down, ev.Kind)

	_, ok = tr.Touch(touch.Event{X: 50, Y: 60, Sequence: 2, Type: touch.TypeBegin})
	assert.False(t, ok)
	_, ok = tr.Touch(touch.Event{X: 50, Y: 60, Sequence: 2, Type: touch.TypeMove})
	assert.False(t, ok)

	ev, ok = tr.Touch(touch.Event{X: 7, Y: 8, Sequence: 1, Type: touch.TypeMove})
	require.True(t, ok)
	assert.Equal(t, Event{Kind: Move, Pos: geom.Pt(7, 8)}, ev)

	ev, ok = tr.Touch(touch.Event{X: 9, Y: 9, Sequence: 1, Type: touch.TypeEnd})
	require.True(t, ok)
	assert.Equal(t, Up, ev.Kind)
	assert.False(t, tr.Pressed())

	_, ok = tr.Touch(touch.Event{Sequence: 2, Type: touch.TypeBegin})
	assert.True(t, ok, "a new sequence may start once the first ended")
}

func TestWheel(t *testing.T) {
	steps, ok := Wheel(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	assert.True(t, ok)
	assert.Equal(t, 1, steps)
	steps, ok = Wheel(mouse.Event{Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	assert.True(t, ok)
	assert.Equal(t, -1, steps)
	_, ok = Wheel(mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	assert.False(t, ok)
}

type recorder struct{ calls []string }

func (r *recorder) PointerDown(geom.PixelPoint) { r.calls = append(r.calls, "down") }
func (r *recorder) PointerMove(geom.PixelPoint) { r.calls = append(r.calls, "move") }
func (r *recorder) PointerUp(geom.PixelPoint)   { r.calls = append(r.calls, "up") }

func TestDispatch(t *testing.T) {
	r := &recorder{}
	for _, k := range []Kind{Down, Move, Move, Up} {
		Dispatch(Event{Kind: k}, r)
	}
	assert.Equal(t, []string{"down", "move", "move", "up"}, r.calls)
	assert.Equal(t, "move", Move.String())
}
