// Package interaction turns a pointer stream into trendline gestures:
// creating a line, dragging an endpoint, dragging a whole line and hovering.
package interaction

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/example/trendlines/internal/annotate"
	"github.com/example/trendlines/internal/bridge"
	"github.com/example/trendlines/internal/geom"
	"github.com/example/trendlines/internal/store"
)

var logger = log.WithField("component", "interaction")

// State is the gesture currently in progress.
type State int

const (
	Idle State = iota
	CreatingLine
	DraggingEndpoint
	DraggingWhole
)

func (s State) String() string {
	switch s {
	case CreatingLine:
		return "creating"
	case DraggingEndpoint:
		return "dragging-endpoint"
	case DraggingWhole:
		return "dragging-whole"
	default:
		return "idle"
	}
}

const (
	// DefaultMinLength is the shortest line, in pixels, a creation gesture keeps.
	DefaultMinLength = 3.0
	// DefaultDeleteRadius is the radius of the delete control.
	DefaultDeleteRadius = 10.0
)

// Frame is everything the overlay needs to draw. Lines is a snapshot and is
// never mutated after the frame is built.
type Frame struct {
	Lines     []store.Trendline
	Hovered   int64
	HoverKind geom.HitKind // HitNone when nothing is hovered
	Preview   *geom.Segment
}

// Surface presents the session's output. The session never draws directly.
type Surface interface {
	ShowLabel(text string, at geom.PixelPoint)
	HideLabel()
	ShowDeleteControl(at geom.PixelPoint)
	HideDeleteControl()
	Paint(frame Frame)
}

// Hover describes the line under the pointer while idle.
type Hover struct {
	ID   int64
	Kind geom.HitKind
	// Control is the delete control position; only set for body hovers.
	Control geom.PixelPoint
}

type drag struct {
	id       int64
	which    store.Endpoint
	startOff geom.PixelPoint
	endOff   geom.PixelPoint
	missing  bool
}

// Session is the single owner of the interaction state. All methods must be
// called from one goroutine.
type Session struct {
	store   *store.Store
	proj    bridge.Projector
	surface Surface
	labeler annotate.Labeler

	thresholds   geom.Thresholds
	minLength    float64
	deleteRadius float64

	state      State
	draftStart geom.PixelPoint
	pointer    geom.PixelPoint
	drag       drag
	hover      Hover
	hovering   bool
}

// Option configures a Session.
type Option func(*Session)

// WithThresholds overrides the hit-test radii.
func WithThresholds(th geom.Thresholds) Option { return func(s *Session) { s.thresholds = th } }

// WithMinLength sets the shortest line a creation gesture keeps. Zero keeps
// every line, including clicks.
func WithMinLength(px float64) Option { return func(s *Session) { s.minLength = px } }

// WithDeleteRadius sets the clickable radius of the delete control.
func WithDeleteRadius(px float64) Option { return func(s *Session) { s.deleteRadius = px } }

// NewSession returns an idle session editing st through proj.
func NewSession(st *store.Store, proj bridge.Projector, surface Surface, labeler annotate.Labeler, opts ...Option) *Session {
	s := &Session{
		store:        st,
		proj:         proj,
		surface:      surface,
		labeler:      labeler,
		thresholds:   geom.DefaultThresholds(),
		minLength:    DefaultMinLength,
		deleteRadius: DefaultDeleteRadius,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current gesture state.
func (s *Session) State() State { return s.state }

// Hover returns the hovered line, if any.
func (s *Session) Hover() (Hover, bool) { return s.hover, s.hovering }

// Frame builds the frame for the current state.
func (s *Session) Frame() Frame {
	f := Frame{Lines: s.store.List()}
	if s.hovering {
		f.Hovered = s.hover.ID
		f.HoverKind = s.hover.Kind
	}
	if s.state == CreatingLine {
		preview := geom.Segment{Start: s.draftStart, End: s.pointer}
		f.Preview = &preview
	}
	return f
}

// Redraw repaints the surface without changing any state.
func (s *Session) Redraw() {
	s.surface.Paint(s.Frame())
}

// projected pairs a line's id with its current pixel geometry.
type projected struct {
	ids  []int64
	segs []geom.Segment
}

// project converts every line for this instant. Lines that cannot be
// projected are left out of hit-testing for this event.
func (s *Session) project() projected {
	lines := s.store.List()
	p := projected{
		ids:  make([]int64, 0, len(lines)),
		segs: make([]geom.Segment, 0, len(lines)),
	}
	for _, line := range lines {
		seg, ok := bridge.ProjectSegment(s.proj, line.Start, line.End)
		if !ok {
			continue
		}
		p.ids = append(p.ids, line.ID)
		p.segs = append(p.segs, seg)
	}
	return p
}

// PointerDown starts a gesture. It decides on the spot between dragging an
// existing line and creating a new one.
func (s *Session) PointerDown(p geom.PixelPoint) {
	if s.state != Idle {
		// the previous pointer-up was never delivered
		logger.WithField("state", s.state).Debug("resetting unfinished gesture")
		s.state = Idle
		s.drag = drag{}
	}
	s.pointer = p

	if s.hovering && s.hover.Kind == geom.HitBody &&
		geom.Distance(p, s.hover.Control) <= s.deleteRadius {
		s.DeleteHovered()
		return
	}

	all := s.project()
	idx, kind := geom.HitTest(p, all.segs, s.thresholds)
	switch {
	case kind.IsEndpoint():
		which := store.EndpointStart
		if kind == geom.HitEnd {
			which = store.EndpointEnd
		}
		s.state = DraggingEndpoint
		s.drag = drag{id: all.ids[idx], which: which}
	case kind == geom.HitBody:
		seg := all.segs[idx]
		s.state = DraggingWhole
		s.drag = drag{
			id:       all.ids[idx],
			startOff: p.Sub(seg.Start),
			endOff:   p.Sub(seg.End),
		}
	default:
		s.state = CreatingLine
		s.draftStart = p
	}
	logger.WithFields(log.Fields{"state": s.state, "x": p.X, "y": p.Y}).Trace("pointer down")
	if s.hovering {
		s.clearHover()
		s.Redraw()
	}
}

// PointerMove updates the active gesture or, while idle, the hover state.
func (s *Session) PointerMove(p geom.PixelPoint) {
	s.pointer = p
	switch s.state {
	case CreatingLine:
		s.clearHover()
		s.Redraw()
	case DraggingEndpoint:
		s.clearHover()
		d, ok := s.proj.ToData(p)
		if !ok {
			return
		}
		s.applyDrag(s.store.UpdateEndpoint(s.drag.id, s.drag.which, d))
	case DraggingWhole:
		s.clearHover()
		start, ok1 := s.proj.ToData(p.Sub(s.drag.startOff))
		end, ok2 := s.proj.ToData(p.Sub(s.drag.endOff))
		if !ok1 || !ok2 {
			return
		}
		s.applyDrag(s.store.UpdateBoth(s.drag.id, start, end))
	default:
		s.updateHover(p)
	}
}

func (s *Session) applyDrag(err error) {
	switch {
	case err == nil:
		s.Redraw()
	case errors.Is(err, store.ErrNotFound):
		if !s.drag.missing {
			logger.WithField("id", s.drag.id).Debug("drag target removed")
			s.drag.missing = true
		}
	default:
		logger.WithError(err).Debug("drag step skipped")
	}
}

// PointerUp finishes the active gesture and returns to Idle.
func (s *Session) PointerUp(p geom.PixelPoint) {
	s.pointer = p
	if s.state == CreatingLine {
		s.finishCreate(p)
	}
	s.state = Idle
	s.drag = drag{}
	s.clearHover()
	s.Redraw()
}

// Release ends an active gesture at the last pointer position, as if the
// pointer had been released there. Hosts call it when the window loses the
// pointer grab and the real release may never arrive.
func (s *Session) Release() {
	if s.state == Idle {
		return
	}
	logger.WithField("state", s.state).Debug("releasing gesture")
	s.PointerUp(s.pointer)
}

func (s *Session) finishCreate(p geom.PixelPoint) {
	if geom.Distance(s.draftStart, p) < s.minLength {
		logger.Debug("discarding line shorter than the minimum length")
		return
	}
	start, ok1 := s.proj.ToData(s.draftStart)
	end, ok2 := s.proj.ToData(p)
	if !ok1 || !ok2 {
		logger.Warn("cannot create line: projection unavailable")
		return
	}
	line, err := s.store.Add(start, end)
	if err != nil {
		logger.WithError(err).Warn("create line")
		return
	}
	logger.WithField("id", line.ID).Debug("created line")
}

// ViewportChanged repaints after a pan, zoom or resize. Interaction state
// and data-space geometry are left untouched. An endpoint hover is tested
// again at the pointer, since its handle has moved away from it.
func (s *Session) ViewportChanged() {
	if s.state == Idle && s.hovering && s.hover.Kind.IsEndpoint() {
		s.updateHover(s.pointer)
	}
	if s.hovering && s.hover.Kind == geom.HitBody {
		line, ok := s.store.Get(s.hover.ID)
		var seg geom.Segment
		if ok {
			seg, ok = bridge.ProjectSegment(s.proj, line.Start, line.End)
		}
		if ok {
			s.hover.Control = annotate.DeleteAnchor(seg)
			s.surface.ShowDeleteControl(s.hover.Control)
		} else {
			s.clearHover()
		}
	}
	s.Redraw()
}

// DeleteHovered removes the line whose delete control is showing, that is
// the line hovered by its body. It reports whether a line was removed.
func (s *Session) DeleteHovered() bool {
	if !s.hovering || s.hover.Kind != geom.HitBody {
		return false
	}
	id := s.hover.ID
	s.clearHover()
	if err := s.store.Remove(id); err != nil {
		logger.WithError(err).Debug("delete hovered line")
		s.Redraw()
		return false
	}
	logger.WithField("id", id).Debug("deleted line")
	s.Redraw()
	return true
}

func (s *Session) updateHover(p geom.PixelPoint) {
	all := s.project()
	idx, kind := geom.HoverTest(p, all.segs, s.thresholds)
	prev, was := s.hover, s.hovering

	switch {
	case kind.IsEndpoint():
		line, _ := s.store.Get(all.ids[idx])
		which := store.EndpointStart
		if kind == geom.HitEnd {
			which = store.EndpointEnd
		}
		s.hover = Hover{ID: line.ID, Kind: kind}
		s.hovering = true
		s.surface.ShowLabel(annotate.EndpointLabel(line.Point(which), s.labeler), annotate.TooltipAnchor(p))
		s.surface.HideDeleteControl()
	case kind == geom.HitBody:
		s.hover = Hover{ID: all.ids[idx], Kind: kind, Control: annotate.DeleteAnchor(all.segs[idx])}
		s.hovering = true
		s.surface.HideLabel()
		s.surface.ShowDeleteControl(s.hover.Control)
	default:
		s.hover = Hover{}
		s.hovering = false
		s.surface.HideLabel()
		s.surface.HideDeleteControl()
	}

	if was != s.hovering || prev.ID != s.hover.ID || prev.Kind != s.hover.Kind {
		s.Redraw()
	}
}

func (s *Session) clearHover() {
	s.hover = Hover{}
	s.hovering = false
	s.surface.HideLabel()
	s.surface.HideDeleteControl()
}
