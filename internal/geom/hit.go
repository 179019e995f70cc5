package geom

// HitKind classifies where a pointer landed relative to a segment.
type HitKind int

const (
	HitNone HitKind = iota
	HitStart
	HitEnd
	HitBody
)

func (k HitKind) String() string {
	switch k {
	case HitStart:
		return "start"
	case HitEnd:
		return "end"
	case HitBody:
		return "body"
	default:
		return "none"
	}
}

// IsEndpoint reports whether k refers to one of the two handles.
func (k HitKind) IsEndpoint() bool { return k == HitStart || k == HitEnd }

// Thresholds are pixel radii used for hit-testing. They are applied to
// freshly projected pixel positions so they stay visually constant at every
// zoom level.
type Thresholds struct {
	Endpoint float64
	Body     float64
}

// DefaultThresholds matches the handle radius and stroke tolerance of the
// overlay renderer.
func DefaultThresholds() Thresholds {
	return Thresholds{Endpoint: 8, Body: 6}
}

// Classify tests p against a single segment. Start handle wins over end
// handle, which wins over the body.
func Classify(p PixelPoint, seg Segment, th Thresholds) HitKind {
	if Distance(p, seg.Start) < th.Endpoint {
		return HitStart
	}
	if Distance(p, seg.End) < th.Endpoint {
		return HitEnd
	}
	if PointNearSegment(p, seg.Start, seg.End, th.Body) {
		return HitBody
	}
	return HitNone
}

// HitTest scans segs in order and returns the index and kind of the first
// segment p hits. It returns -1 and HitNone when nothing is hit.
func HitTest(p PixelPoint, segs []Segment, th Thresholds) (int, HitKind) {
	for i, seg := range segs {
		if kind := Classify(p, seg, th); kind != HitNone {
			return i, kind
		}
	}
	return -1, HitNone
}

// HoverTest checks the handles of every segment before any body, so a handle
// drawn over another line's stroke still reports an endpoint.
func HoverTest(p PixelPoint, segs []Segment, th Thresholds) (int, HitKind) {
	for i, seg := range segs {
		if Distance(p, seg.Start) < th.Endpoint {
			return i, HitStart
		}
		if Distance(p, seg.End) < th.Endpoint {
			return i, HitEnd
		}
	}
	for i, seg := range segs {
		if PointNearSegment(p, seg.Start, seg.End, th.Body) {
			return i, HitBody
		}
	}
	return -1, HitNone
}
