// Package annotate formats endpoint labels and places the tooltip and
// delete control next to the pointer and the hovered line.
package annotate

import (
	"math"
	"strconv"

	"github.com/example/trendlines/internal/geom"
)

// TooltipOffset is the distance from the pointer to the tooltip's corner.
var TooltipOffset = geom.Pt(12, 12)

// Labeler maps category indices to display labels.
type Labeler interface {
	Len() int
	CategoryLabel(i int) (string, bool)
}

// EndpointLabel renders p as "<category>, <price>". The x index is rounded
// to the nearest category; outside the series, or for an empty label, the
// raw index is shown. Prices always carry two decimals.
func EndpointLabel(p geom.DataPoint, labeler Labeler) string {
	return categoryText(p.XIndex, labeler) + ", " + strconv.FormatFloat(p.YValue, 'f', 2, 64)
}

func categoryText(x float64, labeler Labeler) string {
	idx := math.Floor(x + 0.5)
	if labeler != nil && idx >= 0 && idx < float64(labeler.Len()) {
		if label, ok := labeler.CategoryLabel(int(idx)); ok && label != "" {
			return label
		}
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// TooltipAnchor returns where the tooltip is placed for a pointer position.
func TooltipAnchor(pointer geom.PixelPoint) geom.PixelPoint {
	return pointer.Add(TooltipOffset)
}

// DeleteAnchor returns the centre of the delete control for a line.
func DeleteAnchor(seg geom.Segment) geom.PixelPoint {
	return seg.Midpoint()
}
