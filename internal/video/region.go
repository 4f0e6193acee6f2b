package video

import "image"

// Region is an axis-aligned rectangle in frame pixel coordinates,
// captured from the interactive region-selection step as four corner
// points. Immutable once captured.
type Region struct {
	TopLeft     image.Point `json:"top_left"`
	TopRight    image.Point `json:"top_right"`
	BottomRight image.Point `json:"bottom_right"`
	BottomLeft  image.Point `json:"bottom_left"`
}

// RegionFromRect builds a Region from an image rectangle.
func RegionFromRect(r image.Rectangle) Region {
	return Region{
		TopLeft:     r.Min,
		TopRight:    image.Pt(r.Max.X, r.Min.Y),
		BottomRight: r.Max,
		BottomLeft:  image.Pt(r.Min.X, r.Max.Y),
	}
}

// Rect returns the rectangle spanned by the top-left and bottom-right
// corners, the same [minY:maxY, minX:maxX] slice the crop step uses.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.TopLeft.X, r.TopLeft.Y, r.BottomRight.X, r.BottomRight.Y)
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Rect().Empty()
}
