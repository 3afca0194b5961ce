package model

// Degenerate boxes (horizontal or vertical lines) are widened by this much on
// each side so a gradient spanning them stays visible.
const BoundingBoxMargin = 1

type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (b BoundingBox) Width() int  { return b.X2 - b.X1 }
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }

// BoundingBox computes the envelope of the shape. It is not cached: renderers
// call it when they need it.
func (s *Shape) BoundingBox() BoundingBox {
	points := s.Geometry.Points()
	if len(points) == 0 {
		return BoundingBox{}
	}

	b := BoundingBox{X1: points[0].X, Y1: points[0].Y, X2: points[0].X, Y2: points[0].Y}
	for _, p := range points[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}

	if b.X1 == b.X2 {
		b.X1 -= BoundingBoxMargin
		b.X2 += BoundingBoxMargin
	}
	if b.Y1 == b.Y2 {
		b.Y1 -= BoundingBoxMargin
		b.Y2 += BoundingBoxMargin
	}
	return b
}
