package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
		want BoundingBox
	}{
		{"circle", CircleGeometry{CX: 10, CY: 20, R: 4}, BoundingBox{6, 16, 14, 24}},
		{"rect", RectGeometry{X: 5, Y: 6, Width: 46, Height: 17}, BoundingBox{5, 6, 51, 23}},
		{"poly", PolyGeometry{Coords: []int{341, 292, 332, 295, 332, 288}}, BoundingBox{332, 288, 341, 295}},
		{"horizontal line", LineGeometry{Path: []Point{{138, 907}, {158, 907}}, StrokeWidth: 2}, BoundingBox{138, 906, 158, 908}},
		{"vertical line", LineGeometry{Path: []Point{{50, 10}, {50, 30}}, StrokeWidth: 2}, BoundingBox{49, 10, 51, 30}},
		{"point", CircleGeometry{CX: 3, CY: 3, R: 0}, BoundingBox{2, 2, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shape{Geometry: tt.geom}
			box := s.BoundingBox()
			assert.Equal(t, tt.want, box)
			assert.Greater(t, box.Width(), 0)
			assert.Greater(t, box.Height(), 0)
		})
	}
}
