package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShapes(t *testing.T) {
	p := testParser("ko")

	tests := []struct {
		name     string
		line     string
		kind     ShapeKind
		geometry Geometry
	}{
		{
			name:     "rect",
			line:     "rect (332,725) (378,742)\t/dbget-bin/www_bget?K00832+K00838\tK00832 (tyrB), K00838 (ARO8)",
			kind:     ShapeRect,
			geometry: RectGeometry{X: 332, Y: 725, Width: 46, Height: 17, Radius: 0},
		},
		{
			name:     "circle",
			line:     "circle (246,236) 4\t/kegg-bin/show_pathway?map00905\tSome Map",
			kind:     ShapeCircle,
			geometry: CircleGeometry{CX: 246, CY: 236, R: 4},
		},
		{
			name:     "filled circle",
			line:     "filled_circ (10,20) 3\t/dbget-bin/www_bget?C00082\tL-Tyrosine",
			kind:     ShapeCircle,
			geometry: CircleGeometry{CX: 10, CY: 20, R: 3},
		},
		{
			name:     "poly",
			line:     "poly (341,292,332,295,332,288)\t/dbget-bin/www_bget?K00832\tarrow",
			kind:     ShapePoly,
			geometry: PolyGeometry{Coords: []int{341, 292, 332, 295, 332, 288}},
		},
		{
			name:     "line",
			line:     "line (138,907,158,907) 2\t/dbget-bin/www_bget?K00001\tSome reaction",
			kind:     ShapeLine,
			geometry: LineGeometry{Path: []Point{{138, 907}, {158, 907}}, StrokeWidth: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, _, err := p.Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, shape.Kind())
			assert.Equal(t, tt.geometry, shape.Geometry)
		})
	}
}

func TestParseRectRounding(t *testing.T) {
	// exactly 46x17 stays square
	g, err := ParseGeometry("rect", "(620,271) (666,288)")
	require.NoError(t, err)
	assert.Equal(t, RectGeometry{X: 620, Y: 271, Width: 46, Height: 17, Radius: 0}, g)

	// 47x18 is rounded and shifted by one pixel
	g, err = ParseGeometry("rect", "(620,271) (667,289)")
	require.NoError(t, err)
	assert.Equal(t, RectGeometry{X: 621, Y: 272, Width: 47, Height: 18, Radius: 10}, g)

	// both dimensions must exceed the threshold
	g, err = ParseGeometry("rect", "(0,0) (100,17)")
	require.NoError(t, err)
	assert.Equal(t, 0, g.(RectGeometry).Radius)
}

func TestParseLineAttributes(t *testing.T) {
	shape, _, err := testParser("ko").Parse("line (723,2164,775,2164,775,2180) 3\t/dbget-bin/www_bget?K00001\tx")
	require.NoError(t, err)

	line := shape.Geometry.(LineGeometry)
	assert.Equal(t, "M 723,2164 L 775,2164 L 775,2180", line.D())
	assert.Equal(t, 3, line.StrokeWidth)
	assert.Equal(t, "line (723,2164,775,2164,775,2180) 3", shape.RawPosition)
	assert.Equal(t, "line", shape.ShapeType)
}

func TestParseAnnotations(t *testing.T) {
	shape, warnings, err := testParser("ko").Parse("rect (332,725) (378,742)\t/dbget-bin/www_bget?K00832+K00838\tK00832 (tyrB), K00838 (ARO8)")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "K00832 (tyrB), K00838 (ARO8)", shape.Description)
	assert.ElementsMatch(t, []AnnoKey{{AnnoGene, "K00832"}, {AnnoGene, "K00838"}}, shape.Annotations.Keys())
	assert.Equal(t, []string{ClassEnzyme}, shape.Classes())
}

func TestParseBadQueryDegrades(t *testing.T) {
	logs := observeLogs(t)

	shape, warnings, err := testParser("ko").Parse("rect (1,1) (2,2)\t/nowhere?K00001\tbroken link")
	require.NoError(t, err)
	assert.Empty(t, shape.Annotations)
	assert.Equal(t, []Warning{{Token: "/nowhere?K00001", Reason: WarnMalformedQuery}}, warnings)
	assert.Equal(t, 1, logs.FilterMessage("Could not resolve annotations").Len())
}

func TestParseErrors(t *testing.T) {
	p := testParser("ko")

	tests := []struct {
		name string
		line string
		want error
	}{
		{"two fields", "rect (1,1) (2,2)\t/dbget-bin/www_bget?K00001", ErrMalformedLine},
		{"four fields", "rect (1,1) (2,2)\t/dbget-bin/www_bget?K00001\ta\tb", ErrMalformedLine},
		{"no geometry", "rect\t/dbget-bin/www_bget?K00001\ta", ErrMalformedLine},
		{"unknown type", "ellipse (1,1) 2\t/dbget-bin/www_bget?K00001\ta", ErrUnknownShapeType},
		{"bad circle", "circle (1,1)\t/dbget-bin/www_bget?K00001\ta", ErrInvalidGeometry},
		{"bad rect", "rect (1,1) (2,x)\t/dbget-bin/www_bget?K00001\ta", ErrInvalidGeometry},
		{"odd poly", "poly (1,2,3)\t/dbget-bin/www_bget?K00001\ta", ErrInvalidGeometry},
		{"negative poly", "poly (1,-2,3,4)\t/dbget-bin/www_bget?K00001\ta", ErrInvalidGeometry},
		{"odd line", "line (1,2,3) 2\t/dbget-bin/www_bget?K00001\ta", ErrInvalidGeometry},
		{"line without width", "line (1,2,3,4)\t/dbget-bin/www_bget?K00001\ta", ErrInvalidGeometry},
		{"overflow", "circle (99999999999999999999,1) 2\t/dbget-bin/www_bget?K00001\ta", ErrInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, _, err := p.Parse(tt.line)
			require.Error(t, err)
			assert.Nil(t, shape)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var lineErr *LineError
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, tt.line, lineErr.Line)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestGeometryErrorCarriesKind(t *testing.T) {
	_, err := ParseGeometry("poly", "(1,2,3)")
	var geomErr *GeometryError
	require.True(t, errors.As(err, &geomErr))
	assert.Equal(t, ShapePoly, geomErr.Kind)
	assert.Equal(t, "(1,2,3)", geomErr.Geometry)
}

func TestParseTrailingNewline(t *testing.T) {
	shape, _, err := testParser("ko").Parse("circle (1,2) 3\t/dbget-bin/www_bget?C00082\t\r\n")
	require.NoError(t, err)
	assert.Equal(t, "", shape.Description)
}

func TestParseTrailingWhitespace(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"spaces", "circle (1,2) 3\t/dbget-bin/www_bget?C00082\tL-Tyrosine  ", "L-Tyrosine"},
		{"spaces and crlf", "circle (1,2) 3\t/dbget-bin/www_bget?C00082\tL-Tyrosine \r\n", "L-Tyrosine"},
		{"trailing tab", "circle (1,2) 3\t/dbget-bin/www_bget?C00082\tL-Tyrosine\t", "L-Tyrosine"},
		{"empty description with spaces", "circle (1,2) 3\t/dbget-bin/www_bget?C00082\t  \n", ""},
		{"inner spaces kept", "circle (1,2) 3\t/dbget-bin/www_bget?C00082\tL- Tyrosine", "L- Tyrosine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, _, err := testParser("ko").Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shape.Description)
			assert.Equal(t, "circle (1,2) 3", shape.RawPosition)
		})
	}
}

func TestParseTwoFieldsStillMalformed(t *testing.T) {
	_, _, err := testParser("ko").Parse("circle (1,2) 3\t/dbget-bin/www_bget?C00082")
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestParseInvalidAnomalyFailsLine(t *testing.T) {
	line := "circle (1,2) 3\t/dbget-bin/www_bget?dr:D1234\tbroken drug"
	shape, _, err := testParser("ko").Parse(line)
	require.Error(t, err)
	assert.Nil(t, shape)
	assert.ErrorIs(t, err, ErrInvalidAnomaly)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, line, lineErr.Line)
}
