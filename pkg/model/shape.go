package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yumyai/keggmap/logger"
	"go.uber.org/zap"
)

type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
	ShapePoly
	ShapeLine
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	case ShapePoly:
		return "poly"
	case ShapeLine:
		return "line"
	default:
		return "unknown"
	}
}

func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Geometry is one of CircleGeometry, RectGeometry, PolyGeometry or LineGeometry.
type Geometry interface {
	Kind() ShapeKind
	// Points returns the points spanning the shape, used for bounding boxes.
	Points() []Point
	isGeometry()
}

type CircleGeometry struct {
	CX int `json:"cx"`
	CY int `json:"cy"`
	R  int `json:"r"`
}

// RectGeometry is already adjusted: large boxes have their origin shifted by one
// pixel and rounded corners.
type RectGeometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Radius int `json:"radius"`
}

type PolyGeometry struct {
	Coords []int `json:"coords"`
}

type LineGeometry struct {
	Path        []Point `json:"path"`
	StrokeWidth int     `json:"stroke_width"`
}

func (CircleGeometry) Kind() ShapeKind { return ShapeCircle }
func (RectGeometry) Kind() ShapeKind   { return ShapeRect }
func (PolyGeometry) Kind() ShapeKind   { return ShapePoly }
func (LineGeometry) Kind() ShapeKind   { return ShapeLine }

func (CircleGeometry) isGeometry() {}
func (RectGeometry) isGeometry()   {}
func (PolyGeometry) isGeometry()   {}
func (LineGeometry) isGeometry()   {}

func (g CircleGeometry) Points() []Point {
	return []Point{{g.CX - g.R, g.CY - g.R}, {g.CX + g.R, g.CY + g.R}}
}

func (g RectGeometry) Points() []Point {
	return []Point{{g.X, g.Y}, {g.X + g.Width, g.Y + g.Height}}
}

func (g PolyGeometry) Points() []Point {
	return pairs(g.Coords)
}

func (g LineGeometry) Points() []Point {
	return g.Path
}

// Attr renders the coordinates as an SVG points attribute: "341,292,332,295".
func (g PolyGeometry) Attr() string {
	parts := make([]string, len(g.Coords))
	for i, c := range g.Coords {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// D renders the path as SVG path data: "M 138,907 L 158,907".
func (g LineGeometry) D() string {
	parts := make([]string, len(g.Path))
	for i, p := range g.Path {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return "M " + strings.Join(parts, " L ")
}

func pairs(coords []int) []Point {
	points := make([]Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, Point{coords[i], coords[i+1]})
	}
	return points
}

// Shape is one clickable region of a map.
type Shape struct {
	ShapeType   string // token from the config file: circle, filled_circ, rect, ...
	RawPosition string
	Geometry    Geometry
	URL         string
	Description string
	Annotations AnnotationSet
}

func (s *Shape) Kind() ShapeKind {
	return s.Geometry.Kind()
}

func (s *Shape) String() string {
	return fmt.Sprintf("<%s: %s>", s.Kind(), s.Description)
}

// Classes returns the style classes of the shape's annotations. KEGG shapes
// normally carry one class, several are logged at debug level.
func (s *Shape) Classes() []string {
	classes := s.Annotations.Classes()
	if len(classes) > 1 {
		logger.Debug("Shape has more than one class", zap.String("shape", s.RawPosition), zap.Strings("classes", classes))
	}
	return classes
}

// Merge unions other's annotations into s. Repeated keys keep s's annotation and
// are logged unless expectDuplicates is set.
func (s *Shape) Merge(other *Shape, expectDuplicates bool) {
	if s.Annotations == nil {
		s.Annotations = make(AnnotationSet, len(other.Annotations))
	}
	dups := s.Annotations.Union(other.Annotations)
	if expectDuplicates || len(dups) == 0 {
		return
	}
	for _, key := range dups {
		logger.Warn("Duplicate annotation while merging shapes",
			zap.String("shape", s.RawPosition),
			zap.String("kind", string(key.Type)),
			zap.String("identifier", key.Name))
	}
}

// ShapeView is the serialized form handed to renderers and API clients.
type ShapeView struct {
	Kind        ShapeKind    `json:"kind"`
	RawPosition string       `json:"raw_position"`
	Coordinates Geometry     `json:"coordinates"`
	Description string       `json:"description"`
	Classes     []string     `json:"classes"`
	Annotations []Annotation `json:"annotations"`
}

func (s *Shape) View() ShapeView {
	annos := make([]Annotation, 0, len(s.Annotations))
	for _, a := range s.Annotations.Sorted() {
		annos = append(annos, a.Escaped())
	}
	return ShapeView{
		Kind:        s.Kind(),
		RawPosition: s.RawPosition,
		Coordinates: s.Geometry,
		Description: s.Description,
		Classes:     s.Classes(),
		Annotations: annos,
	}
}
