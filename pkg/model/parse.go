package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yumyai/keggmap/logger"
	"go.uber.org/zap"
)

var (
	// (246,236) 4
	reCircle = regexp.MustCompile(`^\(([0-9]+),([0-9]+)\) ([0-9]+)$`)
	// (259,192) (305,209)
	reRect = regexp.MustCompile(`^\(([0-9]+),([0-9]+)\) \(([0-9]+),([0-9]+)\)$`)
	// (341,292,332,295,332,288)
	rePoly = regexp.MustCompile(`^\(([0-9]+(?:,[0-9]+)*)\)$`)
	// (138,907,158,907) 2
	reLine = regexp.MustCompile(`^\(([0-9]+(?:,[0-9]+)+)\) ([0-9]+)$`)
)

// Rects larger than this (in both directions) get rounded corners.
const (
	roundMinWidth  = 46
	roundMinHeight = 17
	roundRadius    = 10
)

// ShapeParser turns config-file lines into shapes.
type ShapeParser struct {
	Resolver *Resolver
}

func NewShapeParser(resolver *Resolver) *ShapeParser {
	return &ShapeParser{Resolver: resolver}
}

// Parse reads one line: "<type> <geometry>\t<query url>\t<description>".
// Errors are wrapped in a *LineError carrying the line. Annotation problems never
// fail the line; they come back as warnings.
func (p *ShapeParser) Parse(line string) (*Shape, []Warning, error) {
	shape, warnings, err := p.parse(line)
	if err != nil {
		return nil, nil, &LineError{Line: line, Err: err}
	}
	return shape, warnings, nil
}

func (p *ShapeParser) parse(line string) (*Shape, []Warning, error) {

	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	fields := strings.Split(trimmed, "\t")
	if len(fields) == 2 && strings.HasPrefix(line[len(trimmed):], "\t") {
		// the description itself was empty
		fields = append(fields, "")
	}
	if len(fields) != 3 {
		return nil, nil, fmt.Errorf("%w: expected 3 tab-separated fields, got %d", ErrMalformedLine, len(fields))
	}
	rawPosition, url, description := fields[0], fields[1], fields[2]

	shapeType, geometry, found := strings.Cut(rawPosition, " ")
	if !found {
		return nil, nil, fmt.Errorf("%w: position %q has no geometry", ErrMalformedLine, rawPosition)
	}

	g, err := ParseGeometry(shapeType, geometry)
	if err != nil {
		return nil, nil, err
	}

	annos, warnings, err := p.Resolver.Resolve(url)
	if err != nil && !errors.Is(err, ErrMalformedQuery) {
		return nil, nil, err
	}
	if err != nil {
		logger.Warn("Could not resolve annotations", zap.String("line", line), zap.Error(err))
		annos = AnnotationSet{}
		warnings = []Warning{{Token: url, Reason: WarnMalformedQuery}}
	}

	return &Shape{
		ShapeType:   shapeType,
		RawPosition: rawPosition,
		Geometry:    g,
		URL:         url,
		Description: description,
		Annotations: annos,
	}, warnings, nil
}

// ParseGeometry validates geometry against the grammar of the shape type and
// returns its normalized form.
func ParseGeometry(shapeType, geometry string) (Geometry, error) {
	switch shapeType {
	case "circle", "filled_circ", "circ":
		return parseCircle(geometry)
	case "rect":
		return parseRect(geometry)
	case "poly":
		return parsePoly(geometry)
	case "line":
		return parseLine(geometry)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShapeType, shapeType)
	}
}

func parseCircle(geometry string) (Geometry, error) {
	m := reCircle.FindStringSubmatch(geometry)
	if m == nil {
		return nil, &GeometryError{Kind: ShapeCircle, Geometry: geometry, Msg: "does not match (cx,cy) r"}
	}
	v, err := atoiAll(m[1:])
	if err != nil {
		return nil, &GeometryError{Kind: ShapeCircle, Geometry: geometry, Msg: err.Error()}
	}
	return CircleGeometry{CX: v[0], CY: v[1], R: v[2]}, nil
}

func parseRect(geometry string) (Geometry, error) {
	m := reRect.FindStringSubmatch(geometry)
	if m == nil {
		return nil, &GeometryError{Kind: ShapeRect, Geometry: geometry, Msg: "does not match (x1,y1) (x2,y2)"}
	}
	v, err := atoiAll(m[1:])
	if err != nil {
		return nil, &GeometryError{Kind: ShapeRect, Geometry: geometry, Msg: err.Error()}
	}

	x, y := v[0], v[1]
	w, h := v[2]-x, v[3]-y

	// soften big reaction boxes
	r := 0
	if w > roundMinWidth && h > roundMinHeight {
		x, y, r = x+1, y+1, roundRadius
	}

	return RectGeometry{X: x, Y: y, Width: w, Height: h, Radius: r}, nil
}

func parsePoly(geometry string) (Geometry, error) {
	m := rePoly.FindStringSubmatch(geometry)
	if m == nil {
		return nil, &GeometryError{Kind: ShapePoly, Geometry: geometry, Msg: "does not match (x1,y1,...,xn,yn)"}
	}
	coords, err := evenCoords(m[1])
	if err != nil {
		return nil, &GeometryError{Kind: ShapePoly, Geometry: geometry, Msg: err.Error()}
	}
	return PolyGeometry{Coords: coords}, nil
}

func parseLine(geometry string) (Geometry, error) {
	m := reLine.FindStringSubmatch(geometry)
	if m == nil {
		return nil, &GeometryError{Kind: ShapeLine, Geometry: geometry, Msg: "does not match (x1,y1,...,xn,yn) width"}
	}
	coords, err := evenCoords(m[1])
	if err != nil {
		return nil, &GeometryError{Kind: ShapeLine, Geometry: geometry, Msg: err.Error()}
	}
	width, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, &GeometryError{Kind: ShapeLine, Geometry: geometry, Msg: err.Error()}
	}
	return LineGeometry{Path: pairs(coords), StrokeWidth: width}, nil
}

func evenCoords(list string) ([]int, error) {
	coords, err := atoiAll(strings.Split(list, ","))
	if err != nil {
		return nil, err
	}
	if len(coords)%2 != 0 {
		return nil, fmt.Errorf("number of coordinates must be even, got %d", len(coords))
	}
	return coords, nil
}

func atoiAll(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
