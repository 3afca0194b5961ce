package model

import (
	"errors"
	"fmt"
)

// Fatal error classes. Anything wrapping one of these aborts the map being built.
var (
	ErrMalformedLine    = errors.New("malformed config line")
	ErrUnknownShapeType = errors.New("unknown shape type")
	ErrInvalidGeometry  = errors.New("invalid geometry")
	ErrMalformedQuery   = errors.New("malformed annotation query")
	ErrMapMismatch      = errors.New("cannot merge maps with different ids")
	ErrSelfMerge        = errors.New("cannot merge a map into itself")
	ErrInvalidMapID     = errors.New("map id must be 5 digits")
	ErrInvalidAnomaly   = errors.New("anomaly rule produced an invalid annotation")
)

// ErrUnrecognizedToken is not fatal: the resolver skips the token with a warning.
var ErrUnrecognizedToken = errors.New("annotation token matches no pattern")

type GeometryError struct {
	Kind     ShapeKind
	Geometry string
	Msg      string // additional context for the error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrInvalidGeometry, e.Kind, e.Geometry, e.Msg)
}

func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

// LineError names the config line (and map, once known) that failed to parse.
type LineError struct {
	MapID string
	Line  string
	Err   error
}

func (e *LineError) Error() string {
	if e.MapID == "" {
		return fmt.Sprintf("error in line %q: %s", e.Line, e.Err)
	}
	return fmt.Sprintf("error in map %s, line %q: %s", e.MapID, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
