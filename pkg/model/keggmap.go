package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yumyai/keggmap/logger"
	"go.uber.org/zap"
)

var reMapID = regexp.MustCompile(`^[0-9]{5}$`)

func ValidMapID(mapID string) bool {
	return reMapID.MatchString(mapID)
}

// KeggMap is one pathway, possibly assembled from several organisms.
type KeggMap struct {
	MapID  string
	Title  string
	Orgs   []string
	Shapes *ShapeRegistry
}

func NewKeggMap(mapID, title string) (*KeggMap, error) {
	if !ValidMapID(mapID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMapID, mapID)
	}
	return &KeggMap{
		MapID:  mapID,
		Title:  title,
		Shapes: NewShapeRegistry(),
	}, nil
}

func (m *KeggMap) String() string {
	return fmt.Sprintf("<KeggMap %s%s: %s>", strings.Join(m.Orgs, "+"), m.MapID, m.Title)
}

func (m *KeggMap) AddShape(shape *Shape) {
	m.Shapes.Add(shape)
}

// LoadConfig parses a KEGG .conf stream for one organism into m. The first bad
// line aborts the load with a *LineError naming the map; warnings accumulate.
func (m *KeggMap) LoadConfig(r io.Reader, parser *ShapeParser) ([]Warning, error) {

	var warnings []Warning
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		shape, lineWarnings, err := parser.Parse(line)
		if err != nil {
			var lineErr *LineError
			if errors.As(err, &lineErr) {
				lineErr.MapID = m.MapID
				return warnings, lineErr
			}
			return warnings, &LineError{MapID: m.MapID, Line: line, Err: err}
		}

		warnings = append(warnings, lineWarnings...)
		m.AddShape(shape)
	}

	if err := scanner.Err(); err != nil {
		return warnings, fmt.Errorf("reading config of map %s: %w", m.MapID, err)
	}

	org := parser.Resolver.Organism.Code
	if org != "" {
		m.Orgs = append(m.Orgs, org)
	}

	logger.Debug("Loaded map config",
		zap.String("map_id", m.MapID), zap.String("org", org),
		zap.Int("shapes", m.Shapes.Len()), zap.Int("warnings", len(warnings)))

	return warnings, nil
}

// ShapesOfKind filters the shapes of m by kind.
func (m *KeggMap) ShapesOfKind(kind ShapeKind) []*Shape {
	var out []*Shape
	for _, s := range m.Shapes.All() {
		if s.Kind() == kind {
			out = append(out, s)
		}
	}
	return out
}

// MergeMaps folds secondary (the same pathway for another organism) into primary.
// Overlapping annotations are expected here and not reported.
func MergeMaps(primary, secondary *KeggMap) error {
	if primary == secondary {
		return fmt.Errorf("%w: %s", ErrSelfMerge, primary.MapID)
	}
	if primary.MapID != secondary.MapID {
		return fmt.Errorf("%w: %s != %s", ErrMapMismatch, primary.MapID, secondary.MapID)
	}

	primary.Shapes.Merge(secondary.Shapes, true)
	for _, org := range secondary.Orgs {
		if !containsString(primary.Orgs, org) {
			primary.Orgs = append(primary.Orgs, org)
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
