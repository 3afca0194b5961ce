package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/db"
	"github.com/yumyai/keggmap/pkg/imageutil"
	"github.com/yumyai/keggmap/pkg/model"
	"go.uber.org/zap"
)

var (
	ErrUnknownMap = errors.New("unknown map")
	ErrNoConfig   = fmt.Errorf("no config downloaded for any organism: %w", os.ErrNotExist)
)

// Wizard builds maps for a fixed set of organisms. Descriptions and map titles
// are read once in New; map construction never touches the database.
type Wizard struct {
	Orgs    []string
	maps    *db.MapDB
	parsers []*model.ShapeParser
	titles  map[string]string

	// Warnings counts annotation warnings by reason when set.
	Warnings *prometheus.CounterVec
}

func New(ctx context.Context, orgs []string, store *db.KeggDB) (*Wizard, error) {
	if len(orgs) == 0 {
		return nil, errors.New("wizard needs at least one organism")
	}

	lookup, err := store.Rest.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading descriptions: %w", err)
	}
	titles, err := store.Rest.MapTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading map titles: %w", err)
	}

	w := &Wizard{
		Orgs:   orgs,
		maps:   store.Maps,
		titles: titles,
	}
	for _, org := range orgs {
		resolver := model.NewResolver(lookup, model.NewOrganism(org))
		w.parsers = append(w.parsers, model.NewShapeParser(resolver))
	}

	logger.Info("Wizard ready",
		zap.Strings("orgs", orgs), zap.Int("maps", len(titles)), zap.Int("rest_files", len(lookup)))
	return w, nil
}

func (w *Wizard) String() string {
	return fmt.Sprintf("<KeggMapWizard: %s>", w.OrgString())
}

func (w *Wizard) OrgString() string {
	return strings.Join(w.Orgs, "+")
}

func (w *Wizard) Title(mapID string) (string, bool) {
	title, ok := w.titles[mapID]
	return title, ok
}

// AvailableMaps lists the maps with a downloaded config for any organism.
func (w *Wizard) AvailableMaps() ([]string, error) {
	return w.maps.AvailableMaps(w.Orgs)
}

// Background returns the transparent map image.
func (w *Wizard) Background(mapID string) (*imageutil.EncodedPNG, error) {
	return w.maps.LoadPNG(mapID)
}

// CreateMap parses the config of every organism and merges them into one map.
// Organisms without a config for mapID are skipped.
func (w *Wizard) CreateMap(mapID string) (*model.KeggMap, []model.Warning, error) {

	title, ok := w.titles[mapID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s does not exist for %s", ErrUnknownMap, mapID, w)
	}

	var (
		primary  *model.KeggMap
		warnings []model.Warning
	)

	for _, parser := range w.parsers {
		org := parser.Resolver.Organism.Code
		if !w.maps.HasConfig(org, mapID) {
			logger.Debug("No config for organism", zap.String("org", org), zap.String("map_id", mapID))
			continue
		}

		m, orgWarnings, err := w.loadOrgMap(parser, mapID, title)
		warnings = append(warnings, orgWarnings...)
		if err != nil {
			return nil, warnings, err
		}

		if primary == nil {
			primary = m
			continue
		}
		if err := model.MergeMaps(primary, m); err != nil {
			return nil, warnings, err
		}
	}

	if primary == nil {
		return nil, warnings, fmt.Errorf("map %s: %w", mapID, ErrNoConfig)
	}

	w.countWarnings(warnings)
	return primary, warnings, nil
}

func (w *Wizard) loadOrgMap(parser *model.ShapeParser, mapID, title string) (*model.KeggMap, []model.Warning, error) {
	m, err := model.NewKeggMap(mapID, title)
	if err != nil {
		return nil, nil, err
	}

	f, err := w.maps.OpenConfig(parser.Resolver.Organism.Code, mapID)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	warnings, err := m.LoadConfig(f, parser)
	return m, warnings, err
}

// CreateMaps builds every map in mapIDs, or every available map when mapIDs is empty.
func (w *Wizard) CreateMaps(mapIDs []string) (map[string]*model.KeggMap, error) {
	if len(mapIDs) == 0 {
		available, err := w.AvailableMaps()
		if err != nil {
			return nil, err
		}
		mapIDs = available
	}

	out := make(map[string]*model.KeggMap, len(mapIDs))
	for _, mapID := range mapIDs {
		m, _, err := w.CreateMap(mapID)
		if err != nil {
			return nil, err
		}
		out[mapID] = m
	}
	return out, nil
}

// MapTitles returns the known maps sorted by id.
func (w *Wizard) MapTitles() []MapTitle {
	out := make([]MapTitle, 0, len(w.titles))
	for id, title := range w.titles {
		out = append(out, MapTitle{MapID: id, Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MapID < out[j].MapID })
	return out
}

type MapTitle struct {
	MapID string `json:"map_id"`
	Title string `json:"title"`
}

func (w *Wizard) countWarnings(warnings []model.Warning) {
	if w.Warnings == nil {
		return
	}
	for _, warning := range warnings {
		w.Warnings.WithLabelValues(string(warning.Reason)).Inc()
	}
}

// Resolver returns the resolver of org, or of the first organism when org is "".
func (w *Wizard) Resolver(org string) (*model.Resolver, bool) {
	if org == "" {
		return w.parsers[0].Resolver, true
	}
	for _, p := range w.parsers {
		if p.Resolver.Organism.Code == org {
			return p.Resolver, true
		}
	}
	return nil, false
}
