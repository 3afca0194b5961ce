package handler

import (
	"bytes"
	"errors"
	"net/http"
	"os"

	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/cache"
	"github.com/yumyai/keggmap/pkg/db"
	"github.com/yumyai/keggmap/pkg/handler/params"
	"github.com/yumyai/keggmap/pkg/handler/request"
	"github.com/yumyai/keggmap/pkg/handler/types"
	"github.com/yumyai/keggmap/pkg/middle"
	"github.com/yumyai/keggmap/pkg/model"
	"github.com/yumyai/keggmap/pkg/render"
	"github.com/yumyai/keggmap/pkg/wizard"
	"go.uber.org/zap"
)

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidMapID), errors.Is(err, model.ErrMalformedQuery),
		errors.Is(err, model.ErrInvalidAnomaly):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrUnknownMap), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, db.ErrOrgNotDownloaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GET /map/{map_id}?color_by=kind|random|count
func (app *App) MapSVG(w http.ResponseWriter, r *http.Request) {

	log := middle.Logger(r.Context(), logger.L())

	req, err := request.ParseMapRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	build := func() ([]byte, error) {
		return app.renderSVG(log, req)
	}

	var data []byte
	if req.ColorBy.Deterministic() {
		data, err = app.SVGCache.Load(r.Context(), svgKey(app.Wizard.Orgs, req.MapID, req.ColorBy), build)
	} else {
		data, err = build()
	}
	if err != nil {
		log.Info("Could not render map", zap.String("map_id", req.MapID), zap.Error(err))
		writeError(w, r, statusOf(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(data)
}

func svgKey(orgs []string, mapID string, mode params.ColorMode) string {
	return cache.Key("svg", orgs, mapID, mode.String())
}

func (app *App) renderSVG(log *zap.Logger, req request.MapRequest) ([]byte, error) {
	m, _, err := app.Wizard.CreateMap(req.MapID)
	if err != nil {
		return nil, err
	}
	if app.Metrics != nil {
		app.Metrics.MapsBuilt.Inc()
	}

	bg, err := app.Wizard.Background(req.MapID)
	if err != nil {
		log.Warn("No background for map, rendering shapes only", zap.String("map_id", req.MapID), zap.Error(err))
		bg = nil
	}

	var buf bytes.Buffer
	if err := app.Renderer.WriteSVG(&buf, m, bg, req.ColorBy.Func()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GET /api/v1/map/{map_id}
func (app *App) MapJSON(w http.ResponseWriter, r *http.Request) {

	req, err := request.ParseMapRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	m, warnings, err := app.Wizard.CreateMap(req.MapID)
	if err != nil {
		writeError(w, r, statusOf(err), err.Error())
		return
	}
	if app.Metrics != nil {
		app.Metrics.MapsBuilt.Inc()
	}

	shapes := make([]model.ShapeView, 0, m.Shapes.Len())
	for _, s := range m.Shapes.All() {
		shapes = append(shapes, s.View())
	}
	if warnings == nil {
		warnings = []model.Warning{}
	}

	writeJSON(w, r, http.StatusOK, types.MapResponse{
		MapID:    m.MapID,
		Title:    m.Title,
		Orgs:     m.Orgs,
		Shapes:   shapes,
		Warnings: warnings,
	})
}

func (app *App) mapEntries() ([]render.MapEntry, error) {
	ids, err := app.Wizard.AvailableMaps()
	if err != nil {
		return nil, err
	}
	entries := make([]render.MapEntry, 0, len(ids))
	for _, id := range ids {
		title, _ := app.Wizard.Title(id)
		entries = append(entries, render.MapEntry{MapID: id, Title: title})
	}
	return entries, nil
}

// GET /api/v1/maps
func (app *App) ListMaps(w http.ResponseWriter, r *http.Request) {
	entries, err := app.mapEntries()
	if err != nil {
		writeError(w, r, statusOf(err), err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, types.MapListResponse{Orgs: app.Wizard.Orgs, Maps: entries})
}

// GET /
func (app *App) IndexPage(w http.ResponseWriter, r *http.Request) {

	entries, err := app.mapEntries()
	if err != nil {
		logger.Debug("No maps for index page", zap.Error(err))
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderIndexPage(w, app.Wizard.OrgString(), entries); err != nil {
		logger.Error("Could not render index page", zap.Error(err))
	}
}

// GET /api/v1/annotations?url=/dbget-bin/www_bget?K00832&org=ko
func (app *App) Annotations(w http.ResponseWriter, r *http.Request) {

	url := r.URL.Query().Get("url")
	org := r.URL.Query().Get("org")
	if url == "" {
		writeError(w, r, http.StatusBadRequest, "missing url parameter")
		return
	}

	resolver, ok := app.Wizard.Resolver(org)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "organism not served: "+org)
		return
	}

	annos, warnings, err := resolver.Resolve(url)
	if err != nil {
		writeError(w, r, statusOf(err), err.Error())
		return
	}

	out := make([]model.Annotation, 0, len(annos))
	for _, a := range annos.Sorted() {
		out = append(out, a.Escaped())
	}
	if warnings == nil {
		warnings = []model.Warning{}
	}

	writeJSON(w, r, http.StatusOK, types.AnnotationsResponse{
		URL:         url,
		Org:         resolver.Organism.Code,
		Annotations: out,
		Warnings:    warnings,
	})
}
