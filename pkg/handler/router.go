package handler

import (
	"net/http"
)

func NewRouter(app *App) *http.ServeMux {
	mux := http.NewServeMux()

	handle := func(pattern, route string, h http.HandlerFunc) {
		if app.Metrics == nil {
			mux.Handle(pattern, h)
			return
		}
		mux.Handle(pattern, app.Metrics.Instrument(route, h))
	}

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Main routes
	handle("GET /{$}", "index", app.IndexPage)
	handle("GET /map/{map_id}", "map_svg", app.MapSVG)

	// API routes
	handle("GET /api/v1/health", "health", app.HealthCheck)
	handle("GET /api/v1/maps", "maps", app.ListMaps)
	handle("GET /api/v1/map/{map_id}", "map_json", app.MapJSON)
	handle("GET /api/v1/annotations", "annotations", app.Annotations)
	handle("POST /api/v1/maps/{map_id}/download", "download", app.DownloadMap)
	handle("GET /api/v1/jobs/{job_id}", "job", app.JobStatus)

	if app.Metrics != nil {
		mux.Handle("GET /metrics", app.Metrics.Handler())
	}

	return mux
}
