package handler

// DI for all handlers and models alike.

import (
	"github.com/yumyai/keggmap/pkg/cache"
	"github.com/yumyai/keggmap/pkg/fetch"
	"github.com/yumyai/keggmap/pkg/middle"
	"github.com/yumyai/keggmap/pkg/render"
	"github.com/yumyai/keggmap/pkg/wizard"
)

type App struct {
	Wizard     *wizard.Wizard
	Renderer   *render.Renderer
	SVGCache   *cache.Loader
	Downloader *fetch.Downloader // nil disables the download endpoints
	Jobs       *DownloadJobManager
	Metrics    *middle.Metrics // optional
}

// NewApp fills the optional parts of App with working defaults.
func NewApp(w *wizard.Wizard, svgCache *cache.Loader, downloader *fetch.Downloader, metrics *middle.Metrics) *App {
	if svgCache == nil {
		svgCache = cache.NewLoader(nil, 0)
	}
	return &App{
		Wizard:     w,
		Renderer:   render.NewRenderer(nil),
		SVGCache:   svgCache,
		Downloader: downloader,
		Jobs:       NewDownloadJobManager(),
		Metrics:    metrics,
	}
}
