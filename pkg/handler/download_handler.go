package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/handler/params"
	"github.com/yumyai/keggmap/pkg/handler/request"
	"github.com/yumyai/keggmap/pkg/handler/types"
	"go.uber.org/zap"
)

const downloadTimeout = 10 * time.Minute

func jobResponse(job DownloadJob) types.JobResponse {
	return types.JobResponse{
		ID:        job.ID,
		MapID:     job.MapID,
		Status:    string(job.Status),
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

// POST /api/v1/maps/{map_id}/download with an optional {"reload": true} body.
// The download runs in the background; poll /api/v1/jobs/{job_id}.
func (app *App) DownloadMap(w http.ResponseWriter, r *http.Request) {

	if app.Downloader == nil {
		writeError(w, r, http.StatusServiceUnavailable, "downloads are disabled")
		return
	}

	req, err := request.ParseMapRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := app.Wizard.Title(req.MapID); !ok {
		writeError(w, r, http.StatusNotFound, "unknown map: "+req.MapID)
		return
	}

	var body request.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	job, created := app.Jobs.NewJob(req.MapID, body.Reload)
	if created {
		go app.runDownload(job)
	}

	writeJSON(w, r, http.StatusAccepted, jobResponse(job))
}

func (app *App) runDownload(job DownloadJob) {
	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	app.Jobs.SetRunning(job.ID)
	logger.Info("Download started", zap.String("job_id", job.ID), zap.String("map_id", job.MapID))

	for _, org := range app.Wizard.Orgs {
		if err := app.Downloader.DownloadMaps(ctx, org, []string{job.MapID}, job.Reload); err != nil {
			logger.Error("Download failed", zap.String("job_id", job.ID), zap.String("org", org), zap.Error(err))
			app.Jobs.FailJob(job.ID, err)
			return
		}
	}

	// renders cached before the download are stale
	for _, mode := range []params.ColorMode{params.ColorByClass, params.ColorByCount} {
		if err := app.SVGCache.Forget(ctx, svgKey(app.Wizard.Orgs, job.MapID, mode)); err != nil {
			logger.Warn("Could not drop cached map", zap.String("map_id", job.MapID), zap.Error(err))
		}
	}

	logger.Info("Download completed", zap.String("job_id", job.ID), zap.String("map_id", job.MapID))
	app.Jobs.CompleteJob(job.ID)
}

// GET /api/v1/jobs/{job_id}
func (app *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := app.Jobs.GetJob(r.PathValue("job_id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, r, http.StatusOK, jobResponse(job))
}
