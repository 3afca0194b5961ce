// Handler for miscellaneous endpoints such as health check

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/handler/types"
	"github.com/yumyai/keggmap/pkg/middle"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Orgs      string    `json:"orgs,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (app *App) HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Health:    "ok",
		Timestamp: time.Now(),
	}
	if app.Wizard != nil {
		response.Orgs = app.Wizard.OrgString()
	}

	writeJSON(w, r, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		middle.Logger(r.Context(), logger.L()).Warn("Could not write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, types.ErrorResponse{
		Error:     msg,
		RequestID: middle.RequestID(r.Context()),
	})
}
