package request

import (
	"fmt"
	"net/http"

	"github.com/yumyai/keggmap/pkg/handler/params"
	"github.com/yumyai/keggmap/pkg/model"
)

// Rendering one map
type MapRequest struct {
	MapID   string           `json:"map_id"`
	ColorBy params.ColorMode `json:"color_by"`
}

// Body of POST /api/v1/maps/{map_id}/download
type DownloadRequest struct {
	Reload bool `json:"reload"`
}

// ParseMapRequest reads the {map_id} path value and the color_by query.
func ParseMapRequest(r *http.Request) (MapRequest, error) {
	mapID := r.PathValue("map_id")
	if !model.ValidMapID(mapID) {
		return MapRequest{}, fmt.Errorf("%w: %q", model.ErrInvalidMapID, mapID)
	}
	return MapRequest{
		MapID:   mapID,
		ColorBy: params.ParseColorMode(r.URL.Query().Get("color_by")),
	}, nil
}
