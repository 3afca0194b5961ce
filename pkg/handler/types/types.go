package types

import (
	"time"

	"github.com/yumyai/keggmap/pkg/model"
	"github.com/yumyai/keggmap/pkg/render"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type MapResponse struct {
	MapID    string            `json:"map_id"`
	Title    string            `json:"title"`
	Orgs     []string          `json:"orgs"`
	Shapes   []model.ShapeView `json:"shapes"`
	Warnings []model.Warning   `json:"warnings"`
}

type MapListResponse struct {
	Orgs []string       `json:"orgs"`
	Maps []render.MapEntry `json:"maps"`
}

type AnnotationsResponse struct {
	URL         string             `json:"url"`
	Org         string             `json:"org"`
	Annotations []model.Annotation `json:"annotations"`
	Warnings    []model.Warning    `json:"warnings"`
}

type JobResponse struct {
	ID        string    `json:"id"`
	MapID     string    `json:"map_id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
