package dto

import "time"

// ViewLink names one view and where to fetch it.
type ViewLink struct {
	Name string `json:"name" example:"sector_allocation"`
	Path string `json:"path" example:"/api/v1/views/sector_allocation"`
}

// ViewIndexResponse is returned by GET /api/v1/views.
type ViewIndexResponse struct {
	GeneratedAt  time.Time  `json:"generated_at"`
	Transactions int        `json:"transactions"`
	Views        []ViewLink `json:"views"`
}

// ViewResponse wraps a single computed view. Data is one of the view
// structures from the domain models, serialized as-is.
type ViewResponse struct {
	Name         string    `json:"name"`
	GeneratedAt  time.Time `json:"generated_at"`
	Transactions int       `json:"transactions"`
	Data         any       `json:"data"`
}
