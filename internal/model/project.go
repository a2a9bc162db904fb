package model

import "time"

// ProjectStatus represents the lifecycle state of a monitored project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectArchived ProjectStatus = "archived"
)

// Project is a brand being monitored across answer-engine platforms.
// Projects are created by the surrounding tooling; the collection engine
// only reads them.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	BrandName string        `json:"brand_name"`
	Domain    string        `json:"domain,omitempty"`
	Industry  string        `json:"industry,omitempty"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// IsActive reports whether the project should be collected for.
func (p *Project) IsActive() bool {
	return p.Status == ProjectActive
}

// TrackedQuery is a standing natural-language question a project wants
// re-asked periodically. Lower Priority values are asked first.
type TrackedQuery struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Text      string `json:"text"`
	Priority  int    `json:"priority"`
	IsActive  bool   `json:"is_active"`
}
