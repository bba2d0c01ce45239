package model

import "time"

// Project statuses
const (
	StatusLive          = "Live"
	StatusInDevelopment = "In Development"
	StatusComingSoon    = "Coming Soon"
	StatusCompleted     = "Completed"
	StatusOnHold        = "On Hold"
)

// ProjectStatuses lists all valid project statuses.
var ProjectStatuses = []string{
	StatusLive,
	StatusInDevelopment,
	StatusComingSoon,
	StatusCompleted,
	StatusOnHold,
}

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s string) bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project is a portfolio entry. Slug is derived from Title and unique across
// all projects. Image and ImageAssetID reference a single remote asset owned
// exclusively by this record.
type Project struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Tech         []string  `json:"tech"`
	Image        string    `json:"image,omitempty"`
	ImageAssetID string    `json:"-"`
	DemoURL      string    `json:"demo_url,omitempty"`
	GithubURL    string    `json:"github_url,omitempty"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	Featured     bool      `json:"featured"`
	Position     int64     `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsLive returns true if the project status is Live.
func (p *Project) IsLive() bool {
	return p.Status == StatusLive
}

// HasImage returns true if a remote image asset is attached.
func (p *Project) HasImage() bool {
	return p.ImageAssetID != ""
}
