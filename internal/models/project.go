package models

import "time"

const (
	CategoryFrontend  = "frontend"
	CategoryBackend   = "backend"
	CategoryFullstack = "fullstack"
	CategoryOther     = "other"
)

type Project struct {
	ID                  int64          `json:"id"`
	GithubID            int64          `json:"github_id"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	URL                 *string        `json:"url,omitempty"` // только homepage, не html_url
	Homepage            *string        `json:"homepage,omitempty"`
	Language            *string        `json:"language,omitempty"`
	Languages           []string       `json:"languages"`
	Topics              []string       `json:"topics"`
	Technologies        []string       `json:"technologies"`
	Category            string         `json:"category"`
	IsApproved          bool           `json:"is_approved"`
	Featured            bool           `json:"featured"`
	GithubURL           string         `json:"github_url"`
	Image               string         `json:"image"`
	LanguagePercentages map[string]int `json:"language_percentages"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// UpdateProjectRequest: частичное обновление из дашборда.
type UpdateProjectRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string   `json:"description,omitempty"`
	URL          *string   `json:"url,omitempty" validate:"omitempty,url"`
	Category     *string   `json:"category,omitempty" validate:"omitempty,oneof=frontend backend fullstack other"`
	Technologies *[]string `json:"technologies,omitempty"`
	IsApproved   *bool     `json:"is_approved,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
	Image        *string   `json:"image,omitempty"`
}

type SyncResult struct {
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

type RefreshResult struct {
	Updated int    `json:"updated"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}
