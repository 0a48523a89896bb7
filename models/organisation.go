package models

import "time"

type Organisation struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	Tags        []string  `json:"tags"`
	Location    string    `json:"location,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (o *Organisation) Details() map[string]interface{} {
	return map[string]interface{}{
		"id":          o.ID,
		"name":        o.Name,
		"description": o.Description,
		"email":       o.Email,
		"tags":        o.Tags,
		"location":    o.Location,
		"logo_url":    o.LogoURL,
		"created_at":  o.CreatedAt,
		"updated_at":  o.UpdatedAt,
	}
}

func (o *Organisation) Condensed() map[string]interface{} {
	return map[string]interface{}{
		"id":          o.ID,
		"name":        o.Name,
		"description": o.Description,
		"location":    o.Location,
	}
}

// OrganisationCommittee grants a user organisation-scoped permissions.
// It is the authorization record checked before event creation and
// attendee management.
type OrganisationCommittee struct {
	ID             int64                  `json:"id"`
	UserID         int64                  `json:"user_id"`
	OrganisationID int64                  `json:"organisation_id"`
	Designation    string                 `json:"designation"`
	IsFounder      bool                   `json:"is_founder"`
	Permissions    map[string]interface{} `json:"permissions"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}
