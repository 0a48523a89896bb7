package models

import "time"

// UserPreference stores a user's designation, preferred event category
// and email opt-in flags. One row per user.
type UserPreference struct {
	ID                       int64     `json:"id"`
	UserID                   int64     `json:"user_id"`
	Designation              string    `json:"designation"`
	PreferredCategory        string    `json:"preferred_category"`
	AllowMarketingEmails     bool      `json:"allow_marketing_emails"`
	AllowEventUpdates        bool      `json:"allow_event_updates"`
	AllowSystemNotifications bool      `json:"allow_system_notifications"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (p *UserPreference) Details(user *User) map[string]interface{} {
	details := map[string]interface{}{
		"id":                         p.ID,
		"designation":                p.Designation,
		"preferred_category":         p.PreferredCategory,
		"allow_marketing_emails":     p.AllowMarketingEmails,
		"allow_event_updates":        p.AllowEventUpdates,
		"allow_system_notifications": p.AllowSystemNotifications,
		"created_at":                 p.CreatedAt,
		"updated_at":                 p.UpdatedAt,
	}
	if user != nil {
		details["user"] = user.Condensed()
	}
	return details
}
