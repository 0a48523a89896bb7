package models

import "time"

const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCanceled  = "canceled"
)

const (
	EventTypeOnline  = "online"
	EventTypeOffline = "offline"
	EventTypeHybrid  = "hybrid"
)

// EventTypes is the closed set of delivery types.
var EventTypes = []string{EventTypeOnline, EventTypeOffline, EventTypeHybrid}

// EventCategories is the closed category set shared by events and user
// preferences.
var EventCategories = []string{
	"music", "nightlife", "concert", "holidays", "dating",
	"hobbies", "coding", "others", "business", "food_drink",
}

type Event struct {
	ID             int64     `json:"id"`
	OrganisationID int64     `json:"organisation_id"`
	Name           string    `json:"name"`
	ScanID         string    `json:"scan_id,omitempty"`
	Description    string    `json:"description"`
	StartDatetime  time.Time `json:"start_datetime"`
	EndDatetime    time.Time `json:"end_datetime"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	Type           string    `json:"type"`
	Location       string    `json:"location"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Status         string    `json:"status"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Details maps an event onto the full response payload. The scan code
// is deliberately absent; it is served only to committee members.
func (e *Event) Details(creator *User) map[string]interface{} {
	details := map[string]interface{}{
		"id":              e.ID,
		"organisation_id": e.OrganisationID,
		"name":            e.Name,
		"description":     e.Description,
		"start_datetime":  e.StartDatetime,
		"end_datetime":    e.EndDatetime,
		"category":        e.Category,
		"tags":            e.Tags,
		"type":            e.Type,
		"location":        e.Location,
		"latitude":        e.Latitude,
		"longitude":       e.Longitude,
		"status":          e.Status,
		"created_at":      e.CreatedAt,
		"updated_at":      e.UpdatedAt,
	}
	if creator != nil {
		details["created_by"] = creator.Condensed()
	}
	return details
}

// EventAttendee records an RSVP and, once checked in, presence.
type EventAttendee struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	IsPresent bool      `json:"is_present"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
