// Package repository holds one repository per entity: an interface and
// a database/sql implementation. All SQL is kept portable between
// MySQL (production) and sqlite (tests): timestamps are assigned in Go,
// list/map columns are stored as JSON text, and tag containment is
// matched with LIKE on the serialized form.
package repository

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Repositories bundles every repository for injection into the
// controllers.
type Repositories struct {
	Users         UserRepository
	Tokens        TokenRepository
	OTPs          OTPRepository
	Organisations OrganisationRepository
	Committees    CommitteeRepository
	Preferences   PreferenceRepository
	Events        EventRepository
	Attendees     AttendeeRepository
	Interactions  InteractionRepository
	Feedback      FeedbackRepository
	Notifications NotificationRepository
}

func New(db *sql.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Tokens:        NewTokenRepository(db),
		OTPs:          NewOTPRepository(db),
		Organisations: NewOrganisationRepository(db),
		Committees:    NewCommitteeRepository(db),
		Preferences:   NewPreferenceRepository(db),
		Events:        NewEventRepository(db),
		Attendees:     NewAttendeeRepository(db),
		Interactions:  NewInteractionRepository(db),
		Feedback:      NewFeedbackRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func marshalStrings(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func unmarshalStrings(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		return []string{}
	}
	return list
}

func marshalMap(m map[string]interface{}) string {
	if m == nil {
		m = map[string]interface{}{}
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func unmarshalMap(raw sql.NullString) map[string]interface{} {
	if !raw.Valid || raw.String == "" {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
		return map[string]interface{}{}
	}
	return m
}
