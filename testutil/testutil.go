// Package testutil provides an in-memory sqlite database mirroring
// the production schema, so repository and handler tests run without
// a MySQL server.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    name TEXT NOT NULL,
    mobile_no TEXT,
    location TEXT,
    latitude REAL,
    longitude REAL,
    email_verified BOOLEAN NOT NULL DEFAULT FALSE,
    is_staff BOOLEAN NOT NULL DEFAULT FALSE,
    is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    date_joined DATETIME NOT NULL
);

CREATE TABLE user_auth_tokens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    auth_token TEXT NOT NULL UNIQUE,
    device_token TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    last_used_at DATETIME
);

CREATE TABLE user_verification_otps (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL,
    otp TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE organisations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    email TEXT NOT NULL,
    tags TEXT,
    location TEXT,
    logo_url TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE organisation_committees (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    organisation_id INTEGER NOT NULL,
    designation TEXT NOT NULL DEFAULT 'Member',
    is_founder BOOLEAN NOT NULL DEFAULT FALSE,
    permissions TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE (user_id, organisation_id)
);

CREATE TABLE user_preferences (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL UNIQUE,
    designation TEXT NOT NULL DEFAULT '',
    preferred_category TEXT NOT NULL DEFAULT '',
    allow_marketing_emails BOOLEAN NOT NULL DEFAULT TRUE,
    allow_event_updates BOOLEAN NOT NULL DEFAULT TRUE,
    allow_system_notifications BOOLEAN NOT NULL DEFAULT TRUE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    organisation_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    scan_id TEXT NOT NULL,
    description TEXT,
    start_datetime DATETIME NOT NULL,
    end_datetime DATETIME NOT NULL,
    category TEXT NOT NULL,
    tags TEXT,
    type TEXT NOT NULL,
    location TEXT,
    latitude REAL,
    longitude REAL,
    status TEXT NOT NULL,
    created_by INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE event_attendees (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    is_present BOOLEAN NOT NULL DEFAULT FALSE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE (event_id, user_id)
);

CREATE TABLE event_interactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    interaction_type TEXT NOT NULL,
    interaction_data TEXT,
    created_at DATETIME NOT NULL
);

CREATE TABLE event_feedback (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    rating REAL NOT NULL,
    feedback TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE (event_id, user_id)
);

CREATE TABLE event_notification_configs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id INTEGER NOT NULL,
    notification_config TEXT,
    reminder_mail_sent BOOLEAN NOT NULL DEFAULT FALSE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
`

// OpenTestDB returns a fresh in-memory database with the full schema
// applied. It is closed when the test finishes.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// The schema lives in one connection; pooling would lose it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}
