package repository

import (
	"database/sql"

	"event-platform/models"
)

// AttendeeRecord joins an attendee row with its user for listing and
// CSV export.
type AttendeeRecord struct {
	User      models.User
	IsPresent bool
}

type AttendeeRepository interface {
	// GetOrCreate records an RSVP; created reports whether a new row
	// was written.
	GetOrCreate(eventID, userID int64) (created bool, err error)
	Find(eventID, userID int64) (*models.EventAttendee, error)
	Delete(eventID, userID int64) error
	MarkPresent(eventID, userID int64) error
	ListByEvent(eventID int64) ([]AttendeeRecord, error)
	// EmailsByEvent returns the attendee email addresses for reminder
	// and cancellation mail.
	EmailsByEvent(eventID int64) ([]string, error)
	Exists(eventID, userID int64) (bool, error)
	ExistsPresent(eventID, userID int64) (bool, error)
	CountByEvent(eventID int64) (int, error)
}

type attendeeRepository struct {
	db *sql.DB
}

func NewAttendeeRepository(db *sql.DB) AttendeeRepository {
	return &attendeeRepository{db: db}
}

func (r *attendeeRepository) Find(eventID, userID int64) (*models.EventAttendee, error) {
	var a models.EventAttendee
	err := r.db.QueryRow(
		`SELECT id, event_id, user_id, is_present, created_at, updated_at
		 FROM event_attendees WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	).Scan(&a.ID, &a.EventID, &a.UserID, &a.IsPresent, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendeeRepository) GetOrCreate(eventID, userID int64) (bool, error) {
	existing, err := r.Find(eventID, userID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	ts := now()
	_, err = r.db.Exec(
		`INSERT INTO event_attendees (event_id, user_id, is_present, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		eventID, userID, false, ts, ts,
	)
	return err == nil, err
}

func (r *attendeeRepository) Delete(eventID, userID int64) error {
	_, err := r.db.Exec(
		`DELETE FROM event_attendees WHERE event_id = ? AND user_id = ?`, eventID, userID)
	return err
}

func (r *attendeeRepository) MarkPresent(eventID, userID int64) error {
	_, err := r.db.Exec(
		`UPDATE event_attendees SET is_present = ?, updated_at = ? WHERE event_id = ? AND user_id = ?`,
		true, now(), eventID, userID)
	return err
}

func (r *attendeeRepository) ListByEvent(eventID int64) ([]AttendeeRecord, error) {
	rows, err := r.db.Query(
		`SELECT u.id, u.email, u.name, a.is_present
		 FROM event_attendees a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.event_id = ?
		 ORDER BY a.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AttendeeRecord
	for rows.Next() {
		var rec AttendeeRecord
		if err := rows.Scan(&rec.User.ID, &rec.User.Email, &rec.User.Name, &rec.IsPresent); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *attendeeRepository) EmailsByEvent(eventID int64) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT u.email FROM event_attendees a JOIN users u ON u.id = a.user_id
		 WHERE a.event_id = ? ORDER BY a.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *attendeeRepository) exists(query string, args ...interface{}) (bool, error) {
	var id int64
	err := r.db.QueryRow(query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *attendeeRepository) Exists(eventID, userID int64) (bool, error) {
	return r.exists(
		`SELECT id FROM event_attendees WHERE event_id = ? AND user_id = ?`, eventID, userID)
}

func (r *attendeeRepository) ExistsPresent(eventID, userID int64) (bool, error) {
	return r.exists(
		`SELECT id FROM event_attendees WHERE event_id = ? AND user_id = ? AND is_present = ?`,
		eventID, userID, true)
}

func (r *attendeeRepository) CountByEvent(eventID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM event_attendees WHERE event_id = ?`, eventID).Scan(&count)
	return count, err
}
