package repository

import (
	"database/sql"
	"time"

	"event-platform/models"
)

type NotificationRepository interface {
	// CreateDefault writes the empty config row that accompanies every
	// new event.
	CreateDefault(eventID int64) error
	FindByEvent(eventID int64) (*models.EventNotificationConfig, error)
	UpdateConfig(eventID int64, config map[string]interface{}) error
	// EventsNeedingReminder lists events starting inside the window
	// whose reminder mail has not been sent yet.
	EventsNeedingReminder(from, until time.Time) ([]models.Event, error)
	// ClaimReminder flips the sent flag only if it is still unset and
	// reports whether this caller won the claim. Overlapping scans
	// therefore cannot double-send.
	ClaimReminder(eventID int64) (bool, error)
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateDefault(eventID int64) error {
	ts := now()
	_, err := r.db.Exec(
		`INSERT INTO event_notification_configs (event_id, notification_config, reminder_mail_sent, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		eventID, "{}", false, ts, ts,
	)
	return err
}

func (r *notificationRepository) FindByEvent(eventID int64) (*models.EventNotificationConfig, error) {
	var c models.EventNotificationConfig
	var config sql.NullString
	err := r.db.QueryRow(
		`SELECT id, event_id, notification_config, reminder_mail_sent, created_at, updated_at
		 FROM event_notification_configs WHERE event_id = ? ORDER BY id LIMIT 1`,
		eventID,
	).Scan(&c.ID, &c.EventID, &config, &c.ReminderMailSent, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.NotificationConfig = unmarshalMap(config)
	return &c, nil
}

func (r *notificationRepository) UpdateConfig(eventID int64, config map[string]interface{}) error {
	_, err := r.db.Exec(
		`UPDATE event_notification_configs SET notification_config = ?, updated_at = ? WHERE event_id = ?`,
		marshalMap(config), now(), eventID,
	)
	return err
}

func (r *notificationRepository) EventsNeedingReminder(from, until time.Time) ([]models.Event, error) {
	rows, err := r.db.Query(
		`SELECT `+eventColumnsPrefixed("e")+`
		 FROM events e
		 JOIN event_notification_configs c ON c.event_id = e.id
		 WHERE e.start_datetime >= ? AND e.start_datetime <= ? AND c.reminder_mail_sent = ?
		 ORDER BY e.start_datetime`, from, until, false)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *notificationRepository) ClaimReminder(eventID int64) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE event_notification_configs SET reminder_mail_sent = ?, updated_at = ?
		 WHERE event_id = ? AND reminder_mail_sent = ?`,
		true, now(), eventID, false,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func eventColumnsPrefixed(alias string) string {
	return alias + ".id, " + alias + ".organisation_id, " + alias + ".name, " +
		alias + ".scan_id, " + alias + ".description, " + alias + ".start_datetime, " +
		alias + ".end_datetime, " + alias + ".category, " + alias + ".tags, " +
		alias + ".type, " + alias + ".location, " + alias + ".latitude, " +
		alias + ".longitude, " + alias + ".status, " + alias + ".created_by, " +
		alias + ".created_at, " + alias + ".updated_at"
}
