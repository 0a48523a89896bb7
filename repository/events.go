package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"event-platform/models"
)

// FeedPageSize is the fixed page size of the event feeds.
const FeedPageSize = 25

// feedSortFields is the allow-list for the feed's sort_by parameter.
// Anything else falls back to start_datetime ascending.
var feedSortFields = map[string]string{
	"start_datetime": "start_datetime",
	"name":           "name",
	"scan_id":        "scan_id",
}

// FeedQuery collects the feed's composable filter predicates.
type FeedQuery struct {
	Now      time.Time
	Search   string
	Category string
	Type     string
	Tags     []string
	SortBy   string
	Order    string
	Page     int
}

type EventRepository interface {
	Create(event *models.Event) error
	FindByID(id int64) (*models.Event, error)
	// FindByIDAndScanID is the check-in lookup: both keys must match.
	FindByIDAndScanID(id int64, scanID string) (*models.Event, error)
	Update(event *models.Event) error
	SetStatus(id int64, status string) error
	ListUpcomingByOrganisation(organisationID int64, from time.Time) ([]models.Event, error)
	ListByCreator(userID int64) ([]models.Event, error)
	// Feed runs the published-upcoming query with filters, sorting and
	// fixed-size pagination; it returns the page plus the total row
	// count across all pages.
	Feed(q FeedQuery) ([]models.Event, int, error)
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, organisation_id, name, scan_id, description, start_datetime, end_datetime,
	category, tags, type, location, latitude, longitude, status, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var e models.Event
	var description, tags, location sql.NullString
	var lat, lng sql.NullFloat64
	err := row.Scan(&e.ID, &e.OrganisationID, &e.Name, &e.ScanID, &description,
		&e.StartDatetime, &e.EndDatetime, &e.Category, &tags, &e.Type,
		&location, &lat, &lng, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Description = description.String
	e.Tags = unmarshalStrings(tags)
	e.Location = location.String
	if lat.Valid {
		e.Latitude = &lat.Float64
	}
	if lng.Valid {
		e.Longitude = &lng.Float64
	}
	return &e, nil
}

func (r *eventRepository) Create(event *models.Event) error {
	event.CreatedAt = now()
	event.UpdatedAt = event.CreatedAt
	res, err := r.db.Exec(
		`INSERT INTO events (organisation_id, name, scan_id, description, start_datetime, end_datetime,
			category, tags, type, location, latitude, longitude, status, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.OrganisationID, event.Name, event.ScanID, event.Description,
		event.StartDatetime, event.EndDatetime, event.Category, marshalStrings(event.Tags),
		event.Type, event.Location, event.Latitude, event.Longitude, event.Status,
		event.CreatedBy, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return err
	}
	event.ID, err = res.LastInsertId()
	return err
}

func (r *eventRepository) FindByID(id int64) (*models.Event, error) {
	event, err := scanEvent(r.db.QueryRow(
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

func (r *eventRepository) FindByIDAndScanID(id int64, scanID string) (*models.Event, error) {
	event, err := scanEvent(r.db.QueryRow(
		`SELECT `+eventColumns+` FROM events WHERE id = ? AND scan_id = ?`, id, scanID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

func (r *eventRepository) Update(event *models.Event) error {
	event.UpdatedAt = now()
	_, err := r.db.Exec(
		`UPDATE events SET name = ?, description = ?, start_datetime = ?, end_datetime = ?,
			category = ?, tags = ?, type = ?, location = ?, latitude = ?, longitude = ?, updated_at = ?
		 WHERE id = ?`,
		event.Name, event.Description, event.StartDatetime, event.EndDatetime,
		event.Category, marshalStrings(event.Tags), event.Type, event.Location,
		event.Latitude, event.Longitude, event.UpdatedAt, event.ID,
	)
	return err
}

func (r *eventRepository) SetStatus(id int64, status string) error {
	_, err := r.db.Exec(`UPDATE events SET status = ?, updated_at = ? WHERE id = ?`,
		status, now(), id)
	return err
}

func (r *eventRepository) queryEvents(query string, args ...interface{}) ([]models.Event, error) {
	rows, err := r.db.Query(query, args...)
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

func (r *eventRepository) ListUpcomingByOrganisation(organisationID int64, from time.Time) ([]models.Event, error) {
	return r.queryEvents(
		`SELECT `+eventColumns+` FROM events
		 WHERE organisation_id = ? AND start_datetime >= ?
		 ORDER BY start_datetime`, organisationID, from)
}

func (r *eventRepository) ListByCreator(userID int64) ([]models.Event, error) {
	return r.queryEvents(
		`SELECT `+eventColumns+` FROM events WHERE created_by = ? ORDER BY start_datetime`, userID)
}

func (r *eventRepository) Feed(q FeedQuery) ([]models.Event, int, error) {
	where := []string{"status = ?", "start_datetime >= ?"}
	args := []interface{}{models.EventStatusPublished, q.Now}

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		where = append(where,
			"(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, q.Type)
	}
	// Tags are stored as a JSON array; containment of each requested
	// tag is matched on its quoted serialized form.
	for _, tag := range q.Tags {
		where = append(where, "tags LIKE ?")
		args = append(args, `%"`+tag+`"%`)
	}

	clause := strings.Join(where, " AND ")

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM events WHERE `+clause, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	sortBy, ok := feedSortFields[q.SortBy]
	order := "ASC"
	if !ok {
		sortBy = "start_datetime"
	} else if q.Order == "desc" {
		order = "DESC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * FeedPageSize

	events, err := r.queryEvents(
		fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?`,
			eventColumns, clause, sortBy, order),
		append(args, FeedPageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
