package repository

import (
	"database/sql"

	"event-platform/models"
)

type InteractionRepository interface {
	Create(interaction *models.EventInteraction) error
	// GetOrCreate inserts unless a row with the same (event, user,
	// type) already exists; shares and views are deduplicated this way.
	GetOrCreate(interaction *models.EventInteraction) error
	Exists(eventID, userID int64, interactionType string) (bool, error)
}

type interactionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Create(interaction *models.EventInteraction) error {
	interaction.CreatedAt = now()
	res, err := r.db.Exec(
		`INSERT INTO event_interactions (event_id, user_id, interaction_type, interaction_data, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		interaction.EventID, interaction.UserID, interaction.InteractionType,
		marshalMap(interaction.InteractionData), interaction.CreatedAt,
	)
	if err != nil {
		return err
	}
	interaction.ID, err = res.LastInsertId()
	return err
}

func (r *interactionRepository) GetOrCreate(interaction *models.EventInteraction) error {
	exists, err := r.Exists(interaction.EventID, interaction.UserID, interaction.InteractionType)
	if err != nil || exists {
		return err
	}
	return r.Create(interaction)
}

func (r *interactionRepository) Exists(eventID, userID int64, interactionType string) (bool, error) {
	var id int64
	err := r.db.QueryRow(
		`SELECT id FROM event_interactions
		 WHERE event_id = ? AND user_id = ? AND interaction_type = ? LIMIT 1`,
		eventID, userID, interactionType,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FeedbackRecord joins a feedback row with its author for listing.
type FeedbackRecord struct {
	User     models.User
	Feedback models.EventFeedback
}

type FeedbackRepository interface {
	// Upsert writes the single feedback row per (event, user).
	Upsert(feedback *models.EventFeedback) error
	ListByEvent(eventID int64) ([]FeedbackRecord, error)
}

type feedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Upsert(feedback *models.EventFeedback) error {
	ts := now()
	var id int64
	err := r.db.QueryRow(
		`SELECT id FROM event_feedback WHERE event_id = ? AND user_id = ?`,
		feedback.EventID, feedback.UserID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		feedback.CreatedAt = ts
		feedback.UpdatedAt = ts
		res, err := r.db.Exec(
			`INSERT INTO event_feedback (event_id, user_id, rating, feedback, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			feedback.EventID, feedback.UserID, feedback.Rating, feedback.Feedback, ts, ts,
		)
		if err != nil {
			return err
		}
		feedback.ID, err = res.LastInsertId()
		return err
	}
	if err != nil {
		return err
	}
	feedback.ID = id
	feedback.UpdatedAt = ts
	_, err = r.db.Exec(
		`UPDATE event_feedback SET rating = ?, feedback = ?, updated_at = ? WHERE id = ?`,
		feedback.Rating, feedback.Feedback, ts, id,
	)
	return err
}

func (r *feedbackRepository) ListByEvent(eventID int64) ([]FeedbackRecord, error) {
	rows, err := r.db.Query(
		`SELECT u.id, u.email, u.name, f.id, f.rating, f.feedback, f.created_at, f.updated_at
		 FROM event_feedback f
		 JOIN users u ON u.id = f.user_id
		 WHERE f.event_id = ?
		 ORDER BY f.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FeedbackRecord
	for rows.Next() {
		var rec FeedbackRecord
		var comment sql.NullString
		err := rows.Scan(&rec.User.ID, &rec.User.Email, &rec.User.Name,
			&rec.Feedback.ID, &rec.Feedback.Rating, &comment,
			&rec.Feedback.CreatedAt, &rec.Feedback.UpdatedAt)
		if err != nil {
			return nil, err
		}
		rec.Feedback.EventID = eventID
		rec.Feedback.UserID = rec.User.ID
		rec.Feedback.Feedback = comment.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
