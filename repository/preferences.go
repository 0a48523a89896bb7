package repository

import (
	"database/sql"

	"event-platform/models"
)

type PreferenceRepository interface {
	FindByUser(userID int64) (*models.UserPreference, error)
	// Upsert replaces the user's single preference row, creating it on
	// first update.
	Upsert(pref *models.UserPreference) error
}

type preferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) FindByUser(userID int64) (*models.UserPreference, error) {
	var p models.UserPreference
	err := r.db.QueryRow(
		`SELECT id, user_id, designation, preferred_category, allow_marketing_emails,
			allow_event_updates, allow_system_notifications, created_at, updated_at
		 FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.UserID, &p.Designation, &p.PreferredCategory,
		&p.AllowMarketingEmails, &p.AllowEventUpdates, &p.AllowSystemNotifications,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepository) Upsert(pref *models.UserPreference) error {
	ts := now()
	existing, err := r.FindByUser(pref.UserID)
	if err != nil {
		return err
	}
	if existing == nil {
		pref.CreatedAt = ts
		pref.UpdatedAt = ts
		res, err := r.db.Exec(
			`INSERT INTO user_preferences (user_id, designation, preferred_category,
				allow_marketing_emails, allow_event_updates, allow_system_notifications,
				created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			pref.UserID, pref.Designation, pref.PreferredCategory,
			pref.AllowMarketingEmails, pref.AllowEventUpdates, pref.AllowSystemNotifications,
			ts, ts,
		)
		if err != nil {
			return err
		}
		pref.ID, err = res.LastInsertId()
		return err
	}
	pref.ID = existing.ID
	pref.CreatedAt = existing.CreatedAt
	pref.UpdatedAt = ts
	_, err = r.db.Exec(
		`UPDATE user_preferences SET designation = ?, preferred_category = ?,
			allow_marketing_emails = ?, allow_event_updates = ?, allow_system_notifications = ?,
			updated_at = ?
		 WHERE id = ?`,
		pref.Designation, pref.PreferredCategory, pref.AllowMarketingEmails,
		pref.AllowEventUpdates, pref.AllowSystemNotifications, ts, existing.ID,
	)
	return err
}
