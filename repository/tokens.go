package repository

import (
	"database/sql"

	"event-platform/models"
)

type TokenRepository interface {
	Create(token *models.AuthToken) error
	// FindPair returns the token row matching both credentials, or nil.
	FindPair(authToken, deviceToken string) (*models.AuthToken, error)
	TouchLastUsed(id int64) error
	DeletePair(authToken, deviceToken string) error
}

type tokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *models.AuthToken) error {
	token.CreatedAt = now()
	res, err := r.db.Exec(
		`INSERT INTO user_auth_tokens (user_id, auth_token, device_token, type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		token.UserID, token.AuthToken, token.DeviceToken, token.Type, token.CreatedAt,
	)
	if err != nil {
		return err
	}
	token.ID, err = res.LastInsertId()
	return err
}

func (r *tokenRepository) FindPair(authToken, deviceToken string) (*models.AuthToken, error) {
	var t models.AuthToken
	var lastUsed sql.NullTime
	err := r.db.QueryRow(
		`SELECT id, user_id, auth_token, device_token, type, created_at, last_used_at
		 FROM user_auth_tokens WHERE auth_token = ? AND device_token = ?`,
		authToken, deviceToken,
	).Scan(&t.ID, &t.UserID, &t.AuthToken, &t.DeviceToken, &t.Type, &t.CreatedAt, &lastUsed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		t.LastUsedAt = &lastUsed.Time
	}
	return &t, nil
}

func (r *tokenRepository) TouchLastUsed(id int64) error {
	_, err := r.db.Exec(`UPDATE user_auth_tokens SET last_used_at = ? WHERE id = ?`, now(), id)
	return err
}

func (r *tokenRepository) DeletePair(authToken, deviceToken string) error {
	_, err := r.db.Exec(
		`DELETE FROM user_auth_tokens WHERE auth_token = ? AND device_token = ?`,
		authToken, deviceToken,
	)
	return err
}

type OTPRepository interface {
	Create(email, otp string) error
	// LatestByEmail returns the most recent code on file, or nil.
	LatestByEmail(email string) (*models.VerificationOTP, error)
}

type otpRepository struct {
	db *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(email, otp string) error {
	_, err := r.db.Exec(
		`INSERT INTO user_verification_otps (email, otp, created_at) VALUES (?, ?, ?)`,
		email, otp, now(),
	)
	return err
}

func (r *otpRepository) LatestByEmail(email string) (*models.VerificationOTP, error) {
	var v models.VerificationOTP
	err := r.db.QueryRow(
		`SELECT id, email, otp, created_at FROM user_verification_otps
		 WHERE email = ? ORDER BY id DESC LIMIT 1`,
		email,
	).Scan(&v.ID, &v.Email, &v.OTP, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
