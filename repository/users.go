package repository

import (
	"database/sql"

	"event-platform/models"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id int64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	List() ([]models.User, error)
	MarkEmailVerified(email string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password, name, mobile_no, location, latitude, longitude,
	email_verified, is_staff, is_superuser, is_active, date_joined`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var mobile, location sql.NullString
	var lat, lng sql.NullFloat64
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &mobile, &location, &lat, &lng,
		&u.EmailVerified, &u.IsStaff, &u.IsSuperuser, &u.IsActive, &u.DateJoined)
	if err != nil {
		return nil, err
	}
	u.MobileNo = mobile.String
	u.Location = location.String
	if lat.Valid {
		u.Latitude = &lat.Float64
	}
	if lng.Valid {
		u.Longitude = &lng.Float64
	}
	return &u, nil
}

func (r *userRepository) Create(user *models.User) error {
	user.DateJoined = now()
	res, err := r.db.Exec(
		`INSERT INTO users (email, password, name, mobile_no, location, latitude, longitude,
			email_verified, is_staff, is_superuser, is_active, date_joined)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email, user.Password, user.Name, user.MobileNo, user.Location,
		user.Latitude, user.Longitude,
		user.EmailVerified, user.IsStaff, user.IsSuperuser, user.IsActive, user.DateJoined,
	)
	if err != nil {
		return err
	}
	user.ID, err = res.LastInsertId()
	return err
}

func (r *userRepository) FindByID(id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM users WHERE email = ?`, email).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) List() ([]models.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) MarkEmailVerified(email string) error {
	_, err := r.db.Exec(`UPDATE users SET email_verified = ? WHERE email = ?`, true, email)
	return err
}
