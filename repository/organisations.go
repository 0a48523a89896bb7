package repository

import (
	"database/sql"

	"event-platform/models"
)

type OrganisationRepository interface {
	Create(org *models.Organisation) error
	FindByID(id int64) (*models.Organisation, error)
	NameExists(name string) (bool, error)
	UpdateLogoURL(id int64, logoURL string) error
}

type organisationRepository struct {
	db *sql.DB
}

func NewOrganisationRepository(db *sql.DB) OrganisationRepository {
	return &organisationRepository{db: db}
}

func (r *organisationRepository) Create(org *models.Organisation) error {
	org.CreatedAt = now()
	org.UpdatedAt = org.CreatedAt
	res, err := r.db.Exec(
		`INSERT INTO organisations (name, description, email, tags, location, logo_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		org.Name, org.Description, org.Email, marshalStrings(org.Tags),
		org.Location, org.LogoURL, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return err
	}
	org.ID, err = res.LastInsertId()
	return err
}

func (r *organisationRepository) FindByID(id int64) (*models.Organisation, error) {
	var o models.Organisation
	var description, tags, location, logoURL sql.NullString
	err := r.db.QueryRow(
		`SELECT id, name, description, email, tags, location, logo_url, created_at, updated_at
		 FROM organisations WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &description, &o.Email, &tags, &location, &logoURL, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Description = description.String
	o.Tags = unmarshalStrings(tags)
	o.Location = location.String
	o.LogoURL = logoURL.String
	return &o, nil
}

func (r *organisationRepository) NameExists(name string) (bool, error) {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM organisations WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *organisationRepository) UpdateLogoURL(id int64, logoURL string) error {
	_, err := r.db.Exec(`UPDATE organisations SET logo_url = ?, updated_at = ? WHERE id = ?`,
		logoURL, now(), id)
	return err
}

// CommitteeMember joins a membership row with its user for listing.
type CommitteeMember struct {
	User        models.User
	Designation string
	IsFounder   bool
}

// UserOrganisation joins a membership row with its organisation.
type UserOrganisation struct {
	Organisation models.Organisation
	Designation  string
}

type CommitteeRepository interface {
	Add(member *models.OrganisationCommittee) error
	// Find returns the membership of a user in an organisation, or nil.
	Find(userID, organisationID int64) (*models.OrganisationCommittee, error)
	ListMembers(organisationID int64) ([]CommitteeMember, error)
	ListForUser(userID int64) ([]UserOrganisation, error)
	Remove(userID, organisationID int64) error
}

type committeeRepository struct {
	db *sql.DB
}

func NewCommitteeRepository(db *sql.DB) CommitteeRepository {
	return &committeeRepository{db: db}
}

func (r *committeeRepository) Add(member *models.OrganisationCommittee) error {
	member.CreatedAt = now()
	member.UpdatedAt = member.CreatedAt
	if member.Designation == "" {
		member.Designation = "Member"
	}
	res, err := r.db.Exec(
		`INSERT INTO organisation_committees (user_id, organisation_id, designation, is_founder, permissions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		member.UserID, member.OrganisationID, member.Designation, member.IsFounder,
		marshalMap(member.Permissions), member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		return err
	}
	member.ID, err = res.LastInsertId()
	return err
}

func (r *committeeRepository) Find(userID, organisationID int64) (*models.OrganisationCommittee, error) {
	var m models.OrganisationCommittee
	var permissions sql.NullString
	err := r.db.QueryRow(
		`SELECT id, user_id, organisation_id, designation, is_founder, permissions, created_at, updated_at
		 FROM organisation_committees WHERE user_id = ? AND organisation_id = ?`,
		userID, organisationID,
	).Scan(&m.ID, &m.UserID, &m.OrganisationID, &m.Designation, &m.IsFounder,
		&permissions, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Permissions = unmarshalMap(permissions)
	return &m, nil
}

func (r *committeeRepository) ListMembers(organisationID int64) ([]CommitteeMember, error) {
	rows, err := r.db.Query(
		`SELECT u.id, u.email, u.name, c.designation, c.is_founder
		 FROM organisation_committees c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.organisation_id = ?
		 ORDER BY c.id`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []CommitteeMember
	for rows.Next() {
		var m CommitteeMember
		if err := rows.Scan(&m.User.ID, &m.User.Email, &m.User.Name, &m.Designation, &m.IsFounder); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *committeeRepository) ListForUser(userID int64) ([]UserOrganisation, error) {
	rows, err := r.db.Query(
		`SELECT o.id, o.name, o.description, o.email, o.tags, o.location, o.logo_url,
		        o.created_at, o.updated_at, c.designation
		 FROM organisation_committees c
		 JOIN organisations o ON o.id = c.organisation_id
		 WHERE c.user_id = ?
		 ORDER BY c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []UserOrganisation
	for rows.Next() {
		var m UserOrganisation
		var description, tags, location, logoURL sql.NullString
		err := rows.Scan(&m.Organisation.ID, &m.Organisation.Name, &description,
			&m.Organisation.Email, &tags, &location, &logoURL,
			&m.Organisation.CreatedAt, &m.Organisation.UpdatedAt, &m.Designation)
		if err != nil {
			return nil, err
		}
		m.Organisation.Description = description.String
		m.Organisation.Tags = unmarshalStrings(tags)
		m.Organisation.Location = location.String
		m.Organisation.LogoURL = logoURL.String
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *committeeRepository) Remove(userID, organisationID int64) error {
	_, err := r.db.Exec(
		`DELETE FROM organisation_committees WHERE user_id = ? AND organisation_id = ?`,
		userID, organisationID,
	)
	return err
}
