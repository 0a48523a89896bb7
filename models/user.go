package models

import "time"

type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	Name          string     `json:"name"`
	MobileNo      string     `json:"mobile_no,omitempty"`
	Location      string     `json:"location,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	IsStaff       bool       `json:"is_staff"`
	IsSuperuser   bool       `json:"is_superuser"`
	IsActive      bool       `json:"is_active"`
	DateJoined    time.Time  `json:"date_joined"`
}

// Details maps a user onto the full response payload.
func (u *User) Details() map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"email_verified": u.EmailVerified,
		"location":       u.Location,
		"latitude":       u.Latitude,
		"longitude":      u.Longitude,
		"mobile_no":      u.MobileNo,
		"is_active":      u.IsActive,
		"is_staff":       u.IsStaff,
		"is_superuser":   u.IsSuperuser,
		"date_joined":    u.DateJoined,
	}
}

// Condensed maps a user onto the short payload embedded in lists and
// foreign entities.
func (u *User) Condensed() map[string]interface{} {
	return map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	}
}
