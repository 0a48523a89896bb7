package controllers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"event-platform/config"
	"event-platform/mailer"
	"event-platform/models"
	"event-platform/repository"
	"event-platform/utils"
)

// Controller carries the dependencies shared by every handler: the
// startup configuration, the repositories and the mailer. Handlers are
// methods returning http.HandlerFunc.
type Controller struct {
	Cfg      *config.Config
	Repos    *repository.Repositories
	Mailer   mailer.Mailer
	Uploader *utils.S3Uploader
}

func New(cfg *config.Config, repos *repository.Repositories, m mailer.Mailer, uploader *utils.S3Uploader) *Controller {
	return &Controller{Cfg: cfg, Repos: repos, Mailer: m, Uploader: uploader}
}

// pathID extracts a numeric path variable.
func pathID(r *http.Request, name string) (int64, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// issueTokens mints and persists a credential pair for the user and
// builds the login payload.
func (c *Controller) issueTokens(user *models.User) (map[string]interface{}, error) {
	pair, err := utils.GenerateTokenPair()
	if err != nil {
		return nil, err
	}
	token := &models.AuthToken{
		UserID:      user.ID,
		AuthToken:   pair.AuthToken,
		DeviceToken: pair.DeviceToken,
		Type:        models.TokenTypeWeb,
	}
	if err := c.Repos.Tokens.Create(token); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"tokens":       pair,
		"user_details": user.Details(),
	}, nil
}

// committeeMember checks the caller's membership of an organisation.
func (c *Controller) committeeMember(user *models.User, organisationID int64) (bool, error) {
	member, err := c.Repos.Committees.Find(user.ID, organisationID)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}

func serverError(w http.ResponseWriter) {
	utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error"})
}

// Healthz reports 200 only while the database answers a ping.
func Healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable,
				models.Error{Message: "Database unavailable"})
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
