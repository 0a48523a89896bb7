package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"event-platform/config"
	"event-platform/middleware"
	"event-platform/models"
	"event-platform/repository"
	"event-platform/testutil"
	"event-platform/utils"
)

// stubMailer records outgoing mail instead of talking to an SMTP
// server.
type stubMailer struct {
	OTPs          []string
	Welcomes      []string
	Reminders     map[int64][]string
	Cancellations map[int64][]string
	Updates       map[int64][]string
	ThankYous     []string
}

func newStubMailer() *stubMailer {
	return &stubMailer{
		Reminders:     map[int64][]string{},
		Cancellations: map[int64][]string{},
		Updates:       map[int64][]string{},
	}
}

func (m *stubMailer) SendVerificationOTP(to, name, otp string) error {
	m.OTPs = append(m.OTPs, otp)
	return nil
}

func (m *stubMailer) SendWelcome(to, name string) error {
	m.Welcomes = append(m.Welcomes, to)
	return nil
}

func (m *stubMailer) SendEventReminder(event *models.Event, recipients []string) error {
	m.Reminders[event.ID] = append(m.Reminders[event.ID], recipients...)
	return nil
}

func (m *stubMailer) SendEventCancellation(event *models.Event, recipients []string) error {
	m.Cancellations[event.ID] = append(m.Cancellations[event.ID], recipients...)
	return nil
}

func (m *stubMailer) SendEventUpdate(event *models.Event, recipients []string) error {
	m.Updates[event.ID] = append(m.Updates[event.ID], recipients...)
	return nil
}

func (m *stubMailer) SendThankYou(event *models.Event, to string) error {
	m.ThankYous = append(m.ThankYous, to)
	return nil
}

func newTestController(t *testing.T) (*Controller, *stubMailer) {
	t.Helper()

	db := testutil.OpenTestDB(t)
	repos := repository.New(db)
	mail := newStubMailer()
	cfg := &config.Config{
		FrontendBaseURL: "http://localhost:3000",
		APIBaseURL:      "http://localhost:8000",
	}
	return New(cfg, repos, mail, nil), mail
}

func createTestUser(t *testing.T, c *Controller, email string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     "Sam",
		IsActive: true,
	}
	if err := c.Repos.Users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestOrganisation(t *testing.T, c *Controller, founder *models.User, name string) *models.Organisation {
	t.Helper()

	org := &models.Organisation{
		Name:  name,
		Email: "org@example.com",
	}
	if err := c.Repos.Organisations.Create(org); err != nil {
		t.Fatalf("create organisation: %v", err)
	}
	member := &models.OrganisationCommittee{
		UserID:         founder.ID,
		OrganisationID: org.ID,
		Designation:    "Founder",
		IsFounder:      true,
	}
	if err := c.Repos.Committees.Add(member); err != nil {
		t.Fatalf("add founder: %v", err)
	}
	return org
}

func createTestEvent(t *testing.T, c *Controller, org *models.Organisation, creator *models.User, status string) *models.Event {
	t.Helper()

	start := time.Now().UTC().Truncate(time.Second).Add(2 * time.Hour)
	event := &models.Event{
		OrganisationID: org.ID,
		Name:           "Launch Party",
		ScanID:         "314159",
		Description:    "annual launch",
		StartDatetime:  start,
		EndDatetime:    start.Add(2 * time.Hour),
		Category:       "business",
		Tags:           []string{"launch"},
		Type:           models.EventTypeOffline,
		Location:       "HQ",
		Status:         status,
		CreatedBy:      creator.ID,
	}
	if err := c.Repos.Events.Create(event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := c.Repos.Notifications.CreateDefault(event.ID); err != nil {
		t.Fatalf("create notification config: %v", err)
	}
	return event
}

// doJSON runs a handler with a JSON body, optional authenticated user
// and optional path variables, and decodes the response.
func doJSON(t *testing.T, handler http.HandlerFunc, method string, body interface{},
	user *models.User, vars map[string]string) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, "/", &buf)
	if user != nil {
		r = middleware.WithUser(r, user)
	}
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}

	w := httptest.NewRecorder()
	handler(w, r)

	var payload map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, payload
}

func TestHealthz(t *testing.T) {
	db := testutil.OpenTestDB(t)
	handler := Healthz(db)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d with live database, want 200", w.Code)
	}

	db.Close()
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d with closed database, want 503", w.Code)
	}
}

func eventVars(event *models.Event) map[string]string {
	return map[string]string{"event_id": strconv.FormatInt(event.ID, 10)}
}

func orgVars(org *models.Organisation) map[string]string {
	return map[string]string{"organisation_id": strconv.FormatInt(org.ID, 10)}
}
