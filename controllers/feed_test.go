package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"event-platform/middleware"
	"event-platform/models"
)

func feedRequest(t *testing.T, handler http.HandlerFunc, url string, user *models.User) map[string]interface{} {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, url, nil)
	if user != nil {
		r = middleware.WithUser(r, user)
	}
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return payload
}

func TestPublicFeedPagination(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")

	for i := 0; i < 27; i++ {
		createTestEvent(t, c, org, founder, models.EventStatusPublished)
	}
	// Drafts stay out of the feed.
	createTestEvent(t, c, org, founder, models.EventStatusDraft)

	payload := feedRequest(t, c.PublicFeed(), "/feed", nil)
	if payload["count"].(float64) != 27 {
		t.Errorf("count = %v, want 27", payload["count"])
	}
	if payload["total_pages"].(float64) != 2 {
		t.Errorf("total_pages = %v, want 2", payload["total_pages"])
	}
	if len(payload["events"].([]interface{})) != 25 {
		t.Errorf("page size = %d, want 25", len(payload["events"].([]interface{})))
	}

	page2 := feedRequest(t, c.PublicFeed(), "/feed?page=2", nil)
	if len(page2["events"].([]interface{})) != 2 {
		t.Errorf("page 2 size = %d, want 2", len(page2["events"].([]interface{})))
	}

	// Public entries carry no per-user flags.
	first := payload["events"].([]interface{})[0].(map[string]interface{})
	if _, present := first["rsvped"]; present {
		t.Error("public feed carries rsvped flag")
	}
}

func TestPersonalisedFeedFlags(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	guest := createTestUser(t, c, "guest@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")
	event := createTestEvent(t, c, org, founder, models.EventStatusPublished)

	if _, err := c.Repos.Attendees.GetOrCreate(event.ID, guest.ID); err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	if err := c.Repos.Interactions.GetOrCreate(&models.EventInteraction{
		EventID:         event.ID,
		UserID:          guest.ID,
		InteractionType: models.InteractionLike,
	}); err != nil {
		t.Fatalf("like: %v", err)
	}

	payload := feedRequest(t, c.PersonalisedFeed(), "/feed", guest)
	events := payload["events"].([]interface{})
	if len(events) != 1 {
		t.Fatalf("feed size = %d, want 1", len(events))
	}
	entry := events[0].(map[string]interface{})
	if entry["has_liked"] != true {
		t.Errorf("has_liked = %v, want true", entry["has_liked"])
	}
	if entry["rsvped"] != true {
		t.Errorf("rsvped = %v, want true", entry["rsvped"])
	}
	if entry["attended"] != false {
		t.Errorf("attended = %v, want false", entry["attended"])
	}

	if err := c.Repos.Attendees.MarkPresent(event.ID, guest.ID); err != nil {
		t.Fatalf("mark present: %v", err)
	}
	payload = feedRequest(t, c.PersonalisedFeed(), "/feed", guest)
	entry = payload["events"].([]interface{})[0].(map[string]interface{})
	if entry["attended"] != true {
		t.Errorf("attended = %v after checkin, want true", entry["attended"])
	}
}
