package controllers

import (
	"net/http"
	"testing"
	"time"

	"event-platform/models"
)

func TestCreateEvent(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	status, payload := doJSON(t, c.CreateEvent(), http.MethodPost, map[string]interface{}{
		"name":           "GopherCon Meetup",
		"description":    "monthly meetup",
		"start_datetime": start,
		"end_datetime":   start.Add(3 * time.Hour),
		"category":       "coding",
		"tags":           []string{"go", "meetup"},
		"type":           models.EventTypeOffline,
		"location":       "Berlin",
	}, founder, orgVars(org))
	if status != http.StatusCreated {
		t.Fatalf("status = %d, payload = %v", status, payload)
	}

	details, ok := payload["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("no details in payload: %v", payload)
	}
	if details["status"] != models.EventStatusDraft {
		t.Errorf("status = %v, want draft", details["status"])
	}
	if _, present := details["scan_id"]; present {
		t.Error("scan_id leaked into public details")
	}

	eventID := int64(details["id"].(float64))
	cfg, err := c.Repos.Notifications.FindByEvent(eventID)
	if err != nil {
		t.Fatalf("load notification config: %v", err)
	}
	if cfg == nil {
		t.Error("no default notification config created")
	}

	event, err := c.Repos.Events.FindByID(eventID)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if len(event.ScanID) != 6 {
		t.Errorf("scan id = %q, want 6 digits", event.ScanID)
	}
}

func TestCreateEventOutsideCommittee(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	outsider := createTestUser(t, c, "outsider@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	status, payload := doJSON(t, c.CreateEvent(), http.MethodPost, map[string]interface{}{
		"name":           "Sneaky Event",
		"start_datetime": start,
		"end_datetime":   start.Add(time.Hour),
		"category":       "coding",
		"type":           models.EventTypeOnline,
	}, outsider, orgVars(org))
	// Membership is not disclosed; the organisation simply does not
	// exist for outsiders.
	if status != http.StatusNotFound || payload["error"] != "Organisation not found" {
		t.Fatalf("status = %d, payload = %v", status, payload)
	}
}

func TestEditEventCommitteeGuard(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	outsider := createTestUser(t, c, "outsider@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")
	event := createTestEvent(t, c, org, founder, models.EventStatusDraft)

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	body := map[string]interface{}{
		"name":           "Renamed",
		"start_datetime": start,
		"end_datetime":   start.Add(time.Hour),
		"category":       "business",
		"type":           models.EventTypeOffline,
	}

	status, payload := doJSON(t, c.EditEvent(), http.MethodPut, body, outsider, eventVars(event))
	if status != http.StatusForbidden || payload["error"] != "Permission Denied" {
		t.Fatalf("outsider edit: status = %d, payload = %v", status, payload)
	}

	status, payload = doJSON(t, c.EditEvent(), http.MethodPut, body, founder, eventVars(event))
	if status != http.StatusOK {
		t.Fatalf("founder edit: status = %d, payload = %v", status, payload)
	}

	reloaded, err := c.Repos.Events.FindByID(event.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", reloaded.Name)
	}
}

func TestPublishEvent(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")
	event := createTestEvent(t, c, org, founder, models.EventStatusDraft)

	status, _ := doJSON(t, c.PublishEvent(), http.MethodPost, nil, founder, eventVars(event))
	if status != http.StatusOK {
		t.Fatalf("publish: status = %d", status)
	}

	reloaded, err := c.Repos.Events.FindByID(event.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.EventStatusPublished {
		t.Errorf("status = %q, want published", reloaded.Status)
	}

	// Publishing a canceled event brings it back.
	if err := c.Repos.Events.SetStatus(event.ID, models.EventStatusCanceled); err != nil {
		t.Fatalf("set canceled: %v", err)
	}
	status, _ = doJSON(t, c.PublishEvent(), http.MethodPost, nil, founder, eventVars(event))
	if status != http.StatusOK {
		t.Fatalf("republish: status = %d", status)
	}
	reloaded, _ = c.Repos.Events.FindByID(event.ID)
	if reloaded.Status != models.EventStatusPublished {
		t.Errorf("status = %q after republish, want published", reloaded.Status)
	}
}

func TestCancelEventNotifiesAttendees(t *testing.T) {
	c, mail := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	attendee := createTestUser(t, c, "attendee@example.com")
	optedOut := createTestUser(t, c, "optedout@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")
	event := createTestEvent(t, c, org, founder, models.EventStatusPublished)

	for _, u := range []*models.User{attendee, optedOut} {
		if _, err := c.Repos.Attendees.GetOrCreate(event.ID, u.ID); err != nil {
			t.Fatalf("rsvp: %v", err)
		}
	}
	if err := c.Repos.Preferences.Upsert(&models.UserPreference{
		UserID:            optedOut.ID,
		AllowEventUpdates: false,
	}); err != nil {
		t.Fatalf("save preference: %v", err)
	}

	status, _ := doJSON(t, c.CancelEvent(), http.MethodPost, nil, founder, eventVars(event))
	if status != http.StatusOK {
		t.Fatalf("cancel: status = %d", status)
	}

	reloaded, _ := c.Repos.Events.FindByID(event.ID)
	if reloaded.Status != models.EventStatusCanceled {
		t.Errorf("status = %q, want canceled", reloaded.Status)
	}

	sent := mail.Cancellations[event.ID]
	if len(sent) != 1 || sent[0] != "attendee@example.com" {
		t.Errorf("cancellation recipients = %v, want [attendee@example.com]", sent)
	}
}

func TestRSVPIsIdempotent(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	guest := createTestUser(t, c, "guest@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")
	event := createTestEvent(t, c, org, founder, models.EventStatusPublished)

	for i := 0; i < 2; i++ {
		status, _ := doJSON(t, c.RSVP(), http.MethodPost, nil, guest, eventVars(event))
		if status != http.StatusOK {
			t.Fatalf("rsvp attempt %d: status = %d", i+1, status)
		}
	}
	count, err := c.Repos.Attendees.CountByEvent(event.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("attendee count = %d, want 1", count)
	}

	status, _ := doJSON(t, c.RemoveRSVP(), http.MethodDelete, nil, guest, eventVars(event))
	if status != http.StatusOK {
		t.Fatalf("remove: status = %d", status)
	}
	// Removing again is still fine.
	status, _ = doJSON(t, c.RemoveRSVP(), http.MethodDelete, nil, guest, eventVars(event))
	if status != http.StatusOK {
		t.Fatalf("second remove: status = %d", status)
	}
}

func TestMarkPresent(t *testing.T) {
	c, mail := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	guest := createTestUser(t, c, "guest@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")
	event := createTestEvent(t, c, org, founder, models.EventStatusPublished)

	// Wrong scan code: the (id, code) pair does not resolve.
	status, payload := doJSON(t, c.MarkPresent(), http.MethodPost, map[string]interface{}{
		"event_id": event.ID,
		"scan_id":  "999999",
	}, guest, nil)
	if status != http.StatusNotFound || payload["error"] != "Event not found" {
		t.Fatalf("wrong scan id: status = %d, payload = %v", status, payload)
	}

	// No RSVP yet.
	status, payload = doJSON(t, c.MarkPresent(), http.MethodPost, map[string]interface{}{
		"event_id": event.ID,
		"scan_id":  event.ScanID,
	}, guest, nil)
	if status != http.StatusNotFound || payload["error"] != "Attendee not found" {
		t.Fatalf("no rsvp: status = %d, payload = %v", status, payload)
	}

	if _, err := c.Repos.Attendees.GetOrCreate(event.ID, guest.ID); err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	status, _ = doJSON(t, c.MarkPresent(), http.MethodPost, map[string]interface{}{
		"event_id": event.ID,
		"scan_id":  event.ScanID,
	}, guest, nil)
	if status != http.StatusOK {
		t.Fatalf("checkin: status = %d", status)
	}

	attendee, err := c.Repos.Attendees.Find(event.ID, guest.ID)
	if err != nil {
		t.Fatalf("reload attendee: %v", err)
	}
	if attendee == nil || !attendee.IsPresent {
		t.Errorf("attendee = %+v, want present", attendee)
	}
	if len(mail.ThankYous) != 1 || mail.ThankYous[0] != "guest@example.com" {
		t.Errorf("thank-you mails = %v, want [guest@example.com]", mail.ThankYous)
	}

	// Repeat check-in stays OK and does not mail again.
	status, _ = doJSON(t, c.MarkPresent(), http.MethodPost, map[string]interface{}{
		"event_id": event.ID,
		"scan_id":  event.ScanID,
	}, guest, nil)
	if status != http.StatusOK {
		t.Fatalf("repeat checkin: status = %d", status)
	}
	if len(mail.ThankYous) != 1 {
		t.Errorf("thank-you mails = %v after repeat checkin, want one", mail.ThankYous)
	}
}

func TestGetScanID(t *testing.T) {
	c, _ := newTestController(t)
	founder := createTestUser(t, c, "founder@example.com")
	outsider := createTestUser(t, c, "outsider@example.com")
	org := createTestOrganisation(t, c, founder, "Go Berlin")
	event := createTestEvent(t, c, org, founder, models.EventStatusPublished)

	status, payload := doJSON(t, c.GetScanID(), http.MethodGet, nil, outsider, eventVars(event))
	if status != http.StatusForbidden {
		t.Fatalf("outsider: status = %d, payload = %v", status, payload)
	}

	status, payload = doJSON(t, c.GetScanID(), http.MethodGet, nil, founder, eventVars(event))
	if status != http.StatusOK || payload["scan_id"] != event.ScanID {
		t.Fatalf("founder: status = %d, payload = %v", status, payload)
	}
}
