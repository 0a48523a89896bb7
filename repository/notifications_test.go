package repository

import (
	"testing"
	"time"

	"event-platform/models"
	"event-platform/testutil"
)

func TestEventsNeedingReminder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	events := NewEventRepository(db)
	notifications := NewNotificationRepository(db)

	now := time.Now().UTC().Truncate(time.Second)

	soon := seedEvent(t, events, "starting soon", models.EventStatusPublished, now.Add(2*time.Hour), nil)
	far := seedEvent(t, events, "next week", models.EventStatusPublished, now.Add(7*24*time.Hour), nil)
	for _, e := range []*models.Event{soon, far} {
		if err := notifications.CreateDefault(e.ID); err != nil {
			t.Fatalf("create config: %v", err)
		}
	}
	// No notification config at all: invisible to the scan.
	seedEvent(t, events, "unconfigured", models.EventStatusPublished, now.Add(3*time.Hour), nil)

	due, err := notifications.EventsNeedingReminder(now, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(due) != 1 || due[0].ID != soon.ID {
		t.Fatalf("due = %v, want [%q]", eventNames(due), soon.Name)
	}
}

func TestClaimReminderOnlyOnce(t *testing.T) {
	db := testutil.OpenTestDB(t)
	events := NewEventRepository(db)
	notifications := NewNotificationRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	event := seedEvent(t, events, "starting soon", models.EventStatusPublished, now.Add(time.Hour), nil)
	if err := notifications.CreateDefault(event.ID); err != nil {
		t.Fatalf("create config: %v", err)
	}

	claimed, err := notifications.ClaimReminder(event.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed {
		t.Fatal("first claim refused")
	}

	claimed, err = notifications.ClaimReminder(event.ID)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if claimed {
		t.Fatal("reminder claimed twice")
	}

	due, err := notifications.EventsNeedingReminder(now, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("due = %v after claim, want none", eventNames(due))
	}
}
