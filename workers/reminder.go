// Package workers holds the background jobs that run alongside the
// HTTP server.
package workers

import (
	"context"
	"log"
	"time"

	"event-platform/mailer"
	"event-platform/metrics"
	"event-platform/repository"
)

// ReminderWorker periodically scans for events starting within the
// next 24 hours and mails their attendees once per event.
type ReminderWorker struct {
	repos    *repository.Repositories
	mailer   mailer.Mailer
	interval time.Duration
}

func NewReminderWorker(repos *repository.Repositories, m mailer.Mailer, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{repos: repos, mailer: m, interval: interval}
}

// Run scans on a fixed interval until the context is canceled.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("reminder worker started, interval %s", w.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("reminder worker stopped")
			return
		case <-ticker.C:
			w.ScanOnce(time.Now().UTC())
		}
	}
}

// ScanOnce runs a single reminder pass. Each event's reminder flag is
// claimed before sending so concurrent scans cannot double-send.
func (w *ReminderWorker) ScanOnce(now time.Time) {
	metrics.ReminderScans.Inc()

	events, err := w.repos.Notifications.EventsNeedingReminder(now, now.Add(24*time.Hour))
	if err != nil {
		log.Printf("reminder scan failed: %v", err)
		return
	}

	for i := range events {
		event := &events[i]

		claimed, err := w.repos.Notifications.ClaimReminder(event.ID)
		if err != nil {
			log.Printf("failed to claim reminder for event %d: %v", event.ID, err)
			continue
		}
		if !claimed {
			continue
		}

		emails, err := w.repos.Attendees.EmailsByEvent(event.ID)
		if err != nil {
			log.Printf("failed to list attendee emails for event %d: %v", event.ID, err)
			continue
		}
		if len(emails) == 0 {
			continue
		}

		if err := w.mailer.SendEventReminder(event, emails); err != nil {
			log.Printf("failed to send reminders for event %d: %v", event.ID, err)
			continue
		}
		metrics.RemindersSent.Inc()
		metrics.EmailsSent.Add(float64(len(emails)))
	}
}
