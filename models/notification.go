package models

import "time"

// EventNotificationConfig carries per-event notification settings and
// the sent flag that keeps the reminder scan idempotent.
type EventNotificationConfig struct {
	ID                 int64                  `json:"id"`
	EventID            int64                  `json:"event_id"`
	NotificationConfig map[string]interface{} `json:"notification_config"`
	ReminderMailSent   bool                   `json:"reminder_mail_sent"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}
