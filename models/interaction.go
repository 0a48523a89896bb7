package models

import "time"

const (
	InteractionLike    = "like"
	InteractionComment = "comment"
	InteractionShare   = "share"
	InteractionView    = "view"
)

type EventInteraction struct {
	ID              int64                  `json:"id"`
	EventID         int64                  `json:"event_id"`
	UserID          int64                  `json:"user_id"`
	InteractionType string                 `json:"interaction_type"`
	InteractionData map[string]interface{} `json:"interaction_data"`
	CreatedAt       time.Time              `json:"created_at"`
}
