package models

// Error is the JSON error envelope: a message and, where applicable,
// the offending field.
type Error struct {
	Message string `json:"error"`
	Field   string `json:"field,omitempty"`
}
