package audit

import "time"

const EntityOrder = "ORDER"

type Entry struct {
	ID         int64     `json:"id,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	UserID     *int64    `json:"user_id,omitempty"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value"`
	CreatedAt  time.Time `json:"created_at"`
}
