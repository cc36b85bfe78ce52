package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationOutbox holds workflow events waiting for best-effort dispatch.
// Rows are written after the workflow transaction commits, never inside it,
// so a dispatch outage can neither block nor roll back a committed change.
type NotificationOutbox struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind         string         `gorm:"type:varchar(50);not null;index" json:"kind"` // load.completed, rack.adjusted, ...
	Payload      datatypes.JSON `json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
	DispatchedAt *time.Time     `gorm:"index" json:"dispatched_at,omitempty"`
}

// TableName specifies the table name for NotificationOutbox model
func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}
