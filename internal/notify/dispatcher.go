package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/yardpoint/pipeyardgo/internal/database"
	"github.com/yardpoint/pipeyardgo/internal/models"
)

// Event kinds written to the outbox
const (
	KindLoadCompleted   = "load.completed"
	KindLoadOutbound    = "load.outbound"
	KindRequestApproved = "request.approved"
	KindRequestRejected = "request.rejected"
	KindRackAdjusted    = "rack.adjusted"
)

// Dispatcher records workflow events in the outbox and pushes them to the
// hub. Callers invoke Dispatch only after their unit of work has committed.
type Dispatcher struct {
	db  *database.DB
	hub *Hub
}

// NewDispatcher creates a dispatcher
func NewDispatcher(db *database.DB, hub *Hub) *Dispatcher {
	return &Dispatcher{db: db, hub: hub}
}

// Dispatch persists an outbox row and broadcasts the event. Failures are
// logged and swallowed: the underlying workflow change is already committed
// and must not appear to fail because a notification did.
func (d *Dispatcher) Dispatch(kind string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Warnf("notification payload for %s not serializable: %v", kind, err)
		return
	}

	now := time.Now().UTC()
	row := models.NotificationOutbox{
		ID:           uuid.New(),
		Kind:         kind,
		Payload:      body,
		DispatchedAt: &now,
	}
	if err := d.db.Create(&row).Error; err != nil {
		log.Warnf("failed to record %s notification: %v", kind, err)
		// Still broadcast; the outbox is the durable trail, not a gate.
	}

	d.hub.Broadcast(map[string]interface{}{
		"type":    kind,
		"payload": payload,
		"sent_at": now,
	})
}
