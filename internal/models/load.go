package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoadDirection defines whether a trucking load brings pipe in or takes it out
type LoadDirection string

const (
	LoadInbound  LoadDirection = "INBOUND"
	LoadOutbound LoadDirection = "OUTBOUND"
)

// LoadStatus defines the lifecycle state of a trucking load
type LoadStatus string

const (
	LoadStatusNew       LoadStatus = "NEW"
	LoadStatusApproved  LoadStatus = "APPROVED"
	LoadStatusInTransit LoadStatus = "IN_TRANSIT"
	LoadStatusCompleted LoadStatus = "COMPLETED"
	LoadStatusCancelled LoadStatus = "CANCELLED"
)

// TruckingLoad represents one truck movement into or out of the yard.
// Sequence numbers are dense and scoped to (request, direction); the unique
// index makes concurrent bookings of the same request serialize instead of
// producing duplicate sequence numbers.
type TruckingLoad struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_load_seq,priority:1;index" json:"request_id"`
	Direction LoadDirection `gorm:"type:varchar(10);not null;uniqueIndex:idx_load_seq,priority:2" json:"direction"`
	Sequence  int           `gorm:"not null;uniqueIndex:idx_load_seq,priority:3" json:"sequence"`
	Status    LoadStatus    `gorm:"type:varchar(20);not null;default:'NEW';index" json:"status"`

	// Scheduled time window
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`

	// Planned vs actual quantities
	PlannedJoints int              `json:"planned_joints"`
	PlannedLength decimal.Decimal  `gorm:"type:numeric(12,2)" json:"planned_length_m"`
	ActualJoints  *int             `json:"actual_joints,omitempty"`
	ActualLength  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"actual_length_m,omitempty"`

	RackCode    *string    `gorm:"type:varchar(32);index" json:"rack_code,omitempty"`
	ManifestID  *uuid.UUID `gorm:"type:uuid;index" json:"manifest_id,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID `gorm:"type:uuid" json:"completed_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Request  *StorageRequest   `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	Rack     *Rack             `gorm:"foreignKey:RackCode;references:Code" json:"rack,omitempty"`
	Manifest *ManifestDocument `gorm:"foreignKey:ManifestID" json:"manifest,omitempty"`
}

// TableName specifies the table name for TruckingLoad model
func (TruckingLoad) TableName() string {
	return "trucking_loads"
}

// Terminal reports whether the load is in a terminal state
func (l *TruckingLoad) Terminal() bool {
	return l.Status == LoadStatusCompleted || l.Status == LoadStatusCancelled
}
