package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentSource distinguishes manual corrections from system-driven writes
type AdjustmentSource string

const (
	AdjustmentManual AdjustmentSource = "MANUAL"
	AdjustmentSystem AdjustmentSource = "SYSTEM"
)

// RackAdjustment is the append-only audit trail for rack occupancy
// corrections. Every manual occupancy write inserts exactly one of these in
// the same transaction as the rack update; rows are never updated or deleted.
type RackAdjustment struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RackCode      string           `gorm:"type:varchar(32);not null;index" json:"rack_code"`
	ActorID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"actor_id"`
	Source        AdjustmentSource `gorm:"type:varchar(10);not null;default:'MANUAL'" json:"source"`
	BeforeJoints  int              `gorm:"not null" json:"before_joints"`
	AfterJoints   int              `gorm:"not null" json:"after_joints"`
	BeforeLength  decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"before_length_m"`
	AfterLength   decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"after_length_m"`
	Justification string           `gorm:"type:text;not null" json:"justification"`
	CreatedAt     time.Time        `json:"created_at"`

	// Relations
	Rack *Rack `gorm:"foreignKey:RackCode;references:Code" json:"rack,omitempty"`
}

// TableName specifies the table name for RackAdjustment model
func (RackAdjustment) TableName() string {
	return "rack_adjustments"
}
