package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RackMode defines how a rack accounts for occupancy
type RackMode string

const (
	// RackModeLinear tracks occupancy as a running total of joint counts
	RackModeLinear RackMode = "LINEAR_CAPACITY"
	// RackModeSlot treats the rack as a single slot, claimed whole or free
	RackModeSlot RackMode = "SLOT"
)

// Rack represents a physical storage rack in the yard.
// Occupancy is tracked in two parallel units: discrete joints and metres of
// pipe. Occupancy is only ever mutated through the allocation guard or the
// audited manual-adjustment path; the racks table additionally carries CHECK
// constraints keeping occupied within [0, capacity] in both units.
type Rack struct {
	Code           string          `gorm:"primaryKey;type:varchar(32)" json:"code"` // area-row-slot, e.g. "A-1-03"
	AreaID         string          `gorm:"type:varchar(16);not null;index" json:"area_id"`
	Mode           RackMode        `gorm:"type:varchar(20);not null;default:'LINEAR_CAPACITY'" json:"mode"`
	CapacityJoints int             `gorm:"not null" json:"capacity_joints"`
	CapacityLength decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"capacity_length_m"`
	OccupiedJoints int             `gorm:"not null;default:0" json:"occupied_joints"`
	OccupiedLength decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"occupied_length_m"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Rack model
func (Rack) TableName() string {
	return "racks"
}

// AvailableJoints returns the remaining joint capacity
func (r *Rack) AvailableJoints() int {
	return r.CapacityJoints - r.OccupiedJoints
}

// AvailableLength returns the remaining length capacity in metres
func (r *Rack) AvailableLength() decimal.Decimal {
	return r.CapacityLength.Sub(r.OccupiedLength)
}
