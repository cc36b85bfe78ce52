package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus defines the lifecycle state of an inventory item group
type ItemStatus string

const (
	ItemStatusPendingDelivery ItemStatus = "PENDING_DELIVERY"
	ItemStatusInStorage       ItemStatus = "IN_STORAGE"
	ItemStatusInTransit       ItemStatus = "IN_TRANSIT"
	ItemStatusPickedUp        ItemStatus = "PICKED_UP"
)

// InventoryItem represents a group of joints sharing one manifest line.
// Rows are append-only history: a pickup flips status to PICKED_UP, it never
// deletes. The sum of IN_STORAGE quantities per rack and the rack's reported
// occupancy are two views of the same fact, kept consistent because both are
// written inside the same unit of work.
type InventoryItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	RequestID uuid.UUID  `gorm:"type:uuid;not null;index" json:"request_id"`
	RackCode  *string    `gorm:"type:varchar(32);index" json:"rack_code,omitempty"`
	Status    ItemStatus `gorm:"type:varchar(20);not null;default:'PENDING_DELIVERY';index" json:"status"`
	Quantity  int        `gorm:"not null" json:"quantity"`

	// Physical attributes, copied from the manifest line at load completion
	PipeType     string          `gorm:"type:varchar(50);not null" json:"pipe_type"`
	Grade        string          `gorm:"type:varchar(20)" json:"grade"`
	DiameterIn   decimal.Decimal `gorm:"type:numeric(6,3)" json:"diameter_in"`
	UnitWeightKg decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_weight_kg"`
	UnitLengthM  decimal.Decimal `gorm:"type:numeric(8,2)" json:"unit_length_m"`

	DeliveryLoadID *uuid.UUID `gorm:"type:uuid;index" json:"delivery_load_id,omitempty"`
	PickupLoadID   *uuid.UUID `gorm:"type:uuid;index" json:"pickup_load_id,omitempty"`
	StoredAt       *time.Time `json:"stored_at,omitempty"`
	PickedUpAt     *time.Time `json:"picked_up_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Company      *Company      `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Rack         *Rack         `gorm:"foreignKey:RackCode;references:Code" json:"rack,omitempty"`
	DeliveryLoad *TruckingLoad `gorm:"foreignKey:DeliveryLoadID" json:"delivery_load,omitempty"`
	PickupLoad   *TruckingLoad `gorm:"foreignKey:PickupLoadID" json:"pickup_load,omitempty"`
}

// TableName specifies the table name for InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// TotalLength returns the total length of the group in metres
func (i *InventoryItem) TotalLength() decimal.Decimal {
	return i.UnitLengthM.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
