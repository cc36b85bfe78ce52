package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestStatus defines the lifecycle state of a storage request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
)

// StorageRequest represents a customer's request to store pipe in the yard
type StorageRequest struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"company_id"`
	ReferenceCode string        `gorm:"type:varchar(20);unique;not null" json:"reference_code"` // PSR-xxxxxxxx
	Status        RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	// Pipe specification
	PipeType     string          `gorm:"type:varchar(50);not null" json:"pipe_type"` // casing, tubing, line pipe...
	Grade        string          `gorm:"type:varchar(20)" json:"grade"`              // J55, L80, P110...
	DiameterIn   decimal.Decimal `gorm:"type:numeric(6,3)" json:"diameter_in"`
	UnitWeightKg decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_weight_kg"`
	UnitLengthM  decimal.Decimal `gorm:"type:numeric(8,2)" json:"unit_length_m"`
	TotalJoints  int             `gorm:"not null" json:"total_joints"`

	// Requested storage window
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`

	// Rack assignment and approval metadata (set on approval)
	AssignedRacks datatypes.JSON `json:"assigned_racks"` // array of rack codes
	ApprovedBy    *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time     `json:"approved_at,omitempty"`
	ApprovalNotes string         `gorm:"type:text" json:"approval_notes"`
	RejectReason  string         `gorm:"type:text" json:"reject_reason"`

	Archived  bool           `gorm:"default:false" json:"archived"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Company *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Loads   []TruckingLoad `gorm:"foreignKey:RequestID" json:"loads,omitempty"`
}

// TableName specifies the table name for StorageRequest model
func (StorageRequest) TableName() string {
	return "storage_requests"
}

// Terminal reports whether the request is in a terminal state
func (s *StorageRequest) Terminal() bool {
	return s.Status == RequestStatusRejected || s.Status == RequestStatusCompleted
}
