package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ManifestDocument represents the itemized list accompanying a trucking load.
// Manifests are produced by an external extraction pipeline; by the time a
// manifest reaches this table its lines have been validated and the declared
// total computed, so reconciliation never has to dig through loose JSON. The
// raw payload is kept alongside for audit only.
type ManifestDocument struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LoadID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"load_id"`
	CompanyID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	DeclaredTotalJoints int             `gorm:"not null" json:"declared_total_joints"`
	DeclaredTotalLength decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"declared_total_length_m"`
	RawPayload          datatypes.JSON  `json:"raw_payload,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`

	// Relations
	Lines []ManifestLine `gorm:"foreignKey:ManifestID" json:"lines,omitempty"`
}

// TableName specifies the table name for ManifestDocument model
func (ManifestDocument) TableName() string {
	return "manifest_documents"
}

// ManifestLine represents one declared line item on a manifest
type ManifestLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ManifestID uuid.UUID `gorm:"type:uuid;not null;index" json:"manifest_id"`
	LineNo     int       `gorm:"not null" json:"line_no"`
	Quantity   int       `gorm:"not null" json:"quantity"`

	// Declared physical attributes
	PipeType     string          `gorm:"type:varchar(50);not null" json:"pipe_type"`
	Grade        string          `gorm:"type:varchar(20)" json:"grade"`
	DiameterIn   decimal.Decimal `gorm:"type:numeric(6,3)" json:"diameter_in"`
	UnitWeightKg decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_weight_kg"`
	UnitLengthM  decimal.Decimal `gorm:"type:numeric(8,2)" json:"unit_length_m"`
}

// TableName specifies the table name for ManifestLine model
func (ManifestLine) TableName() string {
	return "manifest_lines"
}

// LineLength returns the total declared length of the line in metres
func (l *ManifestLine) LineLength() decimal.Decimal {
	return l.UnitLengthM.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
