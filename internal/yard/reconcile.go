package yard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

// ManifestLineInput is one declared line on an incoming manifest, already
// structured by the external extraction pipeline.
type ManifestLineInput struct {
	Quantity     int             `json:"quantity"`
	PipeType     string          `json:"pipe_type"`
	Grade        string          `json:"grade"`
	DiameterIn   decimal.Decimal `json:"diameter_in"`
	UnitWeightKg decimal.Decimal `json:"unit_weight_kg"`
	UnitLengthM  decimal.Decimal `json:"unit_length_m"`
}

// AttachManifest validates and stores the manifest for a load. Validation
// happens here, at the ingestion boundary, so reconciliation downstream works
// on trusted structured rows instead of defensively re-checking JSON. The
// declared totals are computed once from the lines and frozen on the header.
func (s *Service) AttachManifest(ctx context.Context, loadID, companyID uuid.UUID, lines []ManifestLineInput, raw datatypes.JSON) (*models.ManifestDocument, error) {
	if len(lines) == 0 {
		return nil, &InvalidManifestError{Reason: "manifest has no lines"}
	}
	totalJoints := 0
	totalLength := decimal.Zero
	for i, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, &InvalidManifestError{Reason: fmt.Sprintf("line %d has non-positive quantity %d", i+1, ln.Quantity)}
		}
		if ln.PipeType == "" {
			return nil, &InvalidManifestError{Reason: fmt.Sprintf("line %d is missing pipe type", i+1)}
		}
		if ln.UnitLengthM.Sign() <= 0 {
			return nil, &InvalidManifestError{Reason: fmt.Sprintf("line %d has non-positive unit length", i+1)}
		}
		totalJoints += ln.Quantity
		totalLength = totalLength.Add(ln.UnitLengthM.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}

	doc := &models.ManifestDocument{
		ID:                  uuid.New(),
		LoadID:              loadID,
		CompanyID:           companyID,
		DeclaredTotalJoints: totalJoints,
		DeclaredTotalLength: totalLength,
		RawPayload:          raw,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		load, err := loadForUpdate(tx, loadID)
		if err != nil {
			return err
		}
		if load.Terminal() {
			return &InvalidTransitionError{Entity: "load", From: string(load.Status), To: string(load.Status)}
		}
		var request models.StorageRequest
		if err := tx.First(&request, "id = ?", load.RequestID).Error; err != nil {
			return err
		}
		if request.CompanyID != companyID {
			return &CrossTenantError{CompanyID: companyID, RequestID: load.RequestID, LoadID: loadID}
		}
		if load.ManifestID != nil {
			return &InvalidManifestError{Reason: "load already has a manifest attached"}
		}

		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		rows := make([]models.ManifestLine, len(lines))
		for i, ln := range lines {
			rows[i] = models.ManifestLine{
				ID:           uuid.New(),
				ManifestID:   doc.ID,
				LineNo:       i + 1,
				Quantity:     ln.Quantity,
				PipeType:     ln.PipeType,
				Grade:        ln.Grade,
				DiameterIn:   ln.DiameterIn,
				UnitWeightKg: ln.UnitWeightKg,
				UnitLengthM:  ln.UnitLengthM,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(load).Update("manifest_id", doc.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// reconcileManifest fetches a load's manifest lines, checks the declared
// total against the operator-entered actual count and returns the lines plus
// the manifest-derived length delta. The manifest total is the unit of truth
// for the committed occupancy change; the operator count is purely a
// corroborating check, and any disagreement aborts with both numbers.
func reconcileManifest(tx *gorm.DB, load *models.TruckingLoad, actualJoints int) ([]models.ManifestLine, decimal.Decimal, error) {
	if load.ManifestID == nil {
		return nil, decimal.Zero, &InvalidManifestError{Reason: "load has no manifest attached"}
	}
	var lines []models.ManifestLine
	if err := tx.Where("manifest_id = ?", *load.ManifestID).Order("line_no").Find(&lines).Error; err != nil {
		return nil, decimal.Zero, err
	}
	if len(lines) == 0 {
		return nil, decimal.Zero, &InvalidManifestError{Reason: "manifest has no lines"}
	}

	declared := 0
	length := decimal.Zero
	for i := range lines {
		declared += lines[i].Quantity
		length = length.Add(lines[i].LineLength())
	}
	if declared != actualJoints {
		return nil, decimal.Zero, &ManifestMismatchError{DeclaredJoints: declared, ActualJoints: actualJoints}
	}
	return lines, length, nil
}

// loadForUpdate fetches a load under FOR UPDATE so concurrent completions of
// the same load serialize on the row instead of both passing the status check.
func loadForUpdate(tx *gorm.DB, loadID uuid.UUID) (*models.TruckingLoad, error) {
	var load models.TruckingLoad
	if err := tx.Clauses(forUpdate()).First(&load, "id = ?", loadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &load, nil
}
