package yard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

// AdjustmentResult is returned by a successful manual rack adjustment
type AdjustmentResult struct {
	Rack  *models.Rack          `json:"rack"`
	Audit *models.RackAdjustment `json:"audit"`
}

// AdjustRackOccupancy directly corrects a rack's occupancy after a physical
// recount or a data-entry error. The rack update and the audit entry are one
// transaction: an adjustment with no audit row cannot exist, structurally,
// not by convention.
//
// Validation runs before any write so the operator gets a precise error; the
// table's CHECK constraints remain as the backstop only.
func (s *Service) AdjustRackOccupancy(ctx context.Context, rackCode string, newJoints int, newLength decimal.Decimal, actorID uuid.UUID, justification string) (*AdjustmentResult, error) {
	if len(strings.TrimSpace(justification)) < s.minJustification {
		return nil, &InvalidAdjustmentError{
			Reason: fmt.Sprintf("justification must be at least %d characters", s.minJustification),
		}
	}
	if newJoints < 0 {
		return nil, &InvalidAdjustmentError{Reason: "occupancy cannot be negative"}
	}
	if newLength.Sign() < 0 {
		return nil, &InvalidAdjustmentError{Reason: "occupied length cannot be negative"}
	}

	var result AdjustmentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rack models.Rack
		if err := tx.Clauses(forUpdate()).First(&rack, "code = ?", rackCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if newJoints > rack.CapacityJoints {
			return &InvalidAdjustmentError{
				Reason: fmt.Sprintf("target %d joints exceeds capacity %d", newJoints, rack.CapacityJoints),
			}
		}
		if newLength.GreaterThan(rack.CapacityLength) {
			return &InvalidAdjustmentError{
				Reason: fmt.Sprintf("target %s m exceeds capacity %s m", newLength.String(), rack.CapacityLength.String()),
			}
		}

		audit := models.RackAdjustment{
			ID:            uuid.New(),
			RackCode:      rack.Code,
			ActorID:       actorID,
			Source:        models.AdjustmentManual,
			BeforeJoints:  rack.OccupiedJoints,
			AfterJoints:   newJoints,
			BeforeLength:  rack.OccupiedLength,
			AfterLength:   newLength,
			Justification: justification,
		}

		if err := tx.Model(&rack).Updates(map[string]interface{}{
			"occupied_joints": newJoints,
			"occupied_length": newLength,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		rack.OccupiedJoints = newJoints
		rack.OccupiedLength = newLength
		result = AdjustmentResult{Rack: &rack, Audit: &audit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"rack_code": rackCode,
		"actor_id":  actorID,
		"before":    result.Audit.BeforeJoints,
		"after":     result.Audit.AfterJoints,
	}).Info("manual rack adjustment recorded")
	return &result, nil
}

// ListRackAdjustments returns a rack's audit trail, newest first
func (s *Service) ListRackAdjustments(ctx context.Context, rackCode string) ([]models.RackAdjustment, error) {
	var entries []models.RackAdjustment
	if err := s.db.WithContext(ctx).
		Where("rack_code = ?", rackCode).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
