package yard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

// SubmitRequestInput carries a customer's storage request submission
type SubmitRequestInput struct {
	CompanyID    uuid.UUID
	PipeType     string
	Grade        string
	DiameterIn   decimal.Decimal
	UnitWeightKg decimal.Decimal
	UnitLengthM  decimal.Decimal
	TotalJoints  int
	WindowStart  *time.Time
	WindowEnd    *time.Time
}

// SubmitStorageRequest creates a PENDING storage request with a generated
// reference code.
func (s *Service) SubmitStorageRequest(ctx context.Context, in SubmitRequestInput) (*models.StorageRequest, error) {
	if in.TotalJoints <= 0 {
		return nil, &InvalidManifestError{Reason: "requested joint count must be positive"}
	}
	if in.PipeType == "" {
		return nil, &InvalidManifestError{Reason: "pipe type is required"}
	}

	id := uuid.New()
	request := &models.StorageRequest{
		ID:            id,
		CompanyID:     in.CompanyID,
		ReferenceCode: "PSR-" + strings.ToUpper(id.String()[:8]),
		Status:        models.RequestStatusPending,
		PipeType:      in.PipeType,
		Grade:         in.Grade,
		DiameterIn:    in.DiameterIn,
		UnitWeightKg:  in.UnitWeightKg,
		UnitLengthM:   in.UnitLengthM,
		TotalJoints:   in.TotalJoints,
		WindowStart:   in.WindowStart,
		WindowEnd:     in.WindowEnd,
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// ApproveStorageRequest moves a PENDING request to APPROVED, recording the
// approver and the assigned rack set. Transitions are monotonic: anything
// but PENDING is rejected.
func (s *Service) ApproveStorageRequest(ctx context.Context, requestID, approverID uuid.UUID, rackCodes []string, notes string) (*models.StorageRequest, error) {
	var request models.StorageRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.RequestStatusPending {
			return &InvalidTransitionError{Entity: "request", From: string(request.Status), To: string(models.RequestStatusApproved)}
		}

		// Every assigned rack must exist.
		if len(rackCodes) > 0 {
			var n int64
			if err := tx.Model(&models.Rack{}).Where("code IN ?", rackCodes).Count(&n).Error; err != nil {
				return err
			}
			if int(n) != len(rackCodes) {
				return ErrNotFound
			}
		}

		assigned, err := json.Marshal(rackCodes)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		return tx.Model(&request).Updates(map[string]interface{}{
			"status":         models.RequestStatusApproved,
			"assigned_racks": assigned,
			"approved_by":    approverID,
			"approved_at":    now,
			"approval_notes": notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// RejectStorageRequest moves a PENDING request to the terminal REJECTED state
func (s *Service) RejectStorageRequest(ctx context.Context, requestID, approverID uuid.UUID, reason string) (*models.StorageRequest, error) {
	var request models.StorageRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.RequestStatusPending {
			return &InvalidTransitionError{Entity: "request", From: string(request.Status), To: string(models.RequestStatusRejected)}
		}
		now := time.Now().UTC()
		return tx.Model(&request).Updates(map[string]interface{}{
			"status":        models.RequestStatusRejected,
			"approved_by":   approverID,
			"approved_at":   now,
			"reject_reason": reason,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ScheduleLoadInput carries a load booking
type ScheduleLoadInput struct {
	RequestID     uuid.UUID
	CompanyID     uuid.UUID
	Direction     models.LoadDirection
	WindowStart   *time.Time
	WindowEnd     *time.Time
	PlannedJoints int
	PlannedLength decimal.Decimal
}

// ScheduleLoad books a trucking slot against an approved request. The
// sequence number is assigned inside the transaction as max+1 per
// (request, direction); the unique index on that triple turns a concurrent
// double-booking into a constraint error instead of a duplicate sequence.
func (s *Service) ScheduleLoad(ctx context.Context, in ScheduleLoadInput) (*models.TruckingLoad, error) {
	if in.Direction != models.LoadInbound && in.Direction != models.LoadOutbound {
		return nil, fmt.Errorf("unknown load direction %q", in.Direction)
	}

	var load *models.TruckingLoad
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.StorageRequest
		if err := tx.Clauses(forUpdate()).First(&request, "id = ?", in.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.CompanyID != in.CompanyID {
			return &CrossTenantError{CompanyID: in.CompanyID, RequestID: in.RequestID}
		}
		if request.Status != models.RequestStatusApproved {
			return &InvalidTransitionError{Entity: "request", From: string(request.Status), To: "load booking"}
		}

		var maxSeq int
		row := tx.Model(&models.TruckingLoad{}).
			Where("request_id = ? AND direction = ?", in.RequestID, in.Direction).
			Select("COALESCE(MAX(sequence), 0)")
		if err := row.Scan(&maxSeq).Error; err != nil {
			return err
		}

		load = &models.TruckingLoad{
			ID:            uuid.New(),
			RequestID:     in.RequestID,
			Direction:     in.Direction,
			Sequence:      maxSeq + 1,
			Status:        models.LoadStatusNew,
			WindowStart:   in.WindowStart,
			WindowEnd:     in.WindowEnd,
			PlannedJoints: in.PlannedJoints,
			PlannedLength: in.PlannedLength,
		}
		return tx.Create(load).Error
	})
	if err != nil {
		return nil, err
	}
	return load, nil
}

// TransitionLoad applies a plain status transition (approve, mark in-transit,
// cancel) per the load state machine. Completion goes through
// CompleteInboundLoad / CompleteOutboundLoad, never through here.
func (s *Service) TransitionLoad(ctx context.Context, loadID, companyID uuid.UUID, to models.LoadStatus) (*models.TruckingLoad, error) {
	if to == models.LoadStatusCompleted {
		return nil, &InvalidTransitionError{Entity: "load", From: "any", To: string(to)}
	}

	var load *models.TruckingLoad
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		load, err = loadForUpdate(tx, loadID)
		if err != nil {
			return err
		}
		var request models.StorageRequest
		if err := tx.First(&request, "id = ?", load.RequestID).Error; err != nil {
			return err
		}
		if request.CompanyID != companyID {
			return &CrossTenantError{CompanyID: companyID, RequestID: load.RequestID, LoadID: loadID}
		}
		if !loadCanTransition(load.Status, to) {
			return &InvalidTransitionError{Entity: "load", From: string(load.Status), To: string(to)}
		}
		updates := map[string]interface{}{"status": to}
		if to == models.LoadStatusCancelled {
			updates["cancelled_at"] = time.Now().UTC()
		}
		if err := tx.Model(load).Updates(updates).Error; err != nil {
			return err
		}
		if to == models.LoadStatusCancelled {
			// Cancelling the last open load can complete the request.
			return maybeCompleteRequest(tx, load.RequestID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return load, nil
}
