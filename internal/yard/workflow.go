package yard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

// loadTransitions is the trucking-load state machine. CANCELLED is reachable
// from every pre-COMPLETED state; COMPLETED and CANCELLED are terminal.
var loadTransitions = map[models.LoadStatus][]models.LoadStatus{
	models.LoadStatusNew:       {models.LoadStatusApproved, models.LoadStatusCancelled},
	models.LoadStatusApproved:  {models.LoadStatusInTransit, models.LoadStatusCancelled},
	models.LoadStatusInTransit: {models.LoadStatusCompleted, models.LoadStatusCancelled},
}

func loadCanTransition(from, to models.LoadStatus) bool {
	for _, next := range loadTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// InboundSummary is returned by a successful inbound load completion
type InboundSummary struct {
	LoadID                uuid.UUID       `json:"load_id"`
	InventoryItemsCreated int             `json:"inventory_items_created"`
	RackCode              string          `json:"rack_code"`
	RackNewOccupancy      int             `json:"rack_new_occupancy"`
	RackNewOccupiedLength decimal.Decimal `json:"rack_new_occupied_length_m"`
	CompletedAt           time.Time       `json:"completed_at"`
}

// OutboundSummary is returned by a successful outbound load completion
type OutboundSummary struct {
	LoadID         uuid.UUID         `json:"load_id"`
	ItemsPickedUp  int               `json:"items_picked_up"`
	JointsLoaded   int               `json:"joints_loaded"`
	RackOccupancy  map[string]int    `json:"rack_occupancy"` // rack code -> occupancy after
	LoadStatus     models.LoadStatus `json:"load_status"`
	TransitionedAt time.Time         `json:"transitioned_at"`
}

// CompleteInboundLoad marks an inbound load received into a rack. Runs as one
// transaction spanning integrity checks, manifest reconciliation, the
// allocation guard call, inventory materialization and the load transition;
// a failure at any step rolls back all of them.
//
// companyID is the caller's tenant claim and is treated as untrusted: the
// operation runs with privileges that bypass per-row access control, so the
// company -> request -> load chain is verified here rather than assumed.
func (s *Service) CompleteInboundLoad(ctx context.Context, loadID, companyID, requestID uuid.UUID, rackCode string, actualJoints int, actorID uuid.UUID, notes string) (*InboundSummary, error) {
	var summary *InboundSummary

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Integrity checks, no mutation yet.
		load, err := loadForUpdate(tx, loadID)
		if err != nil {
			return err
		}
		if load.Status == models.LoadStatusCompleted {
			return ErrAlreadyCompleted
		}
		if load.Status == models.LoadStatusCancelled {
			return &InvalidTransitionError{Entity: "load", From: string(load.Status), To: string(models.LoadStatusCompleted)}
		}
		if load.Direction != models.LoadInbound {
			return &InvalidTransitionError{Entity: "load", From: string(load.Direction), To: "inbound completion"}
		}
		if load.RequestID != requestID {
			return &CrossTenantError{CompanyID: companyID, RequestID: requestID, LoadID: loadID}
		}
		var request models.StorageRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.CompanyID != companyID {
			s.log.WithFields(map[string]interface{}{
				"company_id": companyID,
				"request_id": requestID,
				"load_id":    loadID,
			}).Warn("cross-tenant violation rejected on inbound completion")
			return &CrossTenantError{CompanyID: companyID, RequestID: requestID, LoadID: loadID}
		}

		// 2. Manifest reconciliation. The manifest total is authoritative;
		// actualJoints only corroborates it.
		lines, derivedLength, err := reconcileManifest(tx, load, actualJoints)
		if err != nil {
			return err
		}

		// 3. Capacity allocation. A rejection aborts the whole operation
		// and its reason is surfaced verbatim.
		rack, err := tryAllocate(tx, rackCode, actualJoints, derivedLength)
		if err != nil {
			return err
		}

		// 4. Inventory materialization, one group per manifest line.
		now := time.Now().UTC()
		items := make([]models.InventoryItem, len(lines))
		for i, ln := range lines {
			items[i] = models.InventoryItem{
				ID:             uuid.New(),
				CompanyID:      companyID,
				RequestID:      requestID,
				RackCode:       &rack.Code,
				Status:         models.ItemStatusInStorage,
				Quantity:       ln.Quantity,
				PipeType:       ln.PipeType,
				Grade:          ln.Grade,
				DiameterIn:     ln.DiameterIn,
				UnitWeightKg:   ln.UnitWeightKg,
				UnitLengthM:    ln.UnitLengthM,
				DeliveryLoadID: &load.ID,
				StoredAt:       &now,
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// 5. Load transition.
		updates := map[string]interface{}{
			"status":        models.LoadStatusCompleted,
			"rack_code":     rack.Code,
			"actual_joints": actualJoints,
			"actual_length": derivedLength,
			"completed_at":  now,
			"completed_by":  actorID,
		}
		if notes != "" {
			updates["notes"] = notes
		}
		if err := tx.Model(load).Updates(updates).Error; err != nil {
			return err
		}

		if err := maybeCompleteRequest(tx, requestID); err != nil {
			return err
		}

		summary = &InboundSummary{
			LoadID:                loadID,
			InventoryItemsCreated: len(items),
			RackCode:              rack.Code,
			RackNewOccupancy:      rack.OccupiedJoints,
			RackNewOccupiedLength: rack.OccupiedLength,
			CompletedAt:           now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"load_id":   loadID,
		"rack_code": summary.RackCode,
		"joints":    actualJoints,
		"items":     summary.InventoryItemsCreated,
	}).Info("inbound load completed")
	return summary, nil
}

// CompleteOutboundLoad ships selected inventory out of the yard. The selected
// items may span multiple racks; occupancy is decremented per rack through
// the same guard discipline as load-in (a negative delta cannot fail the
// capacity check, but using one conditional write per rack keeps the
// invariant machinery uniform and each rack's decrement atomic).
//
// finalStatus chooses IN_TRANSIT (truck left, handoff pending) or COMPLETED;
// the rack is freed either way because the pipe leaves the rack when loaded.
func (s *Service) CompleteOutboundLoad(ctx context.Context, loadID, companyID, requestID uuid.UUID, itemIDs []uuid.UUID, actualJoints int, finalStatus models.LoadStatus, actorID uuid.UUID, notes string) (*OutboundSummary, error) {
	if finalStatus != models.LoadStatusInTransit && finalStatus != models.LoadStatusCompleted {
		return nil, &InvalidTransitionError{Entity: "load", From: string(models.LoadStatusApproved), To: string(finalStatus)}
	}
	if len(itemIDs) == 0 {
		return nil, &InvalidManifestError{Reason: "no inventory items selected"}
	}

	var summary *OutboundSummary

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		load, err := loadForUpdate(tx, loadID)
		if err != nil {
			return err
		}
		if load.Status == models.LoadStatusCompleted {
			return ErrAlreadyCompleted
		}
		if load.Status == models.LoadStatusCancelled {
			return &InvalidTransitionError{Entity: "load", From: string(load.Status), To: string(finalStatus)}
		}
		if load.Direction != models.LoadOutbound {
			return &InvalidTransitionError{Entity: "load", From: string(load.Direction), To: "outbound completion"}
		}
		if load.RequestID != requestID {
			return &CrossTenantError{CompanyID: companyID, RequestID: requestID, LoadID: loadID}
		}
		var request models.StorageRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.CompanyID != companyID {
			s.log.WithFields(map[string]interface{}{
				"company_id": companyID,
				"request_id": requestID,
				"load_id":    loadID,
			}).Warn("cross-tenant violation rejected on outbound completion")
			return &CrossTenantError{CompanyID: companyID, RequestID: requestID, LoadID: loadID}
		}

		// Lock and validate every selected item: must exist, be IN_STORAGE
		// and belong to the claimed company.
		var items []models.InventoryItem
		if err := tx.Clauses(forUpdate()).Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
			return err
		}
		if len(items) != len(itemIDs) {
			return ErrNotFound
		}
		total := 0
		type rackDelta struct {
			joints int
			length decimal.Decimal
		}
		perRack := make(map[string]*rackDelta)
		for i := range items {
			it := &items[i]
			if it.CompanyID != companyID {
				return &CrossTenantError{CompanyID: companyID, RequestID: requestID, LoadID: loadID}
			}
			if it.Status != models.ItemStatusInStorage || it.RackCode == nil {
				return &InvalidTransitionError{Entity: "inventory item", From: string(it.Status), To: string(models.ItemStatusPickedUp)}
			}
			total += it.Quantity
			d, ok := perRack[*it.RackCode]
			if !ok {
				d = &rackDelta{length: decimal.Zero}
				perRack[*it.RackCode] = d
			}
			d.joints += it.Quantity
			d.length = d.length.Add(it.TotalLength())
		}

		// Exact match, not approximate: the operator count must equal the
		// sum of the selected groups.
		if total != actualJoints {
			return &ManifestMismatchError{DeclaredJoints: total, ActualJoints: actualJoints}
		}

		// One guard call per affected rack.
		occupancy := make(map[string]int, len(perRack))
		for code, d := range perRack {
			rack, err := tryAllocate(tx, code, -d.joints, d.length.Neg())
			if err != nil {
				return err
			}
			occupancy[code] = rack.OccupiedJoints
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.InventoryItem{}).
			Where("id IN ?", itemIDs).
			Updates(map[string]interface{}{
				"status":         models.ItemStatusPickedUp,
				"pickup_load_id": load.ID,
				"picked_up_at":   now,
			}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":        finalStatus,
			"actual_joints": actualJoints,
		}
		if notes != "" {
			updates["notes"] = notes
		}
		if finalStatus == models.LoadStatusCompleted {
			updates["completed_at"] = now
			updates["completed_by"] = actorID
		}
		if err := tx.Model(load).Updates(updates).Error; err != nil {
			return err
		}

		if finalStatus == models.LoadStatusCompleted {
			if err := maybeCompleteRequest(tx, requestID); err != nil {
				return err
			}
		}

		summary = &OutboundSummary{
			LoadID:         loadID,
			ItemsPickedUp:  len(items),
			JointsLoaded:   total,
			RackOccupancy:  occupancy,
			LoadStatus:     finalStatus,
			TransitionedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"load_id": loadID,
		"items":   summary.ItemsPickedUp,
		"joints":  summary.JointsLoaded,
		"status":  summary.LoadStatus,
	}).Info("outbound load processed")
	return summary, nil
}

// maybeCompleteRequest promotes an APPROVED request to COMPLETED once every
// child load is terminal and at least one completed. Called inside the same
// transaction as the load transition that may have tipped it over.
func maybeCompleteRequest(tx *gorm.DB, requestID uuid.UUID) error {
	var request models.StorageRequest
	if err := tx.Clauses(forUpdate()).First(&request, "id = ?", requestID).Error; err != nil {
		return err
	}
	if request.Status != models.RequestStatusApproved {
		return nil
	}

	var open int64
	if err := tx.Model(&models.TruckingLoad{}).
		Where("request_id = ? AND status NOT IN ?", requestID,
			[]models.LoadStatus{models.LoadStatusCompleted, models.LoadStatusCancelled}).
		Count(&open).Error; err != nil {
		return err
	}
	if open > 0 {
		return nil
	}

	var completed int64
	if err := tx.Model(&models.TruckingLoad{}).
		Where("request_id = ? AND status = ?", requestID, models.LoadStatusCompleted).
		Count(&completed).Error; err != nil {
		return err
	}
	if completed == 0 {
		return nil
	}

	return tx.Model(&request).Update("status", models.RequestStatusCompleted).Error
}
