package yard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for conditions that carry no extra data
var (
	// ErrNotFound means a referenced rack, load, request or inventory item
	// does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyCompleted means a completion was repeated after success.
	// Safe to acknowledge; nothing was re-applied.
	ErrAlreadyCompleted = errors.New("load already completed")
)

// CrossTenantError means the claimed ownership chain (company -> request ->
// load/item) does not hold. Logged distinctly from ordinary validation
// failures since it may indicate a client bug or probing.
type CrossTenantError struct {
	CompanyID uuid.UUID
	RequestID uuid.UUID
	LoadID    uuid.UUID
}

func (e *CrossTenantError) Error() string {
	return fmt.Sprintf("company %s does not own the claimed request/load chain (request %s, load %s)",
		e.CompanyID, e.RequestID, e.LoadID)
}

// ManifestMismatchError means the manifest's declared total and the
// operator-entered actual count disagree. Both numbers are surfaced so the
// operator can re-enter or re-scan; nothing is committed.
type ManifestMismatchError struct {
	DeclaredJoints int
	ActualJoints   int
}

func (e *ManifestMismatchError) Error() string {
	return fmt.Sprintf("manifest declares %d joints but operator entered %d", e.DeclaredJoints, e.ActualJoints)
}

// CapacityError means the allocation guard rejected a delta that would push a
// rack outside its capacity. Carries the live numbers read after the rejected
// write, not stale pre-read values.
type CapacityError struct {
	RackCode        string
	RequestedJoints int
	AvailableJoints int
	RequestedLength decimal.Decimal
	AvailableLength decimal.Decimal
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("rack %s cannot take %d joints (%s m): only %d joints (%s m) available",
		e.RackCode, e.RequestedJoints, e.RequestedLength.String(), e.AvailableJoints, e.AvailableLength.String())
}

// InvalidAdjustmentError means a manual adjustment failed pre-write
// validation (justification too short, target outside [0, capacity]).
type InvalidAdjustmentError struct {
	Reason string
}

func (e *InvalidAdjustmentError) Error() string {
	return "invalid adjustment: " + e.Reason
}

// InvalidTransitionError means a request or load state change violates the
// lifecycle state machine.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

// InvalidManifestError means a manifest payload failed validation at the
// ingestion boundary (empty lines, non-positive quantity, total mismatch).
type InvalidManifestError struct {
	Reason string
}

func (e *InvalidManifestError) Error() string {
	return "invalid manifest: " + e.Reason
}
