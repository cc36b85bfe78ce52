package yard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

func TestAdjustRackOccupancy(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedRack(t, "A-1-01", models.RackModeLinear, 100, 1200, 37, 444)
	actor := uuid.New()

	result, err := svc.AdjustRackOccupancy(ctx, "A-1-01", 35, decimal.NewFromInt(420), actor,
		"physical recount after shift change found two joints double-counted")
	require.NoError(t, err)

	// The audit entry brackets the change and matches the rack state.
	require.Equal(t, 37, result.Audit.BeforeJoints)
	require.Equal(t, 35, result.Audit.AfterJoints)
	require.True(t, result.Audit.BeforeLength.Equal(decimal.NewFromInt(444)))
	require.True(t, result.Audit.AfterLength.Equal(decimal.NewFromInt(420)))
	require.Equal(t, actor, result.Audit.ActorID)
	require.Equal(t, models.AdjustmentManual, result.Audit.Source)
	require.Equal(t, result.Audit.AfterJoints, result.Rack.OccupiedJoints)

	rack := rackByCode(t, "A-1-01")
	require.Equal(t, 35, rack.OccupiedJoints)
	require.True(t, rack.OccupiedLength.Equal(decimal.NewFromInt(420)))

	trail, err := svc.ListRackAdjustments(ctx, "A-1-01")
	require.NoError(t, err)
	require.Len(t, trail, 1)
	require.Equal(t, result.Audit.ID, trail[0].ID)
}

func TestAdjustRackOccupancyJustificationTooShort(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedRack(t, "A-1-01", models.RackModeLinear, 100, 1200, 37, 444)

	_, err := svc.AdjustRackOccupancy(ctx, "A-1-01", 35, decimal.NewFromInt(420), uuid.New(), "recount")
	var invalid *InvalidAdjustmentError
	require.ErrorAs(t, err, &invalid)

	// Padding with whitespace does not help.
	_, err = svc.AdjustRackOccupancy(ctx, "A-1-01", 35, decimal.NewFromInt(420), uuid.New(), "recount             ")
	require.ErrorAs(t, err, &invalid)

	require.Equal(t, 37, rackByCode(t, "A-1-01").OccupiedJoints)
	trail, err := svc.ListRackAdjustments(ctx, "A-1-01")
	require.NoError(t, err)
	require.Empty(t, trail)
}

func TestAdjustRackOccupancyOutOfBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedRack(t, "A-1-01", models.RackModeLinear, 100, 1200, 37, 444)
	justification := "physical recount after shift change found a discrepancy"

	var invalid *InvalidAdjustmentError
	_, err := svc.AdjustRackOccupancy(ctx, "A-1-01", 101, decimal.NewFromInt(420), uuid.New(), justification)
	require.ErrorAs(t, err, &invalid)

	_, err = svc.AdjustRackOccupancy(ctx, "A-1-01", 35, decimal.NewFromInt(1300), uuid.New(), justification)
	require.ErrorAs(t, err, &invalid)

	_, err = svc.AdjustRackOccupancy(ctx, "A-1-01", -1, decimal.NewFromInt(420), uuid.New(), justification)
	require.ErrorAs(t, err, &invalid)

	require.Equal(t, 37, rackByCode(t, "A-1-01").OccupiedJoints)
}

func TestAdjustRackOccupancyUnknownRack(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AdjustRackOccupancy(ctx, "Z-9-99", 0, decimal.Zero, uuid.New(),
		"clearing a rack that was decommissioned last quarter")
	require.ErrorIs(t, err, ErrNotFound)
}
