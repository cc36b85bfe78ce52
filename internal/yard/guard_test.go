package yard

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

func TestTryAllocateWithinCapacity(t *testing.T) {
	newTestService(t)
	seedRack(t, "A-1-01", models.RackModeLinear, 100, 1200, 0, 0)

	rack, err := tryAllocate(testDB.DB, "A-1-01", 60, decimal.NewFromInt(720))
	require.NoError(t, err)
	require.Equal(t, 60, rack.OccupiedJoints)
	require.True(t, rack.OccupiedLength.Equal(decimal.NewFromInt(720)))
}

func TestTryAllocateRejectsOverCapacity(t *testing.T) {
	newTestService(t)
	seedRack(t, "A-1-01", models.RackModeLinear, 10, 120, 8, 96)

	_, err := tryAllocate(testDB.DB, "A-1-01", 3, decimal.NewFromInt(36))
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, 3, capErr.RequestedJoints)
	require.Equal(t, 2, capErr.AvailableJoints)
	require.Equal(t, "A-1-01", capErr.RackCode)

	// No intermediate state was persisted.
	rack := rackByCode(t, "A-1-01")
	require.Equal(t, 8, rack.OccupiedJoints)
	require.True(t, rack.OccupiedLength.Equal(decimal.NewFromInt(96)))
}

func TestTryAllocateRejectsBelowZero(t *testing.T) {
	newTestService(t)
	seedRack(t, "A-1-01", models.RackModeLinear, 10, 120, 2, 24)

	_, err := tryAllocate(testDB.DB, "A-1-01", -5, decimal.NewFromInt(-60))
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)

	rack := rackByCode(t, "A-1-01")
	require.Equal(t, 2, rack.OccupiedJoints)
}

func TestTryAllocateUnknownRack(t *testing.T) {
	newTestService(t)

	_, err := tryAllocate(testDB.DB, "Z-9-99", 1, decimal.NewFromInt(12))
	require.ErrorIs(t, err, ErrNotFound)
}

// Two concurrent callers race for the last joints of a rack: exactly one may
// win, and the loser must see the winner's numbers, never a stale read and
// never occupancy above capacity.
func TestTryAllocateConcurrent(t *testing.T) {
	newTestService(t)
	seedRack(t, "A-1-01", models.RackModeLinear, 10, 1200, 5, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = tryAllocate(testDB.DB, "A-1-01", 3, decimal.NewFromInt(36))
		}(i)
	}
	wg.Wait()

	var accepted, rejected int
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		var capErr *CapacityError
		require.ErrorAs(t, err, &capErr)
		require.Equal(t, 2, capErr.AvailableJoints, "loser must observe the winner's committed occupancy")
		rejected++
	}
	require.Equal(t, 1, accepted)
	require.Equal(t, 1, rejected)

	rack := rackByCode(t, "A-1-01")
	require.Equal(t, 8, rack.OccupiedJoints)
}

func TestTryAllocateSlotMode(t *testing.T) {
	newTestService(t)
	seedRack(t, "C-4-01", models.RackModeSlot, 40, 500, 0, 0)

	// Claim the slot whole.
	rack, err := tryAllocate(testDB.DB, "C-4-01", 25, decimal.NewFromInt(300))
	require.NoError(t, err)
	require.Equal(t, 25, rack.OccupiedJoints)

	// Capacity remains, but the slot is taken.
	_, err = tryAllocate(testDB.DB, "C-4-01", 5, decimal.NewFromInt(60))
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)

	// Partial release is not a thing for slots.
	_, err = tryAllocate(testDB.DB, "C-4-01", -10, decimal.NewFromInt(-120))
	require.ErrorAs(t, err, &capErr)

	// Emptying it exactly frees the slot.
	rack, err = tryAllocate(testDB.DB, "C-4-01", -25, decimal.NewFromInt(-300))
	require.NoError(t, err)
	require.Equal(t, 0, rack.OccupiedJoints)
	require.True(t, rack.OccupiedLength.IsZero())
}

// The CHECK constraints are the backstop behind the guard: direct SQL that
// bypasses tryAllocate must still be unable to persist an invalid occupancy.
func TestStorageLayerBackstop(t *testing.T) {
	newTestService(t)
	seedRack(t, "A-1-01", models.RackModeLinear, 10, 120, 0, 0)

	err := testDB.Exec("UPDATE racks SET occupied_joints = 11 WHERE code = ?", "A-1-01").Error
	require.Error(t, err)

	err = testDB.Exec("UPDATE racks SET occupied_length = 999 WHERE code = ?", "A-1-01").Error
	require.Error(t, err)

	err = testDB.Exec("UPDATE racks SET occupied_joints = -1 WHERE code = ?", "A-1-01").Error
	require.Error(t, err)
}
