package yard

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

// tryAllocate is the only code path that changes a rack's occupancy during
// normal operation. The delta (positive for load-in, negative for load-out)
// is applied as a single conditional UPDATE whose WHERE clause embeds the
// capacity invariant for both units, so two callers racing for the last
// joints of a rack have exactly one succeed; the database serializes the
// conflicting row writes, no advisory lock or retry loop involved.
//
// On rejection the rack row is re-read so the returned CapacityError carries
// the occupancy the loser actually lost to, not a stale pre-read.
func tryAllocate(tx *gorm.DB, rackCode string, deltaJoints int, deltaLength decimal.Decimal) (*models.Rack, error) {
	var rack models.Rack
	// Mode and capacity are immutable after provisioning, so reading them
	// outside the conditional write introduces no race.
	if err := tx.First(&rack, "code = ?", rackCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	q := tx.Model(&models.Rack{}).
		Where("code = ?", rackCode).
		Where("occupied_joints + ? BETWEEN 0 AND capacity_joints", deltaJoints).
		Where("occupied_length + ? >= 0 AND occupied_length + ? <= capacity_length", deltaLength, deltaLength)

	if rack.Mode == models.RackModeSlot {
		// A slot is claimed whole: load-in requires the rack empty,
		// load-out must empty it back to exactly zero.
		if deltaJoints > 0 {
			q = q.Where("occupied_joints = 0")
		} else {
			q = q.Where("occupied_joints = ?", -deltaJoints)
		}
	}

	res := q.Updates(map[string]interface{}{
		"occupied_joints": gorm.Expr("occupied_joints + ?", deltaJoints),
		"occupied_length": gorm.Expr("occupied_length + ?", deltaLength),
	})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Predicate failed. Re-read for accurate rejection numbers.
		if err := tx.First(&rack, "code = ?", rackCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return nil, &CapacityError{
			RackCode:        rackCode,
			RequestedJoints: deltaJoints,
			AvailableJoints: rack.AvailableJoints(),
			RequestedLength: deltaLength,
			AvailableLength: rack.AvailableLength(),
		}
	}

	// Return the post-write state.
	if err := tx.First(&rack, "code = ?", rackCode).Error; err != nil {
		return nil, err
	}
	return &rack, nil
}
