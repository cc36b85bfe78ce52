package database

import "fmt"

// rackChecks are the storage-layer backstop for the capacity invariant.
// The allocation guard's conditional UPDATE is the primary mechanism (it is
// the one that produces an actionable error); these constraints exist so that
// even direct administrative SQL cannot persist a rack with occupancy outside
// [0, capacity] in either unit.
var rackChecks = map[string]string{
	"racks_occupied_joints_within_capacity": "occupied_joints >= 0 AND occupied_joints <= capacity_joints",
	"racks_occupied_length_within_capacity": "occupied_length >= 0 AND occupied_length <= capacity_length",
}

// InstallConstraints adds the rack CHECK constraints after AutoMigrate.
// Postgres has no ADD CONSTRAINT IF NOT EXISTS, so each is dropped first.
func (db *DB) InstallConstraints() error {
	for name, expr := range rackChecks {
		if err := db.Exec(fmt.Sprintf("ALTER TABLE racks DROP CONSTRAINT IF EXISTS %s", name)).Error; err != nil {
			return fmt.Errorf("failed to drop constraint %s: %w", name, err)
		}
		if err := db.Exec(fmt.Sprintf("ALTER TABLE racks ADD CONSTRAINT %s CHECK (%s)", name, expr)).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", name, err)
		}
	}
	return nil
}
