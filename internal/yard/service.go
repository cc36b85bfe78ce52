// Package yard implements the core of the pipe-storage-yard backend: the
// rack ledger, the capacity allocation guard, the request/load workflow state
// machine, manifest reconciliation and the audited manual-adjustment path.
//
// Every operation takes explicit actor/company identifiers and returns a
// typed error; nothing here reads ambient session state. Multi-step
// operations run inside a single database transaction: the unit-of-work
// boundary is the correctness boundary.
package yard

import (
	"github.com/sirupsen/logrus"

	"github.com/yardpoint/pipeyardgo/internal/database"
)

// Service exposes the yard workflow operations
type Service struct {
	db  *database.DB
	log *logrus.Logger

	// minJustification is the minimum free-text length for manual rack
	// adjustments.
	minJustification int
}

// NewService creates a yard service
func NewService(db *database.DB, log *logrus.Logger, minJustification int) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if minJustification <= 0 {
		minJustification = 20
	}
	return &Service{
		db:               db,
		log:              log,
		minJustification: minJustification,
	}
}
