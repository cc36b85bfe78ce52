package yard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

func seedCompany(t *testing.T, name string) *models.Company {
	t.Helper()
	company := &models.Company{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, testDB.Create(company).Error)
	return company
}

func seedRack(t *testing.T, code string, mode models.RackMode, capJoints int, capLength int64, occJoints int, occLength int64) *models.Rack {
	t.Helper()
	rack := &models.Rack{
		Code:           code,
		AreaID:         code[:1],
		Mode:           mode,
		CapacityJoints: capJoints,
		CapacityLength: decimal.NewFromInt(capLength),
		OccupiedJoints: occJoints,
		OccupiedLength: decimal.NewFromInt(occLength),
		IsActive:       true,
	}
	require.NoError(t, testDB.Create(rack).Error)
	return rack
}

func seedApprovedRequest(t *testing.T, companyID uuid.UUID) *models.StorageRequest {
	t.Helper()
	id := uuid.New()
	request := &models.StorageRequest{
		ID:            id,
		CompanyID:     companyID,
		ReferenceCode: "PSR-" + id.String()[:8],
		Status:        models.RequestStatusApproved,
		PipeType:      "casing",
		Grade:         "L80",
		DiameterIn:    decimal.RequireFromString("9.625"),
		UnitLengthM:   decimal.RequireFromString("12.00"),
		TotalJoints:   100,
	}
	require.NoError(t, testDB.Create(request).Error)
	return request
}

func seedLoad(t *testing.T, requestID uuid.UUID, direction models.LoadDirection, seq int, status models.LoadStatus) *models.TruckingLoad {
	t.Helper()
	load := &models.TruckingLoad{
		ID:        uuid.New(),
		RequestID: requestID,
		Direction: direction,
		Sequence:  seq,
		Status:    status,
	}
	require.NoError(t, testDB.Create(load).Error)
	return load
}

// manifestLine builds a casing line with 12 m joints
func manifestLine(quantity int) ManifestLineInput {
	return ManifestLineInput{
		Quantity:     quantity,
		PipeType:     "casing",
		Grade:        "L80",
		DiameterIn:   decimal.RequireFromString("9.625"),
		UnitWeightKg: decimal.RequireFromString("640.0"),
		UnitLengthM:  decimal.RequireFromString("12.00"),
	}
}

func attachLines(t *testing.T, svc *Service, loadID, companyID uuid.UUID, quantities ...int) *models.ManifestDocument {
	t.Helper()
	lines := make([]ManifestLineInput, len(quantities))
	for i, q := range quantities {
		lines[i] = manifestLine(q)
	}
	doc, err := svc.AttachManifest(context.Background(), loadID, companyID, lines, nil)
	require.NoError(t, err)
	return doc
}

func rackByCode(t *testing.T, code string) *models.Rack {
	t.Helper()
	var rack models.Rack
	require.NoError(t, testDB.First(&rack, "code = ?", code).Error)
	return &rack
}

func loadByID(t *testing.T, id uuid.UUID) *models.TruckingLoad {
	t.Helper()
	var load models.TruckingLoad
	require.NoError(t, testDB.First(&load, "id = ?", id).Error)
	return &load
}

func countItems(t *testing.T, requestID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, testDB.Model(&models.InventoryItem{}).Where("request_id = ?", requestID).Count(&n).Error)
	return n
}
