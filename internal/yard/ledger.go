package yard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

// GetRack returns a single rack by its code
func (s *Service) GetRack(ctx context.Context, code string) (*models.Rack, error) {
	var rack models.Rack
	if err := s.db.WithContext(ctx).First(&rack, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rack, nil
}

// ListRacksByArea returns all racks in a yard area, ordered by code.
// Read-only; occupancy here is reporting data, never the basis for an
// allocation decision (the guard re-checks inside its own write).
func (s *Service) ListRacksByArea(ctx context.Context, areaID string) ([]models.Rack, error) {
	var racks []models.Rack
	if err := s.db.WithContext(ctx).
		Where("area_id = ?", areaID).
		Order("code").
		Find(&racks).Error; err != nil {
		return nil, err
	}
	return racks, nil
}

// ListInventory returns a company's inventory item groups, newest first
func (s *Service) ListInventory(ctx context.Context, companyID uuid.UUID, status models.ItemStatus) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.InventoryItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
