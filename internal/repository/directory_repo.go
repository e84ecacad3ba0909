package repository

import (
	"github.com/nexthub/intranet-backend/internal/domain"
	"gorm.io/gorm"
)

// PositionRepository is the work_positions table accessor.
type PositionRepository interface {
	List(filters map[string]string) ([]*domain.WorkPosition, error)
}

type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a PositionRepository.
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) List(filters map[string]string) ([]*domain.WorkPosition, error) {
	positions := []*domain.WorkPosition{}
	query := r.db.Model(&domain.WorkPosition{})
	for column, value := range SanitizeFilters(filters, PositionFilterColumns) {
		query = query.Where(column+" = ?", value)
	}
	if err := query.Order("title ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// UnitRepository is the work_units table accessor.
type UnitRepository interface {
	List(filters map[string]string) ([]*domain.WorkUnit, error)
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a UnitRepository.
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) List(filters map[string]string) ([]*domain.WorkUnit, error) {
	units := []*domain.WorkUnit{}
	query := r.db.Model(&domain.WorkUnit{})
	for column, value := range SanitizeFilters(filters, UnitFilterColumns) {
		query = query.Where(column+" = ?", value)
	}
	if err := query.Order("title ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}
