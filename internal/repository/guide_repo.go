package repository

import (
	"errors"
	"strings"

	"github.com/nexthub/intranet-backend/internal/domain"
	"github.com/nexthub/intranet-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// devMode gates the development-only warnings emitted by the accessors
// (blank keys, slug misses). Set once from main; production stays silent.
var devMode bool

// SetDevMode enables development-only accessor warnings.
func SetDevMode(on bool) {
	devMode = on
}

func devWarn(msg, key string) {
	if !devMode {
		return
	}
	logger.GetLogger().Warn().Str("key", key).Msg(msg)
}

// GuideRepository is the guides table accessor.
//
// FindBySlug follows the graceful-null policy: absent records and upstream
// query failures both come back as (nil, nil), keeping page renders alive at
// the cost of conflating the two. FindBySlugOrID is the HTTP-handler variant:
// it distinguishes not-found (nil, nil) from query failure (nil, err) so the
// boundary can answer 404 vs 500, and falls back to an id match for callers
// still holding legacy identifiers.
type GuideRepository interface {
	FindBySlug(key string) (*domain.Guide, error)
	FindBySlugOrID(key string) (*domain.Guide, error)
	List(filters map[string]string) ([]*domain.Guide, error)
	Upsert(guide *domain.Guide) error
	UpdateStatus(slug, status string) error
	Delete(slug string) error
}

type guideRepository struct {
	db *gorm.DB
}

// NewGuideRepository creates a GuideRepository backed by the given DB handle.
func NewGuideRepository(db *gorm.DB) GuideRepository {
	return &guideRepository{db: db}
}

func (r *guideRepository) FindBySlug(key string) (*domain.Guide, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		devWarn("guide lookup with blank slug", key)
		return nil, nil
	}

	var guide domain.Guide
	err := r.db.Where("slug = ?", key).First(&guide).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		devWarn("no guide for slug", key)
		return nil, nil
	}
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("slug", key).Msg("guide lookup failed")
		return nil, nil
	}
	return &guide, nil
}

func (r *guideRepository) FindBySlugOrID(key string) (*domain.Guide, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		devWarn("guide lookup with blank key", key)
		return nil, nil
	}

	var guide domain.Guide
	err := r.db.Where("slug = ?", key).First(&guide).Error
	if err == nil {
		return &guide, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.GetLogger().Error().Err(err).Str("key", key).Msg("guide slug lookup failed")
		return nil, err
	}

	// Legacy callers pass the record id where the slug is expected.
	err = r.db.Where("id = ?", key).First(&guide).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("key", key).Msg("guide id lookup failed")
		return nil, err
	}
	return &guide, nil
}

func (r *guideRepository) List(filters map[string]string) ([]*domain.Guide, error) {
	guides := []*domain.Guide{}
	query := r.db.Model(&domain.Guide{})
	for column, value := range SanitizeFilters(filters, GuideFilterColumns) {
		query = query.Where(column+" = ?", value)
	}
	if err := query.Order("title ASC").Find(&guides).Error; err != nil {
		return nil, err
	}
	return guides, nil
}

// Upsert inserts the guide or, when the slug already exists, overwrites its
// content columns in place. Used by admin writes and content migrations.
func (r *guideRepository) Upsert(guide *domain.Guide) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "summary", "body", "domain", "sub_domain",
			"guide_type", "status", "hero_image_url", "updated_at",
		}),
	}).Create(guide).Error
}

func (r *guideRepository) UpdateStatus(slug, status string) error {
	result := r.db.Model(&domain.Guide{}).Where("slug = ?", slug).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete hard-deletes a guide. The normal removal path is a status change to
// Draft; this is the escape hatch.
func (r *guideRepository) Delete(slug string) error {
	result := r.db.Where("slug = ?", slug).Delete(&domain.Guide{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
