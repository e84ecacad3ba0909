package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nexthub/intranet-backend/internal/domain"
	"github.com/nexthub/intranet-backend/pkg/logger"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppliedMigration is one row in the content migration ledger.
type AppliedMigration struct {
	Version     string    `gorm:"column:version;type:varchar(191);primaryKey"`
	Description string    `gorm:"column:description;type:varchar(255)"`
	AppliedAt   time.Time `gorm:"column:applied_at;autoCreateTime"`
}

func (AppliedMigration) TableName() string { return "content_migrations" }

// ContentMigration is one declarative content change set, loaded from a YAML
// file. Each record is upserted by slug (events by id), so re-running an
// already-applied file is harmless even outside the ledger check.
type ContentMigration struct {
	Version     string           `yaml:"version"`
	Description string           `yaml:"description"`
	Guides      []GuideChange    `yaml:"guides"`
	Positions   []PositionChange `yaml:"positions"`
	Units       []UnitChange     `yaml:"units"`
	Events      []EventChange    `yaml:"events"`
}

// GuideChange is one guide upsert keyed by slug.
type GuideChange struct {
	Slug         string  `yaml:"slug"`
	Title        *string `yaml:"title"`
	Summary      *string `yaml:"summary"`
	Body         *string `yaml:"body"`
	Domain       *string `yaml:"domain"`
	SubDomain    *string `yaml:"sub_domain"`
	GuideType    *string `yaml:"guide_type"`
	Status       *string `yaml:"status"`
	HeroImageURL *string `yaml:"hero_image_url"`
}

// PositionChange is one work position upsert keyed by slug. The list fields
// are stored as JSON-array text.
type PositionChange struct {
	Slug             string   `yaml:"slug"`
	Title            *string  `yaml:"title"`
	Summary          *string  `yaml:"summary"`
	Domain           *string  `yaml:"domain"`
	SubDomain        *string  `yaml:"sub_domain"`
	Status           *string  `yaml:"status"`
	Responsibilities []string `yaml:"responsibilities"`
	Expectations     []string `yaml:"expectations"`
	HeroImageURL     *string  `yaml:"hero_image_url"`
}

// UnitChange is one work unit upsert keyed by slug.
type UnitChange struct {
	Slug         string   `yaml:"slug"`
	Title        *string  `yaml:"title"`
	Summary      *string  `yaml:"summary"`
	Domain       *string  `yaml:"domain"`
	Status       *string  `yaml:"status"`
	FocusTags    []string `yaml:"focus_tags"`
	HeroImageURL *string  `yaml:"hero_image_url"`
}

// EventChange is one community event upsert keyed by explicit id.
type EventChange struct {
	ID          string  `yaml:"id"`
	CommunityID string  `yaml:"community_id"`
	Title       *string `yaml:"title"`
	Description *string `yaml:"description"`
	Location    *string `yaml:"location"`
	EventDate   *string `yaml:"event_date"`
	StartTime   *string `yaml:"start_time"`
	EndTime     *string `yaml:"end_time"`
	Status      *string `yaml:"status"`
}

// LoadDir reads every .yaml/.yml file in dir, sorted by filename, and
// validates version uniqueness. A missing directory is an error; an empty one
// is not.
func LoadDir(dir string) ([]ContentMigration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migration dir %s: %w", dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]ContentMigration, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var m ContentMigration
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := validate(&m); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("%s: version %q already defined in %s", name, m.Version, prev)
		}
		seen[m.Version] = name
		migrations = append(migrations, m)
	}
	return migrations, nil
}

func validate(m *ContentMigration) error {
	if strings.TrimSpace(m.Version) == "" {
		return fmt.Errorf("version is required")
	}
	for i, g := range m.Guides {
		if strings.TrimSpace(g.Slug) == "" {
			return fmt.Errorf("guides[%d]: slug is required", i)
		}
	}
	for i, p := range m.Positions {
		if strings.TrimSpace(p.Slug) == "" {
			return fmt.Errorf("positions[%d]: slug is required", i)
		}
	}
	for i, u := range m.Units {
		if strings.TrimSpace(u.Slug) == "" {
			return fmt.Errorf("units[%d]: slug is required", i)
		}
	}
	for i, e := range m.Events {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("events[%d]: id is required", i)
		}
		if strings.TrimSpace(e.CommunityID) == "" {
			return fmt.Errorf("events[%d]: community_id is required", i)
		}
	}
	return nil
}

// Pending filters out migrations whose version is already in the ledger.
func Pending(all []ContentMigration, applied map[string]bool) []ContentMigration {
	pending := []ContentMigration{}
	for _, m := range all {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending
}

// Apply runs every pending migration in its own transaction and records it in
// the ledger. Returns the number applied.
func Apply(db *gorm.DB, all []ContentMigration) (int, error) {
	applied, err := appliedVersions(db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range Pending(all, applied) {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := applyOne(tx, &m); err != nil {
				return err
			}
			return tx.Create(&AppliedMigration{
				Version:     m.Version,
				Description: m.Description,
			}).Error
		})
		if err != nil {
			return count, fmt.Errorf("apply %s: %w", m.Version, err)
		}
		logger.GetLogger().Info().
			Str("version", m.Version).
			Str("description", m.Description).
			Msg("content migration applied")
		count++
	}
	return count, nil
}

func applyOne(tx *gorm.DB, m *ContentMigration) error {
	for _, change := range m.Guides {
		guide := &domain.Guide{
			Slug:         change.Slug,
			Title:        change.Title,
			Summary:      change.Summary,
			Body:         change.Body,
			Domain:       change.Domain,
			SubDomain:    change.SubDomain,
			GuideType:    change.GuideType,
			Status:       change.Status,
			HeroImageURL: change.HeroImageURL,
		}
		if err := upsertBySlug(tx, guide, []string{
			"title", "summary", "body", "domain", "sub_domain",
			"guide_type", "status", "hero_image_url",
		}); err != nil {
			return fmt.Errorf("guide %s: %w", change.Slug, err)
		}
	}
	for _, change := range m.Positions {
		position := &domain.WorkPosition{
			Slug:             change.Slug,
			Title:            change.Title,
			Summary:          change.Summary,
			Domain:           change.Domain,
			SubDomain:        change.SubDomain,
			Status:           change.Status,
			Responsibilities: jsonList(change.Responsibilities),
			Expectations:     jsonList(change.Expectations),
			HeroImageURL:     change.HeroImageURL,
		}
		if err := upsertBySlug(tx, position, []string{
			"title", "summary", "domain", "sub_domain", "status",
			"responsibilities", "expectations", "hero_image_url",
		}); err != nil {
			return fmt.Errorf("position %s: %w", change.Slug, err)
		}
	}
	for _, change := range m.Units {
		unit := &domain.WorkUnit{
			Slug:         change.Slug,
			Title:        change.Title,
			Summary:      change.Summary,
			Domain:       change.Domain,
			Status:       change.Status,
			FocusTags:    jsonList(change.FocusTags),
			HeroImageURL: change.HeroImageURL,
		}
		if err := upsertBySlug(tx, unit, []string{
			"title", "summary", "domain", "status", "focus_tags", "hero_image_url",
		}); err != nil {
			return fmt.Errorf("unit %s: %w", change.Slug, err)
		}
	}
	for _, change := range m.Events {
		event := &domain.CommunityEvent{
			ID:          change.ID,
			CommunityID: change.CommunityID,
			Title:       change.Title,
			Description: change.Description,
			Location:    change.Location,
			EventDate:   change.EventDate,
			StartTime:   change.StartTime,
			EndTime:     change.EndTime,
			Status:      change.Status,
		}
		if err := tx.Save(event).Error; err != nil {
			return fmt.Errorf("event %s: %w", change.ID, err)
		}
	}
	return nil
}

func upsertBySlug(tx *gorm.DB, record interface{}, columns []string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(record).Error
}

func appliedVersions(db *gorm.DB) (map[string]bool, error) {
	var rows []AppliedMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(rows))
	for _, row := range rows {
		applied[row.Version] = true
	}
	return applied, nil
}

// jsonList encodes a YAML string list as the JSON-array text stored in the
// multi-value columns. Nil stays nil so absent lists stay NULL.
func jsonList(values []string) *string {
	if values == nil {
		return nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	s := string(encoded)
	return &s
}
