package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkPosition is one role description in the org directory. Multi-value
// fields are stored as JSON-array text columns.
type WorkPosition struct {
	ID               string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Slug             string     `gorm:"column:slug;type:varchar(191);uniqueIndex" json:"slug"`
	Title            *string    `gorm:"column:title;type:varchar(255)" json:"title,omitempty"`
	Summary          *string    `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Domain           *string    `gorm:"column:domain;type:varchar(100)" json:"domain,omitempty"`
	SubDomain        *string    `gorm:"column:sub_domain;type:varchar(100)" json:"sub_domain,omitempty"`
	Status           *string    `gorm:"column:status;type:varchar(50)" json:"status,omitempty"`
	Responsibilities *string    `gorm:"column:responsibilities;type:text" json:"responsibilities,omitempty"`
	Expectations     *string    `gorm:"column:expectations;type:text" json:"expectations,omitempty"`
	HeroImageURL     *string    `gorm:"column:hero_image_url;type:varchar(500)" json:"hero_image_url,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (WorkPosition) TableName() string { return "work_positions" }

// BeforeCreate assigns an opaque ID when the caller did not provide one.
func (p *WorkPosition) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PositionView is the UI-facing shape of a work position. Array fields are
// always materialized, never null.
type PositionView struct {
	ID               string   `json:"id"`
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Domain           string   `json:"domain"`
	SubDomain        string   `json:"subDomain"`
	Status           string   `json:"status"`
	Responsibilities []string `json:"responsibilities"`
	Expectations     []string `json:"expectations"`
	HeroImageURL     *string  `json:"heroImageUrl"`
}

// ToView maps a position row to its view model; total over nil rows.
func (p *WorkPosition) ToView() PositionView {
	if p == nil {
		return PositionView{Responsibilities: []string{}, Expectations: []string{}}
	}

	var missing []string
	view := PositionView{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            strOrEmpty(p.Title, "title", &missing),
		Summary:          strOrEmpty(p.Summary, "summary", &missing),
		Domain:           strOrEmpty(p.Domain, "domain", &missing),
		SubDomain:        strOrEmpty(p.SubDomain, "sub_domain", &missing),
		Status:           strOrEmpty(p.Status, "status", &missing),
		Responsibilities: stringList(p.Responsibilities),
		Expectations:     stringList(p.Expectations),
		HeroImageURL:     p.HeroImageURL,
	}
	if p.Responsibilities == nil {
		missing = append(missing, "responsibilities")
	}
	if p.Expectations == nil {
		missing = append(missing, "expectations")
	}

	warnMissing("work_position", p.ID, missing)
	return view
}

// WorkUnit is one team/department entry in the org directory.
type WorkUnit struct {
	ID           string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Slug         string     `gorm:"column:slug;type:varchar(191);uniqueIndex" json:"slug"`
	Title        *string    `gorm:"column:title;type:varchar(255)" json:"title,omitempty"`
	Summary      *string    `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Domain       *string    `gorm:"column:domain;type:varchar(100)" json:"domain,omitempty"`
	Status       *string    `gorm:"column:status;type:varchar(50)" json:"status,omitempty"`
	FocusTags    *string    `gorm:"column:focus_tags;type:text" json:"focus_tags,omitempty"`
	HeroImageURL *string    `gorm:"column:hero_image_url;type:varchar(500)" json:"hero_image_url,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (WorkUnit) TableName() string { return "work_units" }

// BeforeCreate assigns an opaque ID when the caller did not provide one.
func (u *WorkUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// UnitView is the UI-facing shape of a work unit.
type UnitView struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Domain       string   `json:"domain"`
	Status       string   `json:"status"`
	FocusTags    []string `json:"focusTags"`
	HeroImageURL *string  `json:"heroImageUrl"`
}

// ToView maps a unit row to its view model; total over nil rows.
func (u *WorkUnit) ToView() UnitView {
	if u == nil {
		return UnitView{FocusTags: []string{}}
	}

	var missing []string
	view := UnitView{
		ID:           u.ID,
		Slug:         u.Slug,
		Title:        strOrEmpty(u.Title, "title", &missing),
		Summary:      strOrEmpty(u.Summary, "summary", &missing),
		Domain:       strOrEmpty(u.Domain, "domain", &missing),
		Status:       strOrEmpty(u.Status, "status", &missing),
		FocusTags:    stringList(u.FocusTags),
		HeroImageURL: u.HeroImageURL,
	}
	if u.FocusTags == nil {
		missing = append(missing, "focus_tags")
	}

	warnMissing("work_unit", u.ID, missing)
	return view
}
