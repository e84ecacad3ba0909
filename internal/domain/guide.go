package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content record statuses. The status gates visibility; removal is normally a
// transition back to Draft, not a row delete.
const (
	StatusApproved = "Approved"
	StatusDraft    = "Draft"
)

// Guide is one knowledge-base page as stored in the guides table.
type Guide struct {
	ID           string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Slug         string     `gorm:"column:slug;type:varchar(191);uniqueIndex" json:"slug"`
	Title        *string    `gorm:"column:title;type:varchar(255)" json:"title,omitempty"`
	Summary      *string    `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Body         *string    `gorm:"column:body;type:mediumtext" json:"body,omitempty"`
	Domain       *string    `gorm:"column:domain;type:varchar(100)" json:"domain,omitempty"`
	SubDomain    *string    `gorm:"column:sub_domain;type:varchar(100)" json:"sub_domain,omitempty"`
	GuideType    *string    `gorm:"column:guide_type;type:varchar(100)" json:"guide_type,omitempty"`
	Status       *string    `gorm:"column:status;type:varchar(50)" json:"status,omitempty"`
	HeroImageURL *string    `gorm:"column:hero_image_url;type:varchar(500)" json:"hero_image_url,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (Guide) TableName() string { return "guides" }

// BeforeCreate assigns an opaque ID when the caller did not provide one.
func (g *Guide) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// GuideView is the UI-facing shape of a guide. Every field is always present:
// strings default to "", optional display fields to null.
type GuideView struct {
	ID            string  `json:"id"`
	Slug          string  `json:"slug"`
	Title         string  `json:"title"`
	Summary       string  `json:"summary"`
	Body          string  `json:"body"`
	Domain        string  `json:"domain"`
	SubDomain     string  `json:"subDomain"`
	GuideType     string  `json:"guideType"`
	Status        string  `json:"status"`
	HeroImageURL  *string `json:"heroImageUrl"`
	CreatedAt     string  `json:"createdAt"`
	LastUpdatedAt *string `json:"lastUpdatedAt"`
}

// ToView maps a guide row to its view model. Total over nil: a nil row maps
// to a zero view rather than failing, and no input can make it panic.
func (g *Guide) ToView() GuideView {
	if g == nil {
		return GuideView{}
	}

	var missing []string
	view := GuideView{
		ID:           g.ID,
		Slug:         g.Slug,
		Title:        strOrEmpty(g.Title, "title", &missing),
		Summary:      strOrEmpty(g.Summary, "summary", &missing),
		Body:         strOrEmpty(g.Body, "body", &missing),
		Domain:       strOrEmpty(g.Domain, "domain", &missing),
		SubDomain:    strOrEmpty(g.SubDomain, "sub_domain", &missing),
		GuideType:    strOrEmpty(g.GuideType, "guide_type", &missing),
		Status:       strOrEmpty(g.Status, "status", &missing),
		HeroImageURL: g.HeroImageURL,
	}
	if !g.CreatedAt.IsZero() {
		view.CreatedAt = g.CreatedAt.UTC().Format(time.RFC3339)
	}
	if g.UpdatedAt != nil {
		updated := g.UpdatedAt.UTC().Format(time.RFC3339)
		view.LastUpdatedAt = &updated
	}

	warnMissing("guide", g.ID, missing)
	return view
}

// strOrEmpty dereferences an optional column, recording its name when absent.
func strOrEmpty(v *string, name string, missing *[]string) string {
	if v == nil {
		*missing = append(*missing, name)
		return ""
	}
	return *v
}

// stringList decodes a JSON-array column into a non-nil slice. Anything that
// is not a well-formed JSON array of strings (null, a bare string, corrupt
// text) coerces to the empty slice instead of propagating.
func stringList(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(*raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
