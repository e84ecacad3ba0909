package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommunityEvent is one entry in a community's event feed. Date and times are
// optional: events without a date sort after dated ones.
type CommunityEvent struct {
	ID          string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	CommunityID string     `gorm:"column:community_id;type:varchar(100);index" json:"community_id"`
	Title       *string    `gorm:"column:title;type:varchar(255)" json:"title,omitempty"`
	Description *string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Location    *string    `gorm:"column:location;type:varchar(255)" json:"location,omitempty"`
	EventDate   *string    `gorm:"column:event_date;type:varchar(10)" json:"event_date,omitempty"`
	StartTime   *string    `gorm:"column:start_time;type:varchar(8)" json:"start_time,omitempty"`
	EndTime     *string    `gorm:"column:end_time;type:varchar(8)" json:"end_time,omitempty"`
	Status      *string    `gorm:"column:status;type:varchar(50)" json:"status,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (CommunityEvent) TableName() string { return "community_events" }

// BeforeCreate assigns an opaque ID when the caller did not provide one.
func (e *CommunityEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// EventView is the UI-facing shape of a community event.
type EventView struct {
	ID          string  `json:"id"`
	CommunityID string  `json:"communityId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Status      string  `json:"status"`
}

// ToView maps an event row to its view model; total over nil rows.
func (e *CommunityEvent) ToView() EventView {
	if e == nil {
		return EventView{}
	}

	var missing []string
	view := EventView{
		ID:          e.ID,
		CommunityID: e.CommunityID,
		Title:       strOrEmpty(e.Title, "title", &missing),
		Description: strOrEmpty(e.Description, "description", &missing),
		Location:    strOrEmpty(e.Location, "location", &missing),
		Date:        e.EventDate,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Status:      strOrEmpty(e.Status, "status", &missing),
	}

	warnMissing("community_event", e.ID, missing)
	return view
}
