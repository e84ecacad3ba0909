package repository

import (
	"strings"

	"github.com/nexthub/intranet-backend/internal/domain"
	"gorm.io/gorm"
)

// eventOrder sorts the feed by date then start time, ascending, with undated
// or untimed events last.
const eventOrder = "event_date IS NULL, event_date ASC, start_time IS NULL, start_time ASC"

// EventRepository is the community_events table accessor. Unlike the guide
// accessor, listing failures are returned to the caller and become 500s.
type EventRepository interface {
	ListByCommunity(communityID string) ([]*domain.CommunityEvent, error)
	Upsert(event *domain.CommunityEvent) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates an EventRepository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) ListByCommunity(communityID string) ([]*domain.CommunityEvent, error) {
	communityID = strings.TrimSpace(communityID)
	events := []*domain.CommunityEvent{}
	if communityID == "" {
		return events, nil
	}
	err := r.db.
		Where("community_id = ?", communityID).
		Order(eventOrder).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Upsert(event *domain.CommunityEvent) error {
	return r.db.Save(event).Error
}
