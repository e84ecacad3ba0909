package handler

import (
	"strings"

	"github.com/nexthub/intranet-backend/internal/domain"
	"gorm.io/gorm"
)

// fakeGuideRepo is an in-memory GuideRepository with the same null-handling
// contract as the real one.
type fakeGuideRepo struct {
	bySlug map[string]*domain.Guide
	byID   map[string]*domain.Guide

	queryErr  error
	findCalls int
	listCalls int
}

func newFakeGuideRepo(guides ...*domain.Guide) *fakeGuideRepo {
	repo := &fakeGuideRepo{
		bySlug: make(map[string]*domain.Guide),
		byID:   make(map[string]*domain.Guide),
	}
	for _, g := range guides {
		repo.bySlug[g.Slug] = g
		repo.byID[g.ID] = g
	}
	return repo
}

func (r *fakeGuideRepo) FindBySlug(key string) (*domain.Guide, error) {
	if strings.TrimSpace(key) == "" {
		return nil, nil
	}
	r.findCalls++
	if r.queryErr != nil {
		return nil, nil
	}
	return r.bySlug[key], nil
}

func (r *fakeGuideRepo) FindBySlugOrID(key string) (*domain.Guide, error) {
	if strings.TrimSpace(key) == "" {
		return nil, nil
	}
	r.findCalls++
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	if g, ok := r.bySlug[key]; ok {
		return g, nil
	}
	return r.byID[key], nil
}

func (r *fakeGuideRepo) List(filters map[string]string) ([]*domain.Guide, error) {
	r.listCalls++
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	out := []*domain.Guide{}
	for _, g := range r.bySlug {
		if status := filters["status"]; status != "" && (g.Status == nil || *g.Status != status) {
			continue
		}
		if d := filters["domain"]; d != "" && (g.Domain == nil || *g.Domain != d) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGuideRepo) Upsert(guide *domain.Guide) error {
	if r.queryErr != nil {
		return r.queryErr
	}
	// Slug conflicts keep the stored id, like the real ON DUPLICATE KEY path.
	stored := *guide
	if existing, ok := r.bySlug[stored.Slug]; ok {
		stored.ID = existing.ID
	} else if stored.ID == "" {
		stored.ID = "generated-" + stored.Slug
	}
	r.bySlug[stored.Slug] = &stored
	r.byID[stored.ID] = &stored
	return nil
}

func (r *fakeGuideRepo) UpdateStatus(slug, status string) error {
	if r.queryErr != nil {
		return r.queryErr
	}
	g, ok := r.bySlug[slug]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.Status = &status
	return nil
}

func (r *fakeGuideRepo) Delete(slug string) error {
	if r.queryErr != nil {
		return r.queryErr
	}
	g, ok := r.bySlug[slug]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.bySlug, slug)
	delete(r.byID, g.ID)
	return nil
}

// fakeEventRepo is an in-memory EventRepository.
type fakeEventRepo struct {
	events   map[string][]*domain.CommunityEvent
	queryErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string][]*domain.CommunityEvent)}
}

func (r *fakeEventRepo) ListByCommunity(communityID string) ([]*domain.CommunityEvent, error) {
	if strings.TrimSpace(communityID) == "" {
		return []*domain.CommunityEvent{}, nil
	}
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	out := []*domain.CommunityEvent{}
	out = append(out, r.events[communityID]...)
	return out, nil
}

func (r *fakeEventRepo) Upsert(event *domain.CommunityEvent) error {
	if r.queryErr != nil {
		return r.queryErr
	}
	r.events[event.CommunityID] = append(r.events[event.CommunityID], event)
	return nil
}

// fakePositionRepo and fakeUnitRepo back the directory handler tests.
type fakePositionRepo struct {
	positions []*domain.WorkPosition
	queryErr  error
}

func (r *fakePositionRepo) List(filters map[string]string) ([]*domain.WorkPosition, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	out := []*domain.WorkPosition{}
	out = append(out, r.positions...)
	return out, nil
}

type fakeUnitRepo struct {
	units    []*domain.WorkUnit
	queryErr error
}

func (r *fakeUnitRepo) List(filters map[string]string) ([]*domain.WorkUnit, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	out := []*domain.WorkUnit{}
	out = append(out, r.units...)
	return out, nil
}

func str(s string) *string { return &s }
