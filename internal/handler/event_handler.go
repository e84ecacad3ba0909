package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/domain"
	"github.com/nexthub/intranet-backend/internal/middleware"
	"github.com/nexthub/intranet-backend/internal/repository"
	"github.com/nexthub/intranet-backend/pkg/cache"
	"github.com/nexthub/intranet-backend/pkg/logger"
)

// EventHandler serves community event feeds.
type EventHandler struct {
	repo  repository.EventRepository
	cache cache.Service
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(repo repository.EventRepository, cacheService cache.Service) *EventHandler {
	return &EventHandler{
		repo:  repo,
		cache: cacheService,
	}
}

// ListCommunityEvents handles GET /api/communities/:communityId/events
// The feed is ordered by date then start time, undated events last. An empty
// feed is still a 200 with data: [].
func (h *EventHandler) ListCommunityEvents(c *gin.Context) {
	communityID := strings.TrimSpace(c.Param("communityId"))
	if communityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Community ID is required"})
		return
	}

	if data, err := h.cache.GetEvents(c.Request.Context(), communityID); err == nil && json.Valid(data) {
		middleware.RecordCacheLookup("events", true)
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}
	middleware.RecordCacheLookup("events", false)

	events, err := h.repo.ListByCommunity(communityID)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("community_id", communityID).Msg("event listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]domain.EventView, 0, len(events))
	for _, event := range events {
		views = append(views, event.ToView())
	}
	body := gin.H{"data": views}
	if err := h.cache.SetEvents(c.Request.Context(), communityID, body); err != nil {
		logger.GetLogger().Warn().Err(err).Str("community_id", communityID).Msg("event cache write failed")
	}
	c.JSON(http.StatusOK, body)
}

// UpsertEventRequest is the admin write payload for a community event.
type UpsertEventRequest struct {
	ID          string  `json:"id"`
	CommunityID string  `json:"community_id" binding:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	EventDate   *string `json:"event_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Status      *string `json:"status"`
}

// UpsertEvent handles POST /api/admin/events
func (h *EventHandler) UpsertEvent(c *gin.Context) {
	var req UpsertEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	communityID := strings.TrimSpace(req.CommunityID)
	if communityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Community ID is required"})
		return
	}

	event := &domain.CommunityEvent{
		ID:          strings.TrimSpace(req.ID),
		CommunityID: communityID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		EventDate:   req.EventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
	}
	if err := h.repo.Upsert(event); err != nil {
		logger.GetLogger().Error().Err(err).Str("community_id", communityID).Msg("event upsert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := h.cache.InvalidateEvents(c.Request.Context(), communityID); err != nil {
		logger.GetLogger().Warn().Err(err).Str("community_id", communityID).Msg("event cache invalidation failed")
	}

	c.JSON(http.StatusOK, gin.H{"data": event.ToView()})
}
