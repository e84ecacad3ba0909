package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/domain"
	"github.com/nexthub/intranet-backend/internal/middleware"
	"github.com/nexthub/intranet-backend/internal/repository"
	"github.com/nexthub/intranet-backend/pkg/cache"
	"github.com/nexthub/intranet-backend/pkg/logger"
	"gorm.io/gorm"
)

// GuideHandler serves knowledge-base guide pages.
type GuideHandler struct {
	repo  repository.GuideRepository
	cache cache.Service
}

// NewGuideHandler creates a new GuideHandler
func NewGuideHandler(repo repository.GuideRepository, cacheService cache.Service) *GuideHandler {
	return &GuideHandler{
		repo:  repo,
		cache: cacheService,
	}
}

// partialGuide hides the body column from list and summary responses. The
// outer Body shadows the embedded one and is always omitted.
type partialGuide struct {
	domain.GuideView
	Body *string `json:"body,omitempty"`
}

// ListGuides handles GET /api/guides
// Filters: domain, sub_domain, guide_type, status. Without an explicit status
// filter only approved guides are listed.
func (h *GuideHandler) ListGuides(c *gin.Context) {
	filters := map[string]string{
		"domain":     c.Query("domain"),
		"sub_domain": c.Query("sub_domain"),
		"guide_type": c.Query("guide_type"),
		"status":     c.Query("status"),
	}
	if filters["status"] == "" {
		filters["status"] = domain.StatusApproved
	}

	guides, err := h.repo.List(filters)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("guide listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]partialGuide, 0, len(guides))
	for _, guide := range guides {
		views = append(views, partialGuide{GuideView: guide.ToView()})
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// GetGuide handles GET /api/guides/:slug
// The key is tried as a slug first, then as a record id for callers still
// holding legacy identifiers. The body column is only included with
// ?include=body.
func (h *GuideHandler) GetGuide(c *gin.Context) {
	key := strings.TrimSpace(c.Param("slug"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guide slug is required"})
		return
	}
	includeBody := c.Query("include") == "body"

	view, ok := h.cachedView(c, key)
	if !ok {
		guide, err := h.repo.FindBySlugOrID(key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if guide == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}
		view = guide.ToView()
		if err := h.cache.SetGuide(c.Request.Context(), key, view); err != nil {
			logger.GetLogger().Warn().Err(err).Str("slug", key).Msg("guide cache write failed")
		}
	}

	if includeBody {
		c.JSON(http.StatusOK, view)
		return
	}
	c.JSON(http.StatusOK, partialGuide{GuideView: view})
}

// cachedView returns the cached full view for a key, if present.
func (h *GuideHandler) cachedView(c *gin.Context, key string) (domain.GuideView, bool) {
	data, err := h.cache.GetGuide(c.Request.Context(), key)
	if err != nil || len(data) == 0 {
		middleware.RecordCacheLookup("guide", false)
		return domain.GuideView{}, false
	}
	var view domain.GuideView
	if err := json.Unmarshal(data, &view); err != nil {
		middleware.RecordCacheLookup("guide", false)
		return domain.GuideView{}, false
	}
	middleware.RecordCacheLookup("guide", true)
	return view, true
}

// UpsertGuideRequest is the admin write payload. Slug is the upsert key.
type UpsertGuideRequest struct {
	Slug         string  `json:"slug" binding:"required"`
	Title        *string `json:"title"`
	Summary      *string `json:"summary"`
	Body         *string `json:"body"`
	Domain       *string `json:"domain"`
	SubDomain    *string `json:"sub_domain"`
	GuideType    *string `json:"guide_type"`
	Status       *string `json:"status"`
	HeroImageURL *string `json:"hero_image_url"`
}

// UpsertGuide handles POST /api/admin/guides
func (h *GuideHandler) UpsertGuide(c *gin.Context) {
	var req UpsertGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	guide := &domain.Guide{
		Slug:         strings.TrimSpace(req.Slug),
		Title:        req.Title,
		Summary:      req.Summary,
		Body:         req.Body,
		Domain:       req.Domain,
		SubDomain:    req.SubDomain,
		GuideType:    req.GuideType,
		Status:       req.Status,
		HeroImageURL: req.HeroImageURL,
	}
	if guide.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guide slug is required"})
		return
	}

	if err := h.repo.Upsert(guide); err != nil {
		logger.GetLogger().Error().Err(err).Str("slug", guide.Slug).Msg("guide upsert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	h.invalidate(c, guide.Slug)

	// Re-read so the response reflects the stored row: on a slug conflict the
	// insert candidate carries a fresh id while the table keeps the old one.
	// The read degrades gracefully, so a miss just echoes the input back.
	if stored, err := h.repo.FindBySlug(guide.Slug); err == nil && stored != nil {
		guide = stored
	}

	c.JSON(http.StatusOK, gin.H{"data": guide.ToView()})
}

// UpdateStatusRequest is the status transition payload.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateGuideStatus handles PATCH /api/admin/guides/:slug/status
func (h *GuideHandler) UpdateGuideStatus(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guide slug is required"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Status != domain.StatusApproved && req.Status != domain.StatusDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Approved or Draft"})
		return
	}

	err := h.repo.UpdateStatus(slug, req.Status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
		return
	}
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("slug", slug).Msg("guide status update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	h.invalidate(c, slug)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteGuide handles DELETE /api/admin/guides/:slug
func (h *GuideHandler) DeleteGuide(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guide slug is required"})
		return
	}

	err := h.repo.Delete(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
		return
	}
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("slug", slug).Msg("guide delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	h.invalidate(c, slug)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// invalidate flushes the guide cache after a write. Lookups cache under both
// slug and id keys, so the whole class is flushed rather than one key.
func (h *GuideHandler) invalidate(c *gin.Context, slug string) {
	if err := h.cache.InvalidateAllGuides(c.Request.Context()); err != nil {
		logger.GetLogger().Warn().Err(err).Str("slug", slug).Msg("guide cache invalidation failed")
	}
}
