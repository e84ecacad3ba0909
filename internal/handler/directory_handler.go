package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/domain"
	"github.com/nexthub/intranet-backend/internal/middleware"
	"github.com/nexthub/intranet-backend/internal/repository"
	"github.com/nexthub/intranet-backend/pkg/cache"
	"github.com/nexthub/intranet-backend/pkg/logger"
)

// Directory cache kinds.
const (
	kindPositions = "positions"
	kindUnits     = "units"
)

// DirectoryHandler serves the org directory: work positions and work units.
type DirectoryHandler struct {
	positions repository.PositionRepository
	units     repository.UnitRepository
	cache     cache.Service
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(positions repository.PositionRepository, units repository.UnitRepository, cacheService cache.Service) *DirectoryHandler {
	return &DirectoryHandler{
		positions: positions,
		units:     units,
		cache:     cacheService,
	}
}

// ListPositions handles GET /api/directory/positions
// Filters: domain, sub_domain, status. The unfiltered listing is cached.
func (h *DirectoryHandler) ListPositions(c *gin.Context) {
	filters := map[string]string{
		"domain":     c.Query("domain"),
		"sub_domain": c.Query("sub_domain"),
		"status":     c.Query("status"),
	}

	unfiltered := filters["domain"] == "" && filters["sub_domain"] == "" && filters["status"] == ""
	if unfiltered {
		if raw := h.cachedListing(c, kindPositions); raw != nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
	}

	positions, err := h.positions.List(filters)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("position listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]domain.PositionView, 0, len(positions))
	for _, position := range positions {
		views = append(views, position.ToView())
	}
	body := gin.H{"data": views}
	if unfiltered {
		h.storeListing(c, kindPositions, body)
	}
	c.JSON(http.StatusOK, body)
}

// ListUnits handles GET /api/directory/units
// Filters: domain, status. The unfiltered listing is cached.
func (h *DirectoryHandler) ListUnits(c *gin.Context) {
	filters := map[string]string{
		"domain": c.Query("domain"),
		"status": c.Query("status"),
	}

	unfiltered := filters["domain"] == "" && filters["status"] == ""
	if unfiltered {
		if raw := h.cachedListing(c, kindUnits); raw != nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
	}

	units, err := h.units.List(filters)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("unit listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]domain.UnitView, 0, len(units))
	for _, unit := range units {
		views = append(views, unit.ToView())
	}
	body := gin.H{"data": views}
	if unfiltered {
		h.storeListing(c, kindUnits, body)
	}
	c.JSON(http.StatusOK, body)
}

func (h *DirectoryHandler) cachedListing(c *gin.Context, kind string) []byte {
	data, err := h.cache.GetDirectory(c.Request.Context(), kind)
	if err != nil || !json.Valid(data) || len(data) == 0 {
		middleware.RecordCacheLookup("directory", false)
		return nil
	}
	middleware.RecordCacheLookup("directory", true)
	return data
}

func (h *DirectoryHandler) storeListing(c *gin.Context, kind string, body interface{}) {
	if err := h.cache.SetDirectory(c.Request.Context(), kind, body); err != nil {
		logger.GetLogger().Warn().Err(err).Str("kind", kind).Msg("directory cache write failed")
	}
}
