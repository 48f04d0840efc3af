package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jurinho17-sv/Lotcation/internal/domain"
	"github.com/jurinho17-sv/Lotcation/internal/store"
)

// Handler serves the parking spot API.
type Handler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewHandler(st *store.Store, logger *slog.Logger) *Handler {
	return &Handler{store: st, logger: logger}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/spots", h.listSpots)
		api.GET("/spots/nearest", h.nearestSpot)
		api.GET("/spots/:id", h.getSpot)
		api.POST("/spots/:id/reports", h.createReport)
	}
}

// listSpots returns all spots, distance-ranked when lat/lon are given and
// in catalog order otherwise. Optional filters: category, limit.
func (h *Handler) listSpots(c *gin.Context) {
	var filter domain.Category
	if q := strings.TrimSpace(c.Query("category")); q != "" {
		filter = domain.Category(q)
		if !filter.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("unknown category %q", q)))
			return
		}
	}

	from, ranked, err := parseCoords(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	views := []SpotView{}
	if ranked {
		for _, sd := range h.store.SortedByDistance(from) {
			if filter != "" && sd.Category != filter {
				continue
			}
			views = append(views, newSpotDistanceView(sd))
		}
	} else {
		for _, rec := range h.store.List() {
			if filter != "" && rec.Category != filter {
				continue
			}
			views = append(views, newSpotView(rec))
		}
	}

	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}

	c.JSON(http.StatusOK, successResponse(views))
}

func (h *Handler) nearestSpot(c *gin.Context) {
	from, ranked, err := parseCoords(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if !ranked {
		c.JSON(http.StatusBadRequest, errorResponse("lat and lon are required"))
		return
	}

	nearest, ok := h.store.Nearest(from)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("no parking spots available"))
		return
	}

	c.JSON(http.StatusOK, successResponse(newSpotDistanceView(nearest)))
}

func (h *Handler) getSpot(c *gin.Context) {
	rec, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(newSpotView(rec)))
}

type reportRequest struct {
	Available *int   `json:"available"`
	Full      bool   `json:"full"`
	Note      string `json:"note"`
	Reporter  string `json:"reporter"`
}

func (h *Handler) createReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	report := domain.UserReport{
		ID:         uuid.NewString(),
		SpotID:     c.Param("id"),
		Available:  req.Available,
		Full:       req.Full,
		Note:       req.Note,
		Reporter:   req.Reporter,
		ReportedAt: domain.Now(),
	}

	rec, err := h.store.Apply(report)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.logger.Info("user report applied", "spot_id", report.SpotID, "report_id", report.ID, "full", report.Full)
	c.JSON(http.StatusCreated, gin.H{
		"report_id": report.ID,
		"data":      newSpotView(rec),
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidReport):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, store.ErrSpotNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, store.ErrCapacityUnknown):
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
	default:
		h.logger.Error("handler error", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

// parseCoords reads the optional lat/lon query pair. ranked is false when
// neither is present; giving only one of the two is an error.
func parseCoords(c *gin.Context) (from domain.Geo, ranked bool, err error) {
	latS, lonS := c.Query("lat"), c.Query("lon")
	if latS == "" && lonS == "" {
		return domain.Geo{}, false, nil
	}
	if latS == "" || lonS == "" {
		return domain.Geo{}, false, errors.New("lat and lon must be provided together")
	}

	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return domain.Geo{}, false, fmt.Errorf("invalid lat %q", latS)
	}
	lon, err := strconv.ParseFloat(lonS, 64)
	if err != nil {
		return domain.Geo{}, false, fmt.Errorf("invalid lon %q", lonS)
	}

	geo := domain.Geo{Lat: lat, Lon: lon}
	if !geo.InRange() {
		return domain.Geo{}, false, errors.New("lat/lon out of range")
	}
	return geo, true, nil
}

func successResponse(data any) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
