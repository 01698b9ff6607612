package handler

import (
	"net/http"
	"strconv"

	"stockroom/internal/apierror"
	"stockroom/internal/service"
	"stockroom/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type StatsHandler struct{ svc service.StatsService }

func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to compute stats")
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute stats"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AlertsHandler serves the recent stock-alert feed filled by the worker pool.
type AlertsHandler struct{ rdb *redis.Client }

func NewAlertsHandler(rdb *redis.Client) *AlertsHandler {
	return &AlertsHandler{rdb: rdb}
}

func (h *AlertsHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	alerts, err := worker.RecentAlerts(c.Request.Context(), h.rdb, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to read alert feed")
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to read alerts"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts})
}
