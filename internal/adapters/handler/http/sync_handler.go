package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type SyncQueue interface {
	Enqueue(reason string) bool
	Status() (*domain.SyncRun, bool)
}

type SyncHandler struct {
	queue SyncQueue
}

func NewSyncHandler(queue SyncQueue) *SyncHandler {
	return &SyncHandler{queue: queue}
}

func (h *SyncHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/sync", h.Trigger)
	r.GET("/sync/status", h.Status)
}

// Trigger godoc
// @Summary  Queue a sync from the configured sources
// @Tags     sync
// @Produce  json
// @Success  202 {object} map[string]string
// @Failure  503 {object} map[string]string
// @Security BearerAuth
// @Router   /sync [post]
func (h *SyncHandler) Trigger(c *gin.Context) {
	if !h.queue.Enqueue("api") {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sync queue is full, retry later"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type syncStatusResponse struct {
	Running bool            `json:"running"`
	LastRun *domain.SyncRun `json:"last_run,omitempty"`
}

// Status godoc
// @Summary  Last finished sync run
// @Tags     sync
// @Produce  json
// @Success  200 {object} syncStatusResponse
// @Security BearerAuth
// @Router   /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	last, running := h.queue.Status()
	c.JSON(http.StatusOK, syncStatusResponse{Running: running, LastRun: last})
}
