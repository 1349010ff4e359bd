package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type StreakHandler struct {
	svc *services.StreakService
}

func NewStreakHandler(svc *services.StreakService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

func (h *StreakHandler) RegisterRoutes(r *gin.RouterGroup) {
	streaks := r.Group("/streaks")
	{
		streaks.GET("", h.List)
		streaks.GET("/summary", h.Summary)
		streaks.GET("/:id", h.Get)
	}
}

// List godoc
// @Summary  List derived streaks
// @Tags     streaks
// @Produce  json
// @Param    habit  query string false "Only this habit"
// @Param    active query bool   false "true for active streaks only, false for closed ones only"
// @Success  200 {array} domain.Streak
// @Security BearerAuth
// @Router   /streaks [get]
func (h *StreakHandler) List(c *gin.Context) {
	filter := domain.StreakFilter{Habit: c.Query("habit")}

	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active flag, expected true or false"})
			return
		}
		filter.ActiveOnly = active
		filter.ClosedOnly = !active
	}

	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary  Get one streak
// @Tags     streaks
// @Produce  json
// @Param    id path int true "Streak id"
// @Success  200 {object} domain.Streak
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /streaks/{id} [get]
func (h *StreakHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid streak id"})
		return
	}

	streak, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, streak)
}

// Summary godoc
// @Summary  Current and longest streak per habit
// @Tags     streaks
// @Produce  json
// @Success  200 {array} domain.HabitSummary
// @Security BearerAuth
// @Router   /streaks/summary [get]
func (h *StreakHandler) Summary(c *gin.Context) {
	summaries, err := h.svc.Summaries(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
