package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

type StreakHandler struct {
	svc *services.ActivityService
}

func NewStreakHandler(svc *services.ActivityService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

func (h *StreakHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/streak", h.GetStreak)
	router.GET("/streak/preview", h.PredictStreak)
	router.GET("/badges", h.ListBadges)
}

// GetStreak godoc
// @Summary      Current reading streak
// @Description  Returns defaults when the user has never read.
// @Tags         streak
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserStreak
// @Router       /streak [get]
func (h *StreakHandler) GetStreak(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	streak, err := h.svc.GetStreak(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// PredictStreak godoc
// @Summary      Predicted streak
// @Description  The streak a qualifying action would produce today. Nothing is written.
// @Tags         streak
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserStreak
// @Router       /streak/preview [get]
func (h *StreakHandler) PredictStreak(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	streak, err := h.svc.PredictStreak(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// ListBadges godoc
// @Summary      Earned badges
// @Tags         streak
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.UserBadge
// @Router       /badges [get]
func (h *StreakHandler) ListBadges(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	badges, err := h.svc.ListBadges(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, badges)
}
