package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

type RamadanHandler struct {
	svc *services.RamadanService
	loc *time.Location
}

func NewRamadanHandler(svc *services.RamadanService, loc *time.Location) *RamadanHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &RamadanHandler{svc: svc, loc: loc}
}

// Either field sets the goal; khatmas wins when both are present.
type dailyGoalRequest struct {
	PagesPerDay *int `json:"pages_per_day" example:"40"`
	Khatmas     *int `json:"khatmas" binding:"omitempty,min=1,max=9" example:"2"`
}

type targetDateRequest struct {
	TargetDate *string `json:"target_date" example:"2026-03-20"`
}

func (h *RamadanHandler) RegisterRoutes(router *gin.RouterGroup) {
	ramadan := router.Group("/ramadan")
	{
		ramadan.GET("", h.Overview)
		ramadan.PUT("/goal", h.SetDailyGoal)
		ramadan.PUT("/target-date", h.SetTargetDate)
		ramadan.GET("/prayer-times", h.PrayerTimes)
	}
}

// Overview godoc
// @Summary      Ramadan progress overview
// @Tags         ramadan
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.RamadanOverview
// @Router       /ramadan [get]
func (h *RamadanHandler) Overview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// SetDailyGoal godoc
// @Summary      Set the daily page goal
// @Description  Goals are clamped to 20-180 pages.
// @Tags         ramadan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dailyGoalRequest  true  "Pages per day or khatma count"
// @Success      200   {object}  domain.UserStreak
// @Failure      400   {object}  errorResponse
// @Router       /ramadan/goal [put]
func (h *RamadanHandler) SetDailyGoal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dailyGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var pages int
	switch {
	case req.Khatmas != nil:
		pages = *req.Khatmas * domain.PagesPerKhatma
	case req.PagesPerDay != nil:
		pages = *req.PagesPerDay
	default:
		badRequest(c, "pages_per_day or khatmas is required")
		return
	}

	streak, err := h.svc.SetDailyGoal(c.Request.Context(), userID, pages)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// SetTargetDate godoc
// @Summary      Set or clear the completion deadline
// @Tags         ramadan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      targetDateRequest  true  "YYYY-MM-DD, or null to clear"
// @Success      200   {object}  domain.UserStreak
// @Failure      400   {object}  errorResponse
// @Router       /ramadan/target-date [put]
func (h *RamadanHandler) SetTargetDate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req targetDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var date *time.Time
	if req.TargetDate != nil && *req.TargetDate != "" {
		d, err := time.ParseInLocation("2006-01-02", *req.TargetDate, h.loc)
		if err != nil {
			badRequest(c, "invalid target_date format, expected YYYY-MM-DD")
			return
		}
		date = &d
	}

	streak, err := h.svc.SetTargetDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// PrayerTimes godoc
// @Summary      Today's prayer reading plan
// @Description  Splits the daily goal across the five prayers.
// @Tags         ramadan
// @Produce      json
// @Security     BearerAuth
// @Param        city     query     string  true   "City"
// @Param        country  query     string  false  "Country"
// @Success      200      {object}  domain.PrayerPlan
// @Failure      502      {object}  errorResponse
// @Router       /ramadan/prayer-times [get]
func (h *RamadanHandler) PrayerTimes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		badRequest(c, "city is required")
		return
	}

	plan, err := h.svc.PrayerPlan(c.Request.Context(), userID, city, c.Query("country"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
