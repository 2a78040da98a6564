package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

type ProgressHandler struct {
	svc *services.ProgressService
}

func NewProgressHandler(svc *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

type setAyahsRequest struct {
	Count *int `json:"count" binding:"required" example:"12"`
}

type distributeRequest struct {
	Total *int `json:"total" binding:"required" example:"293"`
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	progress := router.Group("/progress")
	{
		progress.GET("", h.List)
		progress.POST("/initialize", h.Initialize)
		progress.POST("/reset", h.Reset)
		progress.PUT("/total", h.DistributeTotal)

		surahs := progress.Group("/surahs/:number")
		surahs.POST("/done", h.MarkDone)
		surahs.DELETE("/done", h.MarkUndone)
		surahs.POST("/increment", h.Increment)
		surahs.POST("/decrement", h.Decrement)
		surahs.PUT("/ayahs", h.SetAyahs)
	}
}

// List godoc
// @Summary      List surah progress
// @Description  All 114 rows of the caller, ascending by surah number.
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.SurahProgress
// @Failure      401  {object}  errorResponse
// @Router       /progress [get]
func (h *ProgressHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Initialize godoc
// @Summary      Create missing progress rows
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.SurahProgress
// @Router       /progress/initialize [post]
func (h *ProgressHandler) Initialize(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rows, err := h.svc.InitializeUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Reset godoc
// @Summary      Reset all progress
// @Description  Zeroes every surah, the streak and the page pointer. Reading history and badges are kept.
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.SurahProgress
// @Router       /progress/reset [post]
func (h *ProgressHandler) Reset(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rows, err := h.svc.ResetAll(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// DistributeTotal godoc
// @Summary      Set progress from a total ayah count
// @Tags         progress
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      distributeRequest  true  "Absolute ayah count"
// @Success      200   {array}   domain.SurahProgress
// @Failure      400   {object}  errorResponse
// @Router       /progress/total [put]
func (h *ProgressHandler) DistributeTotal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, err := h.svc.DistributeTotal(c.Request.Context(), userID, *req.Total)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type surahMutation func(ctx context.Context, userID string, number int) (*domain.SurahProgress, error)

func (h *ProgressHandler) mutate(c *gin.Context, op surahMutation) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	number, ok := surahParam(c)
	if !ok {
		return
	}

	p, err := op(c.Request.Context(), userID, number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// MarkDone godoc
// @Summary      Mark a surah as read
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      int  true  "Surah number (1-114)"
// @Success      200     {object}  domain.SurahProgress
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      409     {object}  errorResponse
// @Router       /progress/surahs/{number}/done [post]
func (h *ProgressHandler) MarkDone(c *gin.Context) {
	h.mutate(c, h.svc.MarkDone)
}

// MarkUndone godoc
// @Summary      Clear a surah
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      int  true  "Surah number (1-114)"
// @Success      200     {object}  domain.SurahProgress
// @Router       /progress/surahs/{number}/done [delete]
func (h *ProgressHandler) MarkUndone(c *gin.Context) {
	h.mutate(c, h.svc.MarkUndone)
}

// Increment godoc
// @Summary      Read one more ayah
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      int  true  "Surah number (1-114)"
// @Success      200     {object}  domain.SurahProgress
// @Router       /progress/surahs/{number}/increment [post]
func (h *ProgressHandler) Increment(c *gin.Context) {
	h.mutate(c, h.svc.IncrementAyahs)
}

// Decrement godoc
// @Summary      Undo one ayah
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      int  true  "Surah number (1-114)"
// @Success      200     {object}  domain.SurahProgress
// @Router       /progress/surahs/{number}/decrement [post]
func (h *ProgressHandler) Decrement(c *gin.Context) {
	h.mutate(c, h.svc.DecrementAyahs)
}

// SetAyahs godoc
// @Summary      Set the completed ayah count of a surah
// @Description  The count is clamped to the surah length.
// @Tags         progress
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      int              true  "Surah number (1-114)"
// @Param        body    body      setAyahsRequest  true  "Completed ayahs"
// @Success      200     {object}  domain.SurahProgress
// @Router       /progress/surahs/{number}/ayahs [put]
func (h *ProgressHandler) SetAyahs(c *gin.Context) {
	var req setAyahsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.mutate(c, func(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
		return h.svc.SetAyahs(ctx, userID, number, *req.Count)
	})
}
