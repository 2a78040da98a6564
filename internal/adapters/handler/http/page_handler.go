package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

type PageHandler struct {
	svc *services.PageService
}

func NewPageHandler(svc *services.PageService) *PageHandler {
	return &PageHandler{svc: svc}
}

type updatePageRequest struct {
	Page *int `json:"page" binding:"required" example:"42"`
}

func (h *PageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.PUT("/page", h.UpdatePage)
	router.GET("/pages/:page/verses", h.PageVerses)
}

// UpdatePage godoc
// @Summary      Move the reading pointer
// @Description  The page is clamped to 1-604. Ayah progress follows the page when the scripture index answers.
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePageRequest  true  "Mushaf page"
// @Success      200   {object}  domain.UserStreak
// @Failure      400   {object}  errorResponse
// @Router       /page [put]
func (h *PageHandler) UpdatePage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	streak, err := h.svc.UpdateQuranPage(c.Request.Context(), userID, *req.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// PageVerses godoc
// @Summary      Verses on a page
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        page  path      int  true  "Mushaf page (1-604)"
// @Success      200   {array}   domain.Verse
// @Failure      502   {object}  errorResponse
// @Router       /pages/{page}/verses [get]
func (h *PageHandler) PageVerses(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		badRequest(c, "page must be a number")
		return
	}

	verses, err := h.svc.PageVerses(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verses)
}
