package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

const maxStatsRangeDays = 366

type StatsHandler struct {
	svc   *services.StatsService
	today func() time.Time
}

// NewStatsHandler takes the clock used for the default window, normally
// ActivityService.Today.
func NewStatsHandler(svc *services.StatsService, today func() time.Time) *StatsHandler {
	if today == nil {
		today = func() time.Time { return time.Now().UTC() }
	}
	return &StatsHandler{svc: svc, today: today}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklySummary)
}

// GetWeeklySummary godoc
// @Summary      Reading summary
// @Description  Per-day ayahs and pages. Defaults to the last seven days.
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "YYYY-MM-DD"
// @Param        end_date    query     string  false  "YYYY-MM-DD"
// @Success      200         {object}  domain.WeeklySummary
// @Failure      400         {object}  errorResponse
// @Router       /stats/weekly [get]
func (h *StatsHandler) GetWeeklySummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	today := h.today()
	loc := today.Location()
	startDate, endDate := services.DefaultWeek(today)

	var err error
	if s := c.Query("end_date"); s != "" {
		endDate, err = time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			badRequest(c, "invalid end_date format, expected YYYY-MM-DD")
			return
		}
		if c.Query("start_date") == "" {
			startDate = endDate.AddDate(0, 0, -6)
		}
	}

	if s := c.Query("start_date"); s != "" {
		startDate, err = time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			badRequest(c, "invalid start_date format, expected YYYY-MM-DD")
			return
		}
	}

	if startDate.After(endDate) {
		badRequest(c, "start_date cannot be after end_date")
		return
	}

	if endDate.Sub(startDate).Hours()/24 > maxStatsRangeDays {
		badRequest(c, "date range too large, max 1 year allowed")
		return
	}

	summary, err := h.svc.GetWeeklySummary(c.Request.Context(), domain.StatsInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
