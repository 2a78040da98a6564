package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

type errorResponse struct {
	Error string `json:"error" example:"surah progress not found"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSurahNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrStreakNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSurahNumber),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProgressConflict),
		errors.Is(err, domain.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrExternalLookup):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps domain errors onto status codes. Internal errors are
// logged and never leak to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		c.JSON(status, errorResponse{Error: "internal server error"})
		return
	}
	if status == http.StatusBadGateway {
		logger.Warn("External lookup failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// requireUser reads the id set by the auth middleware.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrUnauthenticated.Error()})
		return "", false
	}
	return userID, true
}

func surahParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || !domain.ValidSurahNumber(n) {
		badRequest(c, domain.ErrInvalidSurahNumber.Error())
		return 0, false
	}
	return n, true
}
