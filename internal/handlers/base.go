package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"civicos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RespondError writes the JSON error for a service error. Unknown errors are
// logged and reported as a generic 500.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrAlreadySigned),
		errors.Is(err, services.ErrPetitionClosed):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrAlreadyLiked),
		errors.Is(err, services.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// parseID reads a positive numeric path parameter, answering 400 otherwise.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}
