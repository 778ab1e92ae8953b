package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: title is required", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrAlreadySigned, http.StatusBadRequest},
		{services.ErrPetitionClosed, http.StatusBadRequest},
		{services.ErrAlreadyVoted, http.StatusConflict},
		{services.ErrAlreadyLiked, http.StatusConflict},
		{services.ErrDuplicateEmail, http.StatusConflict},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		RespondError(c, tt.err)
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	RespondError(c, errors.New("pq: password authentication failed"))
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
