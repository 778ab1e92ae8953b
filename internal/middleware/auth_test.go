package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"civicos/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tm *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthRequired(tm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "role": CurrentRole(c)})
	})
	r.GET("/public", OptionalAuth(tm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c)})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	r := newTestRouter(tm)
	token, err := tm.Issue(9, "user")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	r := newTestRouter(tm)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":0}`, w.Body.String())
}

func TestAdminRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tm := auth.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.POST("/admin", AuthRequired(tm), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for role, want := range map[string]int{"user": http.StatusForbidden, "admin": http.StatusNoContent} {
		token, err := tm.Issue(1, role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Code, role)
	}
}
