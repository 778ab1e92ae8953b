package handlers

import (
	"net/http"

	"civicos/internal/auth"
	"civicos/internal/middleware"
	"civicos/internal/models"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users  *services.UserService
	tokens *auth.TokenManager
}

func NewAuthHandler(users *services.UserService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(status, gin.H{"token": token, "user": user.Account()})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email, username and a password of at least 8 characters are required")
		return
	}
	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required")
		return
	}
	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
