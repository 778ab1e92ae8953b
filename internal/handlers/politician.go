package handlers

import (
	"net/http"
	"time"

	"civicos/internal/middleware"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type PoliticianHandler struct {
	politicians *services.PoliticianService
}

func NewPoliticianHandler(politicians *services.PoliticianService) *PoliticianHandler {
	return &PoliticianHandler{politicians: politicians}
}

func (h *PoliticianHandler) List(c *gin.Context) {
	politicians, err := h.politicians.List(c.Request.Context(), c.Query("party"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"politicians": politicians})
}

func (h *PoliticianHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.politicians.Detail(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *PoliticianHandler) Votes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	votes, err := h.politicians.VotingRecord(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"votes": votes})
}

func (h *PoliticianHandler) Track(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.politicians.Track(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracked": true})
}

func (h *PoliticianHandler) Untrack(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.politicians.Untrack(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracked": false})
}

type statementRequest struct {
	Content   string     `json:"content" binding:"required"`
	FactCheck string     `json:"factCheck"`
	StatedAt  *time.Time `json:"statedAt"`
}

// AddStatement is admin only.
func (h *PoliticianHandler) AddStatement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Statement content is required")
		return
	}
	stmt, err := h.politicians.AddStatement(c.Request.Context(), services.AddStatementInput{
		PoliticianID: id,
		Content:      req.Content,
		FactCheck:    req.FactCheck,
		StatedAt:     req.StatedAt,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stmt)
}
