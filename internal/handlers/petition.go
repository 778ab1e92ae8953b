package handlers

import (
	"net/http"
	"time"

	"civicos/internal/middleware"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type PetitionHandler struct {
	petitions *services.PetitionService
}

func NewPetitionHandler(petitions *services.PetitionService) *PetitionHandler {
	return &PetitionHandler{petitions: petitions}
}

func (h *PetitionHandler) List(c *gin.Context) {
	petitions, err := h.petitions.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"petitions": petitions})
}

func (h *PetitionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	petition, err := h.petitions.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, petition)
}

type createPetitionRequest struct {
	Title            string     `json:"title" binding:"required,max=255"`
	Description      string     `json:"description"`
	TargetSignatures int        `json:"targetSignatures" binding:"required,gt=0"`
	Deadline         *time.Time `json:"deadline"`
}

func (h *PetitionHandler) Create(c *gin.Context) {
	var req createPetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Title and a positive targetSignatures are required")
		return
	}
	petition, err := h.petitions.Create(c.Request.Context(), services.CreatePetitionInput{
		CreatorID:        middleware.CurrentUserID(c),
		Title:            req.Title,
		Description:      req.Description,
		TargetSignatures: req.TargetSignatures,
		Deadline:         req.Deadline,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, petition)
}

type signRequest struct {
	VerificationID string `json:"verificationId"`
}

func (h *PetitionHandler) Sign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req signRequest
	_ = c.ShouldBindJSON(&req)
	if req.VerificationID == "" {
		badRequest(c, "Identity verification required")
		return
	}

	res, err := h.petitions.Sign(c.Request.Context(), middleware.CurrentUserID(c), id, req.VerificationID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Petition signed successfully",
		"currentSignatures": res.CurrentSignatures,
		"urgency":           res.Urgency,
		"goalReached":       res.GoalReached,
	})
}
