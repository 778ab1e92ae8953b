package handlers

import (
	"net/http"

	"civicos/internal/middleware"
	"civicos/internal/models"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voting *services.VotingService
	tally  *services.TallyService
}

func NewVoteHandler(voting *services.VotingService, tally *services.TallyService) *VoteHandler {
	return &VoteHandler{voting: voting, tally: tally}
}

type castVoteRequest struct {
	ItemID         uint   `json:"itemId" binding:"required"`
	ItemType       string `json:"itemType" binding:"required"`
	Vote           *int   `json:"vote" binding:"required"`
	VerificationID string `json:"verificationId" binding:"required"`
}

// Cast records a citizen vote and returns the receipt with the fresh tally.
func (h *VoteHandler) Cast(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "itemId, itemType, vote and verificationId are required")
		return
	}

	res, err := h.voting.Cast(c.Request.Context(), services.CastVoteInput{
		UserID:         middleware.CurrentUserID(c),
		ItemID:         req.ItemID,
		ItemType:       req.ItemType,
		Value:          *req.Vote,
		VerificationID: req.VerificationID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Vote recorded",
		"receiptId":     res.Vote.ReceiptID,
		"integrityHash": res.Vote.IntegrityHash,
		"tally":         res.Tally,
	})
}

func (h *VoteHandler) Tally(c *gin.Context) {
	itemType := c.Param("itemType")
	if !models.ValidItemType(itemType) {
		badRequest(c, "Invalid itemType")
		return
	}
	id, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	tally, err := h.tally.Tally(c.Request.Context(), itemType, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

func (h *VoteHandler) History(c *gin.Context) {
	votes, err := h.voting.History(c.Request.Context(), middleware.CurrentUserID(c), queryInt(c, "limit", 50))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"votes": votes})
}
