package handlers

import (
	"net/http"

	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type BillHandler struct {
	bills *services.BillService
}

func NewBillHandler(bills *services.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

func (h *BillHandler) List(c *gin.Context) {
	page, err := h.bills.List(c.Request.Context(), c.Query("status"), queryInt(c, "page", 1))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BillHandler) Search(c *gin.Context) {
	bills, err := h.bills.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

func (h *BillHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bill, err := h.bills.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}
