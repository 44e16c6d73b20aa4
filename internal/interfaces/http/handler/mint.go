package httphandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/interfaces/http/middleware"
)

// MintHandler serves the mint authorization.
type MintHandler interface {
	MintWithCompose(c *gin.Context)
	GetMintRecord(c *gin.Context)
	ListMints(c *gin.Context)
}

type mintHandler struct {
	mintSvc application.MintService
}

func NewMintHandler(mintSvc application.MintService) MintHandler {
	return &mintHandler{mintSvc}
}

type mintRequest struct {
	Recipient   string `json:"recipient" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	ExternalRef string `json:"external_ref" binding:"required"`
	Tag         string `json:"tag"`
}

func (h *mintHandler) MintWithCompose(c *gin.Context) {
	req := mintRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := h.mintSvc.MintWithCompose(
		c.Request.Context(), middleware.Caller(c), req.Recipient, amount,
		req.ExternalRef, req.Tag,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMintRecord(*record))
}

func (h *mintHandler) GetMintRecord(c *gin.Context) {
	record, err := h.mintSvc.GetMintRecord(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMintRecord(*record))
}

func (h *mintHandler) ListMints(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	records, err := h.mintSvc.ListMints(c.Request.Context(), c.Query("tag"), page)
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]mintRecord, 0, len(records))
	for _, r := range records {
		res = append(res, newMintRecord(r))
	}
	c.JSON(http.StatusOK, gin.H{"mints": res})
}
