package httphandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/interfaces/http/middleware"
)

// Decimals are the display decimals of the token and of the collateral.
type Decimals struct {
	Token      int32
	Collateral int32
}

// LedgerHandler serves the balance ledger.
type LedgerHandler interface {
	BalanceOf(c *gin.Context)
	ListAccounts(c *gin.Context)
	TotalSupply(c *gin.Context)
	Transfer(c *gin.Context)
	Approve(c *gin.Context)
	Allowance(c *gin.Context)
	TransferFrom(c *gin.Context)
}

type ledgerHandler struct {
	ledgerSvc application.LedgerService
	decimals  Decimals
}

func NewLedgerHandler(
	ledgerSvc application.LedgerService, decimals Decimals,
) LedgerHandler {
	return &ledgerHandler{ledgerSvc, decimals}
}

func (h *ledgerHandler) BalanceOf(c *gin.Context) {
	a, err := h.ledgerSvc.BalanceOf(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccount(*a, h.decimals))
}

func (h *ledgerHandler) ListAccounts(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	accounts, err := h.ledgerSvc.ListAccounts(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]account, 0, len(accounts))
	for _, a := range accounts {
		res = append(res, newAccount(a, h.decimals))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": res})
}

func (h *ledgerHandler) TotalSupply(c *gin.Context) {
	supply, err := h.ledgerSvc.TotalSupply(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":         formatAmount(supply.Total()),
		"display_total": displayAmount(supply.Total(), h.decimals.Token),
		"minted":        formatAmount(supply.Minted),
		"received":      formatAmount(supply.Received),
		"sent":          formatAmount(supply.Sent),
		"redeemed":      formatAmount(supply.Redeemed),
	})
}

type transferRequest struct {
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func (h *ledgerHandler) Transfer(c *gin.Context) {
	req := transferRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.ledgerSvc.Transfer(
		c.Request.Context(), middleware.Caller(c), req.To, amount,
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type approveRequest struct {
	Spender string `json:"spender" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

func (h *ledgerHandler) Approve(c *gin.Context) {
	req := approveRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.ledgerSvc.Approve(
		c.Request.Context(), middleware.Caller(c), req.Spender, amount,
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *ledgerHandler) Allowance(c *gin.Context) {
	amount, err := h.ledgerSvc.Allowance(
		c.Request.Context(), c.Param("owner"), c.Param("spender"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowance": formatAmount(amount)})
}

type transferFromRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func (h *ledgerHandler) TransferFrom(c *gin.Context) {
	req := transferFromRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.ledgerSvc.TransferFrom(
		c.Request.Context(), middleware.Caller(c), req.From, req.To, amount,
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
