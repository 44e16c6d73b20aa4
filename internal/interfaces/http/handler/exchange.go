package httphandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/interfaces/http/middleware"
)

// ExchangeHandler serves the collateral vault and the redemption engine.
type ExchangeHandler interface {
	DepositCollateral(c *gin.Context)
	WithdrawCollateral(c *gin.Context)
	GetAvailableCollateral(c *gin.Context)
	GetExchangeInfo(c *gin.Context)
	GetOutputAmount(c *gin.Context)
	CanRedeem(c *gin.Context)
	Redeem(c *gin.Context)
	Pause(c *gin.Context)
	Resume(c *gin.Context)
	SetExchangeRate(c *gin.Context)
	ListRedemptions(c *gin.Context)
}

type exchangeHandler struct {
	exchangeSvc application.ExchangeService
	decimals    Decimals
}

func NewExchangeHandler(
	exchangeSvc application.ExchangeService, decimals Decimals,
) ExchangeHandler {
	return &exchangeHandler{exchangeSvc, decimals}
}

type collateralRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (h *exchangeHandler) DepositCollateral(c *gin.Context) {
	req := collateralRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	v, err := h.exchangeSvc.DepositCollateral(
		c.Request.Context(), middleware.Caller(c), amount,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVault(*v))
}

func (h *exchangeHandler) WithdrawCollateral(c *gin.Context) {
	req := collateralRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	v, err := h.exchangeSvc.WithdrawCollateral(
		c.Request.Context(), middleware.Caller(c), amount,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVault(*v))
}

func (h *exchangeHandler) GetAvailableCollateral(c *gin.Context) {
	available, err := h.exchangeSvc.GetAvailableCollateral(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available":         formatAmount(available),
		"display_available": displayAmount(available, h.decimals.Collateral),
	})
}

func (h *exchangeHandler) GetExchangeInfo(c *gin.Context) {
	info, err := h.exchangeSvc.GetExchangeInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rate":                 info.Rate,
		"basis_points":         info.BasisPoints,
		"status":               info.Status.String(),
		"collateral_asset":     info.CollateralAsset,
		"available_collateral": formatAmount(info.AvailableCollateral),
	})
}

func (h *exchangeHandler) GetOutputAmount(c *gin.Context) {
	amount, err := parseQueryAmount(c)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.exchangeSvc.GetOutputAmount(c.Request.Context(), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"output_amount": formatAmount(out)})
}

func (h *exchangeHandler) CanRedeem(c *gin.Context) {
	amount, err := parseQueryAmount(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ok, err := h.exchangeSvc.CanRedeem(c.Request.Context(), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_redeem": ok})
}

type redeemRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Recipient string `json:"recipient"`
}

func (h *exchangeHandler) Redeem(c *gin.Context) {
	req := redeemRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	r, err := h.exchangeSvc.Redeem(
		c.Request.Context(), middleware.Caller(c), amount, req.Recipient,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRedemption(*r))
}

func (h *exchangeHandler) Pause(c *gin.Context) {
	if err := h.exchangeSvc.Pause(
		c.Request.Context(), middleware.Caller(c),
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *exchangeHandler) Resume(c *gin.Context) {
	if err := h.exchangeSvc.Resume(
		c.Request.Context(), middleware.Caller(c),
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type rateRequest struct {
	Rate uint64 `json:"rate" binding:"required"`
}

func (h *exchangeHandler) SetExchangeRate(c *gin.Context) {
	req := rateRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	if err := h.exchangeSvc.SetExchangeRate(
		c.Request.Context(), middleware.Caller(c), req.Rate,
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *exchangeHandler) ListRedemptions(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	redemptions, err := h.exchangeSvc.ListRedemptions(
		c.Request.Context(), c.Query("account"), page,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]redemption, 0, len(redemptions))
	for _, r := range redemptions {
		res = append(res, newRedemption(r))
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": res})
}
