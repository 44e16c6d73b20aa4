package httphandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/core/application"
)

// Info is the public description of the daemon.
type Info struct {
	Network            string `json:"network"`
	DomainID           uint32 `json:"domain_id"`
	LocalAddress       string `json:"local_address"`
	ProjectTag         string `json:"project_tag"`
	CollateralAsset    string `json:"collateral_asset"`
	TokenDecimals      int32  `json:"token_decimals"`
	CollateralDecimals int32  `json:"collateral_decimals"`
	Operator           string `json:"operator"`
	Relayer            string `json:"relayer"`
	Messenger          string `json:"messenger"`
}

// InfoHandler ...
type InfoHandler interface {
	GetInfo(c *gin.Context)
}

type infoHandler struct {
	info Info
}

func NewInfoHandler(info Info, roles application.Roles) InfoHandler {
	info.Operator = roles.Operator
	info.Relayer = roles.Relayer
	return &infoHandler{info}
}

func (h *infoHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}
