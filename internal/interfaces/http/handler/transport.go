package httphandler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/interfaces/http/middleware"
)

// TransportHandler serves the peer registry and the cross-domain transport.
type TransportHandler interface {
	SetPeer(c *gin.Context)
	ListPeers(c *gin.Context)
	Send(c *gin.Context)
	Receive(c *gin.Context)
	GetMessage(c *gin.Context)
	ListMessages(c *gin.Context)
}

type transportHandler struct {
	transportSvc application.TransportService
}

func NewTransportHandler(
	transportSvc application.TransportService,
) TransportHandler {
	return &transportHandler{transportSvc}
}

type setPeerRequest struct {
	DomainID uint32 `json:"domain_id" binding:"required"`
	Address  string `json:"address" binding:"required"`
}

func (h *transportHandler) SetPeer(c *gin.Context) {
	req := setPeerRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	if err := h.transportSvc.SetPeer(
		c.Request.Context(), middleware.Caller(c), req.DomainID, req.Address,
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *transportHandler) ListPeers(c *gin.Context) {
	peers, err := h.transportSvc.ListPeers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]peer, 0, len(peers))
	for _, p := range peers {
		res = append(res, newPeer(p))
	}
	c.JSON(http.StatusOK, gin.H{"peers": res})
}

type sendRequest struct {
	DstDomain uint32 `json:"dst_domain" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

func (h *transportHandler) Send(c *gin.Context) {
	req := sendRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.transportSvc.Send(
		c.Request.Context(), middleware.Caller(c), amount, req.DstDomain,
		req.Recipient,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMessage(*msg))
}

// receiveRequest has the same layout of the payload sent by the messengers.
type receiveRequest struct {
	ID        string `json:"id" binding:"required"`
	SrcDomain uint32 `json:"src_domain" binding:"required"`
	DstDomain uint32 `json:"dst_domain"`
	Sender    string `json:"sender" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

func (h *transportHandler) Receive(c *gin.Context) {
	req := receiveRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.transportSvc.Receive(
		c.Request.Context(), middleware.Caller(c), application.InboundMessage{
			ID:        req.ID,
			SrcDomain: req.SrcDomain,
			DstDomain: req.DstDomain,
			Sender:    req.Sender,
			Recipient: req.Recipient,
			Amount:    amount,
		},
	); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *transportHandler) GetMessage(c *gin.Context) {
	direction, err := parseDirection(c)
	if err != nil {
		respondError(c, err)
		return
	}
	msg, err := h.transportSvc.GetMessage(
		c.Request.Context(), direction, c.Param("id"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMessage(*msg))
}

func (h *transportHandler) ListMessages(c *gin.Context) {
	direction, err := parseDirection(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	msgs, err := h.transportSvc.ListMessages(c.Request.Context(), direction, page)
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]message, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, newMessage(m))
	}
	c.JSON(http.StatusOK, gin.H{"messages": res})
}

func parseDirection(c *gin.Context) (domain.MessageDirection, error) {
	switch d := c.DefaultQuery("direction", "outbound"); d {
	case "outbound":
		return domain.MessageOutbound, nil
	case "inbound":
		return domain.MessageInbound, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %s", ErrBadRequest, d)
	}
}
