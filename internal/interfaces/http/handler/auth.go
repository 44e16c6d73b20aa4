package httphandler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/interfaces/http/middleware"
)

// TokenGenerator issues bearer tokens for a subject.
type TokenGenerator interface {
	Generate(subject string, ttl time.Duration) (string, error)
}

// AuthHandler lets the operator issue tokens for other identities, ie. the
// attesters or the users of the ledger.
type AuthHandler interface {
	IssueToken(c *gin.Context)
}

type authHandler struct {
	generator TokenGenerator
	roles     application.Roles
}

func NewAuthHandler(
	generator TokenGenerator, roles application.Roles,
) AuthHandler {
	return &authHandler{generator, roles}
}

type issueTokenRequest struct {
	Subject string `json:"subject" binding:"required"`
	// TTL in seconds, zero means the token never expires.
	TTL int64 `json:"ttl"`
}

func (h *authHandler) IssueToken(c *gin.Context) {
	if !h.roles.IsOperator(middleware.Caller(c)) {
		respondError(c, domain.ErrUnauthorized)
		return
	}
	req := issueTokenRequest{}
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := domain.ValidateAccount(req.Subject); err != nil {
		respondError(c, err)
		return
	}
	if req.TTL < 0 {
		respondError(c, fmt.Errorf("%w: ttl must not be negative", ErrBadRequest))
		return
	}

	token, err := h.generator.Generate(
		req.Subject, time.Duration(req.TTL)*time.Second,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subject": req.Subject, "token": token})
}
