package httphandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
)

// ErrBadRequest wraps the errors of malformed requests.
var ErrBadRequest = errors.New("bad request")

var statusByError = []struct {
	status int
	errs   []error
}{
	{http.StatusForbidden, []error{
		domain.ErrUnauthorized,
		domain.ErrUntrustedPeer,
	}},
	{http.StatusConflict, []error{
		domain.ErrReplayRejected,
		domain.ErrMessageReplayed,
	}},
	{http.StatusNotFound, []error{
		domain.ErrNoPeerConfigured,
		domain.ErrMintRecordNotFound,
		domain.ErrPeerNotFound,
		domain.ErrMessageNotFound,
		domain.ErrVaultNotFound,
		domain.ErrExchangeNotFound,
	}},
	{http.StatusServiceUnavailable, []error{
		domain.ErrExchangePaused,
	}},
	{http.StatusUnprocessableEntity, []error{
		domain.ErrInsufficientBalance,
		domain.ErrInsufficientAllowance,
		domain.ErrInsufficientCollateral,
		domain.ErrInsufficientReserve,
	}},
	{http.StatusBadRequest, []error{
		ErrBadRequest,
		domain.ErrInvalidAmount,
		domain.ErrInvalidAccount,
		domain.ErrInvalidDomain,
		domain.ErrInvalidRate,
		domain.ErrInvalidExternalRef,
		domain.ErrInvalidTag,
		domain.ErrInvalidMessageID,
		domain.ErrAmountOverflow,
		domain.ErrSameDomain,
	}},
}

// StatusFromError returns the HTTP status code for the given error.
func StatusFromError(err error) int {
	for _, s := range statusByError {
		for _, e := range s.errs {
			if errors.Is(err, e) {
				return s.status
			}
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Errorf(
			"%s %s: internal error", c.Request.Method, c.FullPath(),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
