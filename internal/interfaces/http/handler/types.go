package httphandler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/pkg/mathutil"
)

// Amounts travel as strings of base units, so that uint64 values don't lose
// precision in JSON decoders using float64.

func parseAmount(s string) (uint64, error) {
	amount, err := mathutil.ParseAmount(s, 0)
	if err != nil {
		if errors.Is(err, mathutil.ErrOverflow) {
			return 0, fmt.Errorf("%w: %s", domain.ErrAmountOverflow, s)
		}
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, s)
	}
	return amount, nil
}

func formatAmount(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}

// displayAmount returns amount in units of 10^decimals.
func displayAmount(amount uint64, decimals int32) string {
	return mathutil.FormatAmount(amount, uint(decimals))
}

func parseQueryAmount(c *gin.Context) (uint64, error) {
	amount, ok := c.GetQuery("amount")
	if !ok {
		return 0, fmt.Errorf("%w: missing amount", ErrBadRequest)
	}
	return parseAmount(amount)
}

// parsePage returns the page selected by the page and size query params, or
// nil if none is set.
func parsePage(c *gin.Context) (*domain.Page, error) {
	number, hasNumber := c.GetQuery("page")
	size, hasSize := c.GetQuery("size")
	if !hasNumber && !hasSize {
		return nil, nil
	}

	n, s := 0, 0
	var err error
	if hasNumber {
		if n, err = strconv.Atoi(number); err != nil || n < 0 {
			return nil, fmt.Errorf("%w: invalid page %s", ErrBadRequest, number)
		}
	}
	if hasSize {
		if s, err = strconv.Atoi(size); err != nil || s < 0 {
			return nil, fmt.Errorf("%w: invalid size %s", ErrBadRequest, size)
		}
	}
	page := domain.NewPage(n, s)
	return &page, nil
}

func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, err)
	}
	return nil
}

type account struct {
	Address           string `json:"address"`
	Balance           string `json:"balance"`
	DisplayBalance    string `json:"display_balance"`
	CollateralBalance string `json:"collateral_balance"`
}

func newAccount(a domain.Account, decimals Decimals) account {
	return account{
		Address:           a.Address,
		Balance:           formatAmount(a.Balance),
		DisplayBalance:    displayAmount(a.Balance, decimals.Token),
		CollateralBalance: formatAmount(a.CollateralBalance),
	}
}

type mintRecord struct {
	ExternalRef string `json:"external_ref"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	Tag         string `json:"tag"`
	Consumed    bool   `json:"consumed"`
	Timestamp   int64  `json:"timestamp"`
}

func newMintRecord(r domain.MintRecord) mintRecord {
	return mintRecord{
		ExternalRef: r.ExternalRef,
		Recipient:   r.Recipient,
		Amount:      formatAmount(r.Amount),
		Tag:         r.Tag,
		Consumed:    r.Consumed,
		Timestamp:   r.Timestamp,
	}
}

type peer struct {
	DomainID  uint32 `json:"domain_id"`
	Address   string `json:"address"`
	UpdatedAt int64  `json:"updated_at"`
}

func newPeer(p domain.Peer) peer {
	return peer{p.DomainID, p.Address, p.UpdatedAt}
}

type message struct {
	ID          string `json:"id"`
	Direction   string `json:"direction"`
	SrcDomain   uint32 `json:"src_domain"`
	DstDomain   uint32 `json:"dst_domain"`
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	Attempts    int    `json:"attempts"`
	LastError   string `json:"last_error,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	DeliveredAt int64  `json:"delivered_at,omitempty"`
}

func newMessage(m domain.Message) message {
	return message{
		ID:          m.ID,
		Direction:   m.Direction.String(),
		SrcDomain:   m.SrcDomain,
		DstDomain:   m.DstDomain,
		Sender:      m.Sender,
		Recipient:   m.Recipient,
		Amount:      formatAmount(m.Amount),
		Status:      m.Status.String(),
		Attempts:    m.Attempts,
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt,
		DeliveredAt: m.DeliveredAt,
	}
}

type vault struct {
	Asset     string `json:"asset"`
	Available string `json:"available"`
	Deposited string `json:"deposited"`
	Withdrawn string `json:"withdrawn"`
	Redeemed  string `json:"redeemed"`
}

func newVault(v domain.Vault) vault {
	return vault{
		Asset:     v.Asset,
		Available: formatAmount(v.Available()),
		Deposited: formatAmount(v.Deposited),
		Withdrawn: formatAmount(v.Withdrawn),
		Redeemed:  formatAmount(v.Redeemed),
	}
}

type redemption struct {
	ID               string `json:"id"`
	Requester        string `json:"requester"`
	Recipient        string `json:"recipient"`
	TokenAmount      string `json:"token_amount"`
	CollateralAmount string `json:"collateral_amount"`
	Rate             uint64 `json:"rate"`
	Timestamp        int64  `json:"timestamp"`
}

func newRedemption(r domain.Redemption) redemption {
	return redemption{
		ID:               r.ID,
		Requester:        r.Requester,
		Recipient:        r.Recipient,
		TokenAmount:      formatAmount(r.TokenAmount),
		CollateralAmount: formatAmount(r.CollateralAmount),
		Rate:             r.Rate,
		Timestamp:        r.Timestamp,
	}
}
