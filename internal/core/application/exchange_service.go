package application

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

// ExchangeService defines the methods of the application layer for the
// collateral vault and the fixed-rate redemption engine.
type ExchangeService interface {
	DepositCollateral(ctx context.Context, caller string, amount uint64) (*domain.Vault, error)
	WithdrawCollateral(ctx context.Context, caller string, amount uint64) (*domain.Vault, error)
	GetAvailableCollateral(ctx context.Context) (uint64, error)
	GetExchangeInfo(ctx context.Context) (*ExchangeInfo, error)
	// GetOutputAmount returns the collateral paid for tokenAmount at the
	// current rate.
	GetOutputAmount(ctx context.Context, tokenAmount uint64) (uint64, error)
	// CanRedeem returns whether the exchange is active and the vault covers
	// the output amount of tokenAmount.
	CanRedeem(ctx context.Context, tokenAmount uint64) (bool, error)
	// Redeem burns tokenAmount from caller's balance and pays the output
	// amount of collateral to recipient, or caller if empty.
	Redeem(
		ctx context.Context, caller string, tokenAmount uint64, recipient string,
	) (*domain.Redemption, error)
	Pause(ctx context.Context, caller string) error
	Resume(ctx context.Context, caller string) error
	SetExchangeRate(ctx context.Context, caller string, rate uint64) error
	ListRedemptions(
		ctx context.Context, account string, page *domain.Page,
	) ([]domain.Redemption, error)
}

type exchangeService struct {
	repoManager ports.RepoManager
	roles       Roles
}

// NewExchangeService is a constructor function for ExchangeService. It
// creates the vault for collateralAsset and the exchange with the given
// initial rate if they don't exist yet. A rate already stored always wins
// over initialRate.
func NewExchangeService(
	repoManager ports.RepoManager, roles Roles,
	collateralAsset string, initialRate uint64,
) (ExchangeService, error) {
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}
	if len(roles.Operator) <= 0 {
		return nil, ErrMissingOperator
	}
	vault, err := domain.NewVault(collateralAsset)
	if err != nil {
		return nil, err
	}
	exchange, err := domain.NewExchange(initialRate)
	if err != nil {
		return nil, err
	}

	if _, err := repoManager.RunTransaction(
		context.Background(), false,
		func(ctx context.Context) (interface{}, error) {
			if _, err := repoManager.VaultRepository().GetVault(ctx); err != nil {
				if !errors.Is(err, domain.ErrVaultNotFound) {
					return nil, err
				}
				if err := repoManager.VaultRepository().AddVault(
					ctx, *vault,
				); err != nil {
					return nil, err
				}
			}
			if _, err := repoManager.ExchangeRepository().GetExchange(ctx); err != nil {
				if !errors.Is(err, domain.ErrExchangeNotFound) {
					return nil, err
				}
				if err := repoManager.ExchangeRepository().AddExchange(
					ctx, *exchange,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		return nil, err
	}

	return &exchangeService{repoManager, roles}, nil
}

func (s *exchangeService) DepositCollateral(
	ctx context.Context, caller string, amount uint64,
) (*domain.Vault, error) {
	if !s.roles.IsOperator(caller) {
		return nil, domain.ErrUnauthorized
	}

	vault, err := s.updateVault(ctx, func(v *domain.Vault) error {
		return v.Deposit(amount)
	}, nil)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"amount":    amount,
		"available": vault.Available(),
	}).Info("collateral deposited")
	return vault, nil
}

func (s *exchangeService) WithdrawCollateral(
	ctx context.Context, caller string, amount uint64,
) (*domain.Vault, error) {
	if !s.roles.IsOperator(caller) {
		return nil, domain.ErrUnauthorized
	}

	vault, err := s.updateVault(ctx, func(v *domain.Vault) error {
		return v.Withdraw(amount)
	}, func(ctx context.Context) error {
		return s.repoManager.AccountRepository().UpdateAccount(
			ctx, caller, func(a *domain.Account) (*domain.Account, error) {
				if err := a.CreditCollateral(amount); err != nil {
					return nil, err
				}
				return a, nil
			},
		)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"amount":    amount,
		"available": vault.Available(),
	}).Info("collateral withdrawn")
	return vault, nil
}

func (s *exchangeService) GetAvailableCollateral(ctx context.Context) (uint64, error) {
	vault, err := s.getVault(ctx)
	if err != nil {
		return 0, err
	}
	return vault.Available(), nil
}

func (s *exchangeService) GetExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	info, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			vault, err := s.repoManager.VaultRepository().GetVault(ctx)
			if err != nil {
				return nil, err
			}
			exchange, err := s.repoManager.ExchangeRepository().GetExchange(ctx)
			if err != nil {
				return nil, err
			}
			return &ExchangeInfo{
				Rate:                exchange.Rate,
				BasisPoints:         domain.BasisPoints,
				Status:              exchange.Status,
				CollateralAsset:     vault.Asset,
				AvailableCollateral: vault.Available(),
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return info.(*ExchangeInfo), nil
}

func (s *exchangeService) GetOutputAmount(
	ctx context.Context, tokenAmount uint64,
) (uint64, error) {
	exchange, err := s.getExchange(ctx)
	if err != nil {
		return 0, err
	}
	return exchange.Quote(tokenAmount)
}

func (s *exchangeService) CanRedeem(
	ctx context.Context, tokenAmount uint64,
) (bool, error) {
	info, err := s.GetExchangeInfo(ctx)
	if err != nil {
		return false, err
	}
	if info.Status != domain.ExchangeActive {
		return false, nil
	}
	out, err := domain.Exchange{Rate: info.Rate}.Quote(tokenAmount)
	if err != nil {
		return false, err
	}
	return out <= info.AvailableCollateral, nil
}

func (s *exchangeService) Redeem(
	ctx context.Context, caller string, tokenAmount uint64, recipient string,
) (*domain.Redemption, error) {
	if len(recipient) <= 0 {
		recipient = caller
	}
	if err := validateTransfer(caller, recipient, tokenAmount); err != nil {
		return nil, err
	}

	redemption, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			exchange, err := s.repoManager.ExchangeRepository().GetExchange(ctx)
			if err != nil {
				return nil, err
			}
			if !exchange.IsActive() {
				return nil, domain.ErrExchangePaused
			}
			out, err := exchange.Quote(tokenAmount)
			if err != nil {
				return nil, err
			}

			if err := s.repoManager.VaultRepository().UpdateVault(
				ctx, func(v *domain.Vault) (*domain.Vault, error) {
					// A zero output amount is not a payout, the burn still
					// happens in favor of the vault.
					if out == 0 {
						return v, nil
					}
					if err := v.PayOut(out); err != nil {
						return nil, err
					}
					return v, nil
				},
			); err != nil {
				return nil, err
			}
			if err := debit(ctx, s.repoManager, caller, tokenAmount); err != nil {
				return nil, err
			}
			if err := updateSupply(ctx, s.repoManager, func(supply *domain.Supply) error {
				return supply.AddRedeemed(tokenAmount)
			}); err != nil {
				return nil, err
			}
			if out > 0 {
				if err := s.repoManager.AccountRepository().UpdateAccount(
					ctx, recipient, func(a *domain.Account) (*domain.Account, error) {
						if err := a.CreditCollateral(out); err != nil {
							return nil, err
						}
						return a, nil
					},
				); err != nil {
					return nil, err
				}
			}

			redemption := domain.NewRedemption(
				caller, recipient, tokenAmount, out, exchange.Rate,
			)
			if err := s.repoManager.ExchangeRepository().AddRedemption(
				ctx, *redemption,
			); err != nil {
				return nil, err
			}
			return redemption, nil
		},
	)
	if err != nil {
		return nil, err
	}

	r := redemption.(*domain.Redemption)
	log.WithFields(log.Fields{
		"requester":  r.Requester,
		"recipient":  r.Recipient,
		"amount":     r.TokenAmount,
		"collateral": r.CollateralAmount,
	}).Info("redeemed")
	return r, nil
}

func (s *exchangeService) Pause(ctx context.Context, caller string) error {
	if err := s.updateExchange(ctx, caller, func(e *domain.Exchange) error {
		e.Pause()
		return nil
	}); err != nil {
		return err
	}
	log.Info("exchange paused")
	return nil
}

func (s *exchangeService) Resume(ctx context.Context, caller string) error {
	if err := s.updateExchange(ctx, caller, func(e *domain.Exchange) error {
		e.Resume()
		return nil
	}); err != nil {
		return err
	}
	log.Info("exchange resumed")
	return nil
}

func (s *exchangeService) SetExchangeRate(
	ctx context.Context, caller string, rate uint64,
) error {
	if err := s.updateExchange(ctx, caller, func(e *domain.Exchange) error {
		return e.ChangeRate(rate)
	}); err != nil {
		return err
	}
	log.Infof("exchange rate set to %d/%d", rate, domain.BasisPoints)
	return nil
}

func (s *exchangeService) ListRedemptions(
	ctx context.Context, account string, page *domain.Page,
) ([]domain.Redemption, error) {
	redemptions, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.ExchangeRepository().ListRedemptions(
				ctx, account, page,
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return redemptions.([]domain.Redemption), nil
}

func (s *exchangeService) getVault(ctx context.Context) (*domain.Vault, error) {
	vault, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.VaultRepository().GetVault(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return vault.(*domain.Vault), nil
}

func (s *exchangeService) getExchange(ctx context.Context) (*domain.Exchange, error) {
	exchange, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.ExchangeRepository().GetExchange(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return exchange.(*domain.Exchange), nil
}

// updateVault applies fn to the vault and runs the optional then in the same
// transaction. It returns the updated vault.
func (s *exchangeService) updateVault(
	ctx context.Context, fn func(v *domain.Vault) error,
	then func(ctx context.Context) error,
) (*domain.Vault, error) {
	vault, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			repo := s.repoManager.VaultRepository()
			if err := repo.UpdateVault(
				ctx, func(v *domain.Vault) (*domain.Vault, error) {
					if err := fn(v); err != nil {
						return nil, err
					}
					return v, nil
				},
			); err != nil {
				return nil, err
			}
			if then != nil {
				if err := then(ctx); err != nil {
					return nil, err
				}
			}
			return repo.GetVault(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return vault.(*domain.Vault), nil
}

func (s *exchangeService) updateExchange(
	ctx context.Context, caller string, fn func(e *domain.Exchange) error,
) error {
	if !s.roles.IsOperator(caller) {
		return domain.ErrUnauthorized
	}
	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.ExchangeRepository().UpdateExchange(
				ctx, func(e *domain.Exchange) (*domain.Exchange, error) {
					if err := fn(e); err != nil {
						return nil, err
					}
					return e, nil
				},
			)
		},
	)
	return err
}
