package inmemory

import (
	"context"

	"github.com/zakoken/zkkd/internal/core/domain"
)

type vaultRepositoryImpl struct {
	db *repoManager
}

func (r vaultRepositoryImpl) AddVault(ctx context.Context, vault domain.Vault) error {
	return r.db.write(ctx, func(s *state) error {
		if s.vault == nil {
			s.vault = &vault
		}
		return nil
	})
}

func (r vaultRepositoryImpl) GetVault(ctx context.Context) (*domain.Vault, error) {
	var vault *domain.Vault
	err := r.db.read(ctx, func(s *state) error {
		if s.vault == nil {
			return domain.ErrVaultNotFound
		}
		v := *s.vault
		vault = &v
		return nil
	})
	return vault, err
}

func (r vaultRepositoryImpl) UpdateVault(
	ctx context.Context, updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	return r.db.write(ctx, func(s *state) error {
		if s.vault == nil {
			return domain.ErrVaultNotFound
		}
		v := *s.vault
		updated, err := updateFn(&v)
		if err != nil {
			return err
		}
		s.vault = updated
		return nil
	})
}

type exchangeRepositoryImpl struct {
	db *repoManager
}

func (r exchangeRepositoryImpl) AddExchange(
	ctx context.Context, exchange domain.Exchange,
) error {
	return r.db.write(ctx, func(s *state) error {
		if s.exchange == nil {
			s.exchange = &exchange
		}
		return nil
	})
}

func (r exchangeRepositoryImpl) GetExchange(
	ctx context.Context,
) (*domain.Exchange, error) {
	var exchange *domain.Exchange
	err := r.db.read(ctx, func(s *state) error {
		if s.exchange == nil {
			return domain.ErrExchangeNotFound
		}
		e := *s.exchange
		exchange = &e
		return nil
	})
	return exchange, err
}

func (r exchangeRepositoryImpl) UpdateExchange(
	ctx context.Context, updateFn func(e *domain.Exchange) (*domain.Exchange, error),
) error {
	return r.db.write(ctx, func(s *state) error {
		if s.exchange == nil {
			return domain.ErrExchangeNotFound
		}
		e := *s.exchange
		updated, err := updateFn(&e)
		if err != nil {
			return err
		}
		s.exchange = updated
		return nil
	})
}

func (r exchangeRepositoryImpl) AddRedemption(
	ctx context.Context, redemption domain.Redemption,
) error {
	return r.db.write(ctx, func(s *state) error {
		s.redemptions = append(s.redemptions, redemption)
		return nil
	})
}

func (r exchangeRepositoryImpl) ListRedemptions(
	ctx context.Context, account string, page *domain.Page,
) ([]domain.Redemption, error) {
	var redemptions []domain.Redemption
	err := r.db.read(ctx, func(s *state) error {
		filtered := make([]domain.Redemption, 0)
		for _, rd := range s.redemptions {
			if len(account) > 0 &&
				rd.Requester != account && rd.Recipient != account {
				continue
			}
			filtered = append(filtered, rd)
		}
		start, end := paginate(len(filtered), page)
		redemptions = filtered[start:end]
		return nil
	})
	return redemptions, err
}
