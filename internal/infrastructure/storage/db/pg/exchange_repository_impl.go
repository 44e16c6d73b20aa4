package postgresdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

const (
	insertVault = `INSERT INTO vault (id, asset, deposited, withdrawn, redeemed)
VALUES (1, $1, $2::numeric, $3::numeric, $4::numeric) ON CONFLICT (id) DO NOTHING`
	selectVault = `SELECT asset, deposited::text, withdrawn::text, redeemed::text
FROM vault WHERE id = 1`
	selectVaultForUpdate = selectVault + ` FOR UPDATE`
	updateVault          = `UPDATE vault
SET deposited = $1::numeric, withdrawn = $2::numeric, redeemed = $3::numeric
WHERE id = 1`

	insertExchange = `INSERT INTO exchange (id, rate, status, updated_at)
VALUES (1, $1::numeric, $2, $3) ON CONFLICT (id) DO NOTHING`
	selectExchange          = `SELECT rate::text, status, updated_at FROM exchange WHERE id = 1`
	selectExchangeForUpdate = selectExchange + ` FOR UPDATE`
	updateExchange          = `UPDATE exchange
SET rate = $1::numeric, status = $2, updated_at = $3 WHERE id = 1`

	insertRedemption = `INSERT INTO redemption
(id, requester, recipient, token_amount, collateral_amount, rate, timestamp)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7)`
	listRedemptions = `SELECT id, requester, recipient, token_amount::text,
collateral_amount::text, rate::text, timestamp
FROM redemption WHERE ($1 = '' OR requester = $1 OR recipient = $1)
ORDER BY seq LIMIT $2 OFFSET $3`
)

type vaultRepositoryImpl struct {
	db *repoManager
}

func (r vaultRepositoryImpl) AddVault(ctx context.Context, vault domain.Vault) error {
	return r.db.inTx(ctx, func(q querier) error {
		_, err := q.Exec(
			ctx, insertVault, vault.Asset, amountParam(vault.Deposited),
			amountParam(vault.Withdrawn), amountParam(vault.Redeemed),
		)
		return err
	})
}

func (r vaultRepositoryImpl) GetVault(ctx context.Context) (*domain.Vault, error) {
	return getVault(ctx, r.db.querier(ctx), selectVault)
}

func (r vaultRepositoryImpl) UpdateVault(
	ctx context.Context, updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	return r.db.inTx(ctx, func(q querier) error {
		vault, err := getVault(ctx, q, selectVaultForUpdate)
		if err != nil {
			return err
		}
		updated, err := updateFn(vault)
		if err != nil {
			return err
		}
		_, err = q.Exec(
			ctx, updateVault, amountParam(updated.Deposited),
			amountParam(updated.Withdrawn), amountParam(updated.Redeemed),
		)
		return err
	})
}

func getVault(ctx context.Context, q querier, query string) (*domain.Vault, error) {
	var vault domain.Vault
	var deposited, withdrawn, redeemed string
	if err := q.QueryRow(ctx, query).Scan(
		&vault.Asset, &deposited, &withdrawn, &redeemed,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVaultNotFound
		}
		return nil, err
	}
	if err := parseAmounts(
		[]string{deposited, withdrawn, redeemed},
		&vault.Deposited, &vault.Withdrawn, &vault.Redeemed,
	); err != nil {
		return nil, err
	}
	return &vault, nil
}

type exchangeRepositoryImpl struct {
	db *repoManager
}

func (r exchangeRepositoryImpl) AddExchange(
	ctx context.Context, exchange domain.Exchange,
) error {
	return r.db.inTx(ctx, func(q querier) error {
		_, err := q.Exec(
			ctx, insertExchange, amountParam(exchange.Rate),
			int(exchange.Status), exchange.UpdatedAt,
		)
		return err
	})
}

func (r exchangeRepositoryImpl) GetExchange(
	ctx context.Context,
) (*domain.Exchange, error) {
	return getExchange(ctx, r.db.querier(ctx), selectExchange)
}

func (r exchangeRepositoryImpl) UpdateExchange(
	ctx context.Context, updateFn func(e *domain.Exchange) (*domain.Exchange, error),
) error {
	return r.db.inTx(ctx, func(q querier) error {
		exchange, err := getExchange(ctx, q, selectExchangeForUpdate)
		if err != nil {
			return err
		}
		updated, err := updateFn(exchange)
		if err != nil {
			return err
		}
		_, err = q.Exec(
			ctx, updateExchange, amountParam(updated.Rate),
			int(updated.Status), updated.UpdatedAt,
		)
		return err
	})
}

func (r exchangeRepositoryImpl) AddRedemption(
	ctx context.Context, rd domain.Redemption,
) error {
	return r.db.inTx(ctx, func(q querier) error {
		_, err := q.Exec(
			ctx, insertRedemption, rd.ID, rd.Requester, rd.Recipient,
			amountParam(rd.TokenAmount), amountParam(rd.CollateralAmount),
			amountParam(rd.Rate), rd.Timestamp,
		)
		return err
	})
}

func (r exchangeRepositoryImpl) ListRedemptions(
	ctx context.Context, account string, page *domain.Page,
) ([]domain.Redemption, error) {
	limit, offset := pageArgs(page)
	rows, err := r.db.querier(ctx).Query(
		ctx, listRedemptions, account, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	redemptions := make([]domain.Redemption, 0)
	for rows.Next() {
		var rd domain.Redemption
		var tokenAmount, collateralAmount, rate string
		if err := rows.Scan(
			&rd.ID, &rd.Requester, &rd.Recipient, &tokenAmount,
			&collateralAmount, &rate, &rd.Timestamp,
		); err != nil {
			return nil, err
		}
		if err := parseAmounts(
			[]string{tokenAmount, collateralAmount, rate},
			&rd.TokenAmount, &rd.CollateralAmount, &rd.Rate,
		); err != nil {
			return nil, err
		}
		redemptions = append(redemptions, rd)
	}
	return redemptions, rows.Err()
}

func getExchange(
	ctx context.Context, q querier, query string,
) (*domain.Exchange, error) {
	var exchange domain.Exchange
	var rate string
	var status int
	if err := q.QueryRow(ctx, query).Scan(
		&rate, &status, &exchange.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExchangeNotFound
		}
		return nil, err
	}
	if err := parseAmounts([]string{rate}, &exchange.Rate); err != nil {
		return nil, err
	}
	exchange.Status = domain.ExchangeStatus(status)
	return &exchange, nil
}
