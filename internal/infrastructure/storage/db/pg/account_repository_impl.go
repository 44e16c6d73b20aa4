package postgresdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

const (
	selectAccount = `SELECT address, balance::text, collateral_balance::text
FROM account WHERE address = $1`
	selectAccountForUpdate = selectAccount + ` FOR UPDATE`
	upsertAccount          = `INSERT INTO account (address, balance, collateral_balance)
VALUES ($1, $2::numeric, $3::numeric)
ON CONFLICT (address) DO UPDATE
SET balance = EXCLUDED.balance, collateral_balance = EXCLUDED.collateral_balance`
	listAccounts = `SELECT address, balance::text, collateral_balance::text
FROM account ORDER BY address LIMIT $1 OFFSET $2`

	selectAllowance = `SELECT owner, spender, amount::text
FROM allowance WHERE owner = $1 AND spender = $2`
	upsertAllowance = `INSERT INTO allowance (owner, spender, amount)
VALUES ($1, $2, $3::numeric)
ON CONFLICT (owner, spender) DO UPDATE SET amount = EXCLUDED.amount`

	selectSupply = `SELECT minted::text, received::text, sent::text, redeemed::text
FROM supply WHERE id = 1`
	upsertSupply = `INSERT INTO supply (id, minted, received, sent, redeemed)
VALUES (1, $1::numeric, $2::numeric, $3::numeric, $4::numeric)
ON CONFLICT (id) DO UPDATE SET minted = EXCLUDED.minted,
received = EXCLUDED.received, sent = EXCLUDED.sent, redeemed = EXCLUDED.redeemed`
)

type accountRepositoryImpl struct {
	db *repoManager
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, address string,
) (*domain.Account, error) {
	return getAccount(ctx, r.db.querier(ctx), selectAccount, address)
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address string, updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	return r.db.inTx(ctx, func(q querier) error {
		account, err := getAccount(ctx, q, selectAccountForUpdate, address)
		if err != nil {
			return err
		}
		updated, err := updateFn(account)
		if err != nil {
			return err
		}
		_, err = q.Exec(
			ctx, upsertAccount, address,
			amountParam(updated.Balance), amountParam(updated.CollateralBalance),
		)
		return err
	})
}

func (r accountRepositoryImpl) ListAccounts(
	ctx context.Context, page *domain.Page,
) ([]domain.Account, error) {
	limit, offset := pageArgs(page)
	rows, err := r.db.querier(ctx).Query(ctx, listAccounts, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		var balance, collateral string
		if err := rows.Scan(&account.Address, &balance, &collateral); err != nil {
			return nil, err
		}
		if err := parseAmounts(
			[]string{balance, collateral},
			&account.Balance, &account.CollateralBalance,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r accountRepositoryImpl) GetAllowance(
	ctx context.Context, owner, spender string,
) (*domain.Allowance, error) {
	return getAllowance(ctx, r.db.querier(ctx), owner, spender)
}

func (r accountRepositoryImpl) UpdateAllowance(
	ctx context.Context, owner, spender string,
	updateFn func(a *domain.Allowance) (*domain.Allowance, error),
) error {
	return r.db.inTx(ctx, func(q querier) error {
		allowance, err := getAllowance(ctx, q, owner, spender)
		if err != nil {
			return err
		}
		updated, err := updateFn(allowance)
		if err != nil {
			return err
		}
		_, err = q.Exec(
			ctx, upsertAllowance, updated.Owner, updated.Spender,
			amountParam(updated.Amount),
		)
		return err
	})
}

func (r accountRepositoryImpl) GetSupply(ctx context.Context) (*domain.Supply, error) {
	return getSupply(ctx, r.db.querier(ctx))
}

func (r accountRepositoryImpl) UpdateSupply(
	ctx context.Context, updateFn func(s *domain.Supply) (*domain.Supply, error),
) error {
	return r.db.inTx(ctx, func(q querier) error {
		supply, err := getSupply(ctx, q)
		if err != nil {
			return err
		}
		updated, err := updateFn(supply)
		if err != nil {
			return err
		}
		_, err = q.Exec(
			ctx, upsertSupply,
			amountParam(updated.Minted), amountParam(updated.Received),
			amountParam(updated.Sent), amountParam(updated.Redeemed),
		)
		return err
	})
}

func getAccount(
	ctx context.Context, q querier, query, address string,
) (*domain.Account, error) {
	account := &domain.Account{Address: address}
	var balance, collateral string
	if err := q.QueryRow(ctx, query, address).Scan(
		&account.Address, &balance, &collateral,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account, nil
		}
		return nil, err
	}
	if err := parseAmounts(
		[]string{balance, collateral},
		&account.Balance, &account.CollateralBalance,
	); err != nil {
		return nil, err
	}
	return account, nil
}

func getAllowance(
	ctx context.Context, q querier, owner, spender string,
) (*domain.Allowance, error) {
	allowance := &domain.Allowance{Owner: owner, Spender: spender}
	var amount string
	if err := q.QueryRow(ctx, selectAllowance, owner, spender).Scan(
		&allowance.Owner, &allowance.Spender, &amount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return allowance, nil
		}
		return nil, err
	}
	if err := parseAmounts([]string{amount}, &allowance.Amount); err != nil {
		return nil, err
	}
	return allowance, nil
}

func getSupply(ctx context.Context, q querier) (*domain.Supply, error) {
	supply := &domain.Supply{}
	var minted, received, sent, redeemed string
	if err := q.QueryRow(ctx, selectSupply).Scan(
		&minted, &received, &sent, &redeemed,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return supply, nil
		}
		return nil, err
	}
	if err := parseAmounts(
		[]string{minted, received, sent, redeemed},
		&supply.Minted, &supply.Received, &supply.Sent, &supply.Redeemed,
	); err != nil {
		return nil, err
	}
	return supply, nil
}
