package postgresdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

const (
	insertMintRecord = `INSERT INTO mint_record
(external_ref, recipient, amount, tag, consumed, timestamp)
VALUES ($1, $2, $3::numeric, $4, $5, $6)
ON CONFLICT (external_ref) DO NOTHING`
	selectMintRecord = `SELECT external_ref, recipient, amount::text, tag, consumed, timestamp
FROM mint_record WHERE external_ref = $1`
	listMintRecords = `SELECT external_ref, recipient, amount::text, tag, consumed, timestamp
FROM mint_record WHERE ($1 = '' OR tag = $1) ORDER BY seq LIMIT $2 OFFSET $3`
)

type mintRepositoryImpl struct {
	db *repoManager
}

func (r mintRepositoryImpl) AddMintRecord(
	ctx context.Context, record domain.MintRecord,
) error {
	return r.db.inTx(ctx, func(q querier) error {
		tag, err := q.Exec(
			ctx, insertMintRecord, record.ExternalRef, record.Recipient,
			amountParam(record.Amount), record.Tag, record.Consumed,
			record.Timestamp,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrReplayRejected
		}
		return nil
	})
}

func (r mintRepositoryImpl) GetMintRecord(
	ctx context.Context, externalRef string,
) (*domain.MintRecord, error) {
	record, err := scanMintRecord(
		r.db.querier(ctx).QueryRow(ctx, selectMintRecord, externalRef),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMintRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r mintRepositoryImpl) ListMintRecords(
	ctx context.Context, tag string, page *domain.Page,
) ([]domain.MintRecord, error) {
	limit, offset := pageArgs(page)
	rows, err := r.db.querier(ctx).Query(ctx, listMintRecords, tag, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.MintRecord, 0)
	for rows.Next() {
		record, err := scanMintRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanMintRecord(row pgx.Row) (*domain.MintRecord, error) {
	var record domain.MintRecord
	var amount string
	if err := row.Scan(
		&record.ExternalRef, &record.Recipient, &amount, &record.Tag,
		&record.Consumed, &record.Timestamp,
	); err != nil {
		return nil, err
	}
	if err := parseAmounts([]string{amount}, &record.Amount); err != nil {
		return nil, err
	}
	return &record, nil
}
