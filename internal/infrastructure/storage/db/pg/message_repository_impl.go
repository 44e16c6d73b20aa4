package postgresdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

const (
	messageColumns = `id, direction, src_domain, dst_domain, sender, recipient,
amount::text, status, attempts, last_error, created_at, delivered_at`
	insertMessage = `INSERT INTO message
(id, direction, src_domain, dst_domain, sender, recipient, amount, status,
attempts, last_error, created_at, delivered_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12)
ON CONFLICT (direction, id) DO NOTHING`
	selectMessage = `SELECT ` + messageColumns + `
FROM message WHERE direction = $1 AND id = $2`
	selectMessageForUpdate = selectMessage + ` FOR UPDATE`
	updateMessage          = `UPDATE message
SET status = $3, attempts = $4, last_error = $5, delivered_at = $6
WHERE direction = $1 AND id = $2`
	selectPendingMessages = `SELECT ` + messageColumns + `
FROM message WHERE direction = $1 AND status = $2 ORDER BY seq LIMIT $3`
	listMessages = `SELECT ` + messageColumns + `
FROM message WHERE direction = $1 ORDER BY seq LIMIT $2 OFFSET $3`
)

type messageRepositoryImpl struct {
	db *repoManager
}

func (r messageRepositoryImpl) AddMessage(
	ctx context.Context, m domain.Message,
) error {
	return r.db.inTx(ctx, func(q querier) error {
		tag, err := q.Exec(
			ctx, insertMessage, m.ID, int(m.Direction),
			int64(m.SrcDomain), int64(m.DstDomain), m.Sender, m.Recipient,
			amountParam(m.Amount), int(m.Status), m.Attempts, m.LastError,
			m.CreatedAt, m.DeliveredAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrMessageReplayed
		}
		return nil
	})
}

func (r messageRepositoryImpl) GetMessage(
	ctx context.Context, direction domain.MessageDirection, id string,
) (*domain.Message, error) {
	return getMessage(ctx, r.db.querier(ctx), selectMessage, direction, id)
}

func (r messageRepositoryImpl) UpdateMessage(
	ctx context.Context, direction domain.MessageDirection, id string,
	updateFn func(m *domain.Message) (*domain.Message, error),
) error {
	return r.db.inTx(ctx, func(q querier) error {
		m, err := getMessage(ctx, q, selectMessageForUpdate, direction, id)
		if err != nil {
			return err
		}
		updated, err := updateFn(m)
		if err != nil {
			return err
		}
		_, err = q.Exec(
			ctx, updateMessage, int(direction), id, int(updated.Status),
			updated.Attempts, updated.LastError, updated.DeliveredAt,
		)
		return err
	})
}

func (r messageRepositoryImpl) GetPendingMessages(
	ctx context.Context, limit int,
) ([]domain.Message, error) {
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}
	return queryMessages(
		ctx, r.db.querier(ctx), selectPendingMessages,
		int(domain.MessageOutbound), int(domain.MessagePending), limitArg,
	)
}

func (r messageRepositoryImpl) ListMessages(
	ctx context.Context, direction domain.MessageDirection, page *domain.Page,
) ([]domain.Message, error) {
	limit, offset := pageArgs(page)
	return queryMessages(
		ctx, r.db.querier(ctx), listMessages, int(direction), limit, offset,
	)
}

func getMessage(
	ctx context.Context, q querier, query string,
	direction domain.MessageDirection, id string,
) (*domain.Message, error) {
	m, err := scanMessage(q.QueryRow(ctx, query, int(direction), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

func queryMessages(
	ctx context.Context, q querier, query string, args ...interface{},
) ([]domain.Message, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	var direction, status int
	var srcDomain, dstDomain int64
	var amount string
	if err := row.Scan(
		&m.ID, &direction, &srcDomain, &dstDomain, &m.Sender, &m.Recipient,
		&amount, &status, &m.Attempts, &m.LastError, &m.CreatedAt,
		&m.DeliveredAt,
	); err != nil {
		return nil, err
	}
	if err := parseAmounts([]string{amount}, &m.Amount); err != nil {
		return nil, err
	}
	m.Direction = domain.MessageDirection(direction)
	m.Status = domain.MessageStatus(status)
	m.SrcDomain = uint32(srcDomain)
	m.DstDomain = uint32(dstDomain)
	return &m, nil
}
