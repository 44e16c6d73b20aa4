package postgresdb

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

const postgresDriver = "pgx"

type txKey struct{}

// querier is implemented by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type DbConfig struct {
	DataSourceURL      string
	MigrationSourceURL string
}

type repoManager struct {
	pgxPool   *pgxpool.Pool
	writeLock *sync.Mutex

	accountRepository  domain.AccountRepository
	mintRepository     domain.MintRepository
	peerRepository     domain.PeerRepository
	messageRepository  domain.MessageRepository
	vaultRepository    domain.VaultRepository
	exchangeRepository domain.ExchangeRepository
}

// NewRepoManager connects to the postgres instance, runs the migrations and
// returns the repo manager backed by it.
func NewRepoManager(dbConfig DbConfig) (ports.RepoManager, error) {
	pgxPool, err := connect(dbConfig.DataSourceURL)
	if err != nil {
		return nil, err
	}

	if err := migrateDb(
		dbConfig.DataSourceURL, dbConfig.MigrationSourceURL,
	); err != nil {
		pgxPool.Close()
		return nil, err
	}

	rm := &repoManager{
		pgxPool:   pgxPool,
		writeLock: &sync.Mutex{},
	}
	rm.accountRepository = accountRepositoryImpl{rm}
	rm.mintRepository = mintRepositoryImpl{rm}
	rm.peerRepository = peerRepositoryImpl{rm}
	rm.messageRepository = messageRepositoryImpl{rm}
	rm.vaultRepository = vaultRepositoryImpl{rm}
	rm.exchangeRepository = exchangeRepositoryImpl{rm}
	return rm, nil
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) MintRepository() domain.MintRepository {
	return r.mintRepository
}

func (r *repoManager) PeerRepository() domain.PeerRepository {
	return r.peerRepository
}

func (r *repoManager) MessageRepository() domain.MessageRepository {
	return r.messageRepository
}

func (r *repoManager) VaultRepository() domain.VaultRepository {
	return r.vaultRepository
}

func (r *repoManager) ExchangeRepository() domain.ExchangeRepository {
	return r.exchangeRepository
}

func (r *repoManager) Close() {
	r.pgxPool.Close()
}

func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// Nested calls join the outer transaction.
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return handler(ctx)
	}

	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	if readOnly {
		opts = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	} else {
		r.writeLock.Lock()
		defer r.writeLock.Unlock()
	}

	var res interface{}
	err := r.execTx(ctx, opts, func(tx pgx.Tx) (err error) {
		res, err = handler(context.WithValue(ctx, txKey{}, tx))
		return
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *repoManager) execTx(
	ctx context.Context, opts pgx.TxOptions, txBody func(pgx.Tx) error,
) error {
	conn, err := r.pgxPool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	// Rollback is safe to call even if the tx is already closed, so if
	// the tx commits successfully, this is a no-op.
	defer func() {
		err := tx.Rollback(ctx)
		switch {
		// If the tx was already closed (it was successfully executed)
		// we do not need to log that error.
		case errors.Is(err, pgx.ErrTxClosed):
			return

		// If this is an unexpected error, log it.
		case err != nil:
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	if err := txBody(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// querier returns the transaction carried by ctx or the connection pool.
func (r *repoManager) querier(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pgxPool
}

// inTx runs fn in the transaction carried by ctx, or in a dedicated write
// transaction if there's none.
func (r *repoManager) inTx(ctx context.Context, fn func(q querier) error) error {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(tx)
	}
	_, err := r.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, fn(r.querier(ctx))
		},
	)
	return err
}

func connect(dataSource string) (*pgxpool.Pool, error) {
	return pgxpool.Connect(context.Background(), dataSource)
}

func migrateDb(dataSource, migrationSourceUrl string) error {
	pg := postgres.Postgres{}

	d, err := pg.Open(dataSource)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationSourceUrl,
		postgresDriver,
		d,
	)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

// Amounts are stored as NUMERIC(20, 0), wide enough for any uint64, and
// travel as text to avoid lossy conversions.

func amountParam(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}

func parseAmount(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func pageArgs(page *domain.Page) (limit interface{}, offset int) {
	if page == nil {
		return nil, 0
	}
	return page.Size, (page.Number - 1) * page.Size
}

// parseAmounts parses every src into the respective dst.
func parseAmounts(src []string, dst ...*uint64) error {
	for i, s := range src {
		v, err := parseAmount(s)
		if err != nil {
			return err
		}
		*dst[i] = v
	}
	return nil
}
