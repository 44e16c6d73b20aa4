package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

type txKey struct{}

type repoManager struct {
	store     *badgerhold.Store
	writeLock *sync.Mutex

	accountRepository  domain.AccountRepository
	mintRepository     domain.MintRepository
	peerRepository     domain.PeerRepository
	messageRepository  domain.MessageRepository
	vaultRepository    domain.VaultRepository
	exchangeRepository domain.ExchangeRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in
// baseDbDir. An empty baseDbDir opens an in-memory store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "state")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	rm := &repoManager{
		store:     store,
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

func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// Nested calls join the outer transaction.
	if _, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return handler(ctx)
	}

	if !readOnly {
		r.writeLock.Lock()
		defer r.writeLock.Unlock()
	}

	tx := r.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *repoManager) Close() {
	r.store.Close()
}

// withTx runs fn with the transaction carried by ctx, or with a dedicated
// one if there's none.
func (r *repoManager) withTx(
	ctx context.Context, update bool, fn func(tx *badger.Txn) error,
) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	if !update {
		return r.store.Badger().View(fn)
	}

	r.writeLock.Lock()
	defer r.writeLock.Unlock()
	return r.store.Badger().Update(fn)
}

// paged applies the given page to the query.
func paged(query *badgerhold.Query, page *domain.Page) *badgerhold.Query {
	if page == nil {
		return query
	}
	return query.Skip((page.Number - 1) * page.Size).Limit(page.Size)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
