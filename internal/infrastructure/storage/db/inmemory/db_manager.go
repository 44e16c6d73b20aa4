package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

type txKey struct{}

// state is the whole in-memory state space. A committed state is never
// mutated, write transactions work on a copy that replaces it on success.
type state struct {
	accounts    map[string]domain.Account
	allowances  map[string]domain.Allowance
	supply      domain.Supply
	mints       map[string]domain.MintRecord
	mintOrder   []string
	peers       map[uint32]domain.Peer
	messages    map[string]domain.Message
	msgOrder    []string
	vault       *domain.Vault
	exchange    *domain.Exchange
	redemptions []domain.Redemption
}

func newState() *state {
	return &state{
		accounts:   make(map[string]domain.Account),
		allowances: make(map[string]domain.Allowance),
		mints:      make(map[string]domain.MintRecord),
		peers:      make(map[uint32]domain.Peer),
		messages:   make(map[string]domain.Message),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:    make(map[string]domain.Account, len(s.accounts)),
		allowances:  make(map[string]domain.Allowance, len(s.allowances)),
		supply:      s.supply,
		mints:       make(map[string]domain.MintRecord, len(s.mints)),
		mintOrder:   append([]string(nil), s.mintOrder...),
		peers:       make(map[uint32]domain.Peer, len(s.peers)),
		messages:    make(map[string]domain.Message, len(s.messages)),
		msgOrder:    append([]string(nil), s.msgOrder...),
		redemptions: append([]domain.Redemption(nil), s.redemptions...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.allowances {
		c.allowances[k] = v
	}
	for k, v := range s.mints {
		c.mints[k] = v
	}
	for k, v := range s.peers {
		c.peers[k] = v
	}
	for k, v := range s.messages {
		c.messages[k] = v
	}
	if s.vault != nil {
		v := *s.vault
		c.vault = &v
	}
	if s.exchange != nil {
		e := *s.exchange
		c.exchange = &e
	}
	return c
}

type tx struct {
	state    *state
	readOnly bool
}

type repoManager struct {
	lock      *sync.RWMutex
	writeLock *sync.Mutex
	current   *state

	accountRepository  domain.AccountRepository
	mintRepository     domain.MintRepository
	peerRepository     domain.PeerRepository
	messageRepository  domain.MessageRepository
	vaultRepository    domain.VaultRepository
	exchangeRepository domain.ExchangeRepository
}

// NewRepoManager returns a RepoManager keeping the whole state in memory.
func NewRepoManager() ports.RepoManager {
	rm := &repoManager{
		lock:      &sync.RWMutex{},
		writeLock: &sync.Mutex{},
		current:   newState(),
	}
	rm.accountRepository = accountRepositoryImpl{rm}
	rm.mintRepository = mintRepositoryImpl{rm}
	rm.peerRepository = peerRepositoryImpl{rm}
	rm.messageRepository = messageRepositoryImpl{rm}
	rm.vaultRepository = vaultRepositoryImpl{rm}
	rm.exchangeRepository = exchangeRepositoryImpl{rm}
	return rm
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
	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		if !readOnly && t.readOnly {
			return nil, ErrReadOnlyTx
		}
		return handler(ctx)
	}

	if readOnly {
		r.lock.RLock()
		snapshot := r.current
		r.lock.RUnlock()

		return handler(context.WithValue(ctx, txKey{}, &tx{snapshot, true}))
	}

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	r.lock.RLock()
	working := r.current.clone()
	r.lock.RUnlock()

	res, err := handler(context.WithValue(ctx, txKey{}, &tx{working, false}))
	if err != nil {
		return nil, err
	}

	r.lock.Lock()
	r.current = working
	r.lock.Unlock()

	return res, nil
}

func (r *repoManager) Close() {}

// read runs fn against the state of the transaction in ctx, or against the
// last committed one.
func (r *repoManager) read(ctx context.Context, fn func(s *state) error) error {
	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		return fn(t.state)
	}

	r.lock.RLock()
	snapshot := r.current
	r.lock.RUnlock()
	return fn(snapshot)
}

// write runs fn against the state of the transaction in ctx, or in a
// dedicated transaction if ctx carries none.
func (r *repoManager) write(ctx context.Context, fn func(s *state) error) error {
	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		if t.readOnly {
			return ErrReadOnlyTx
		}
		return fn(t.state)
	}

	_, err := r.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, fn(ctx.Value(txKey{}).(*tx).state)
		},
	)
	return err
}

func paginate(n int, page *domain.Page) (int, int) {
	return page.Bounds(n)
}

func sortedKeys(m map[string]domain.Account) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
