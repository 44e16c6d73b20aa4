package application

import (
	"fmt"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/ports"
	dbbadger "github.com/zakoken/zkkd/internal/infrastructure/storage/db/badger"
	"github.com/zakoken/zkkd/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/zakoken/zkkd/internal/infrastructure/storage/db/pg"
)

const (
	DBInMemory = "inmemory"
	DBBadger   = "badger"
	DBPostgres = "postgres"
)

var (
	SupportedDBType = map[string]struct{}{
		DBInMemory: {},
		DBBadger:   {},
		DBPostgres: {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the datadir for badger and a postgresdb.DbConfig for
	// postgres. It's ignored for inmemory.
	DBConfig interface{}

	Roles           Roles
	LocalDomain     uint32
	LocalAddress    string
	ProjectTag      string
	CollateralAsset string
	ExchangeRate    uint64

	// Messenger is optional, without it no relayer is started.
	Messenger     ports.Messenger
	RelayerConfig RelayerConfig

	repo      ports.RepoManager
	ledger    LedgerService
	mint      MintService
	transport TransportService
	exchange  ExchangeService
	relayer   Relayer
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
	}
	if len(c.Roles.Operator) <= 0 {
		return ErrMissingOperator
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.transportService(); err != nil {
		return err
	}
	if _, err := c.exchangeService(); err != nil {
		return err
	}
	if c.Messenger != nil {
		if _, err := c.relayerService(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) LedgerService() LedgerService {
	svc, _ := c.ledgerService()
	return svc
}

func (c *Config) MintService() MintService {
	svc, _ := c.mintService()
	return svc
}

func (c *Config) TransportService() TransportService {
	svc, _ := c.transportService()
	return svc
}

func (c *Config) ExchangeService() ExchangeService {
	svc, _ := c.exchangeService()
	return svc
}

// Relayer returns nil if no messenger is configured.
func (c *Config) Relayer() Relayer {
	svc, _ := c.relayerService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			var logger badger.Logger
			if log.GetLevel() >= log.DebugLevel {
				logger = log.StandardLogger()
			}
			repoManager, err := dbbadger.NewRepoManager(datadir, logger)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBPostgres:
			dbConfig, ok := c.DBConfig.(postgresdb.DbConfig)
			if !ok {
				return nil, fmt.Errorf("invalid postgres db config")
			}
			repoManager, err := postgresdb.NewRepoManager(dbConfig)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) ledgerService() (LedgerService, error) {
	if c.ledger == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		c.ledger = NewLedgerService(repo)
	}
	return c.ledger, nil
}

func (c *Config) mintService() (MintService, error) {
	if c.mint == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		c.mint = NewMintService(repo, c.Roles, c.ProjectTag)
	}
	return c.mint, nil
}

func (c *Config) transportService() (TransportService, error) {
	if c.transport == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		transport, err := NewTransportService(
			repo, c.Roles, c.LocalDomain, c.LocalAddress,
		)
		if err != nil {
			return nil, err
		}
		c.transport = transport
	}
	return c.transport, nil
}

func (c *Config) exchangeService() (ExchangeService, error) {
	if c.exchange == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		exchange, err := NewExchangeService(
			repo, c.Roles, c.CollateralAsset, c.ExchangeRate,
		)
		if err != nil {
			return nil, err
		}
		c.exchange = exchange
	}
	return c.exchange, nil
}

func (c *Config) relayerService() (Relayer, error) {
	if c.Messenger == nil {
		return nil, nil
	}
	if c.relayer == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		relayer, err := NewRelayer(repo, c.Messenger, c.RelayerConfig)
		if err != nil {
			return nil, err
		}
		c.relayer = relayer
	}
	return c.relayer, nil
}
