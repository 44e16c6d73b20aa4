package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
	dbbadger "github.com/zakoken/zkkd/internal/infrastructure/storage/db/badger"
	"github.com/zakoken/zkkd/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/zakoken/zkkd/internal/infrastructure/storage/db/pg"
)

const pgAddrEnv = "ZKK_TEST_PG_ADDR"

var (
	sepolia     = uint32(40161)
	baseSepolia = uint32(40245)
)

type repoManager struct {
	Name      string
	DBManager ports.RepoManager
}

func (r repoManager) read(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), true, query)
}

func (r repoManager) write(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), false, query)
}

// createRepoManagers returns a fresh repo manager for every supported
// backend. Postgres is included only if ZKK_TEST_PG_ADDR is defined.
func createRepoManagers(t *testing.T) []repoManager {
	inmemoryDBManager := inmemory.NewRepoManager()

	badgerInMemoryDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	badgerDBManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)

	managers := []repoManager{
		{Name: "inmemory", DBManager: inmemoryDBManager},
		{Name: "badger-inmemory", DBManager: badgerInMemoryDBManager},
		{Name: "badger", DBManager: badgerDBManager},
	}

	if addr := os.Getenv(pgAddrEnv); len(addr) > 0 {
		pgDBManager, err := postgresdb.NewRepoManager(postgresdb.DbConfig{
			DataSourceURL:      addr,
			MigrationSourceURL: "file://../pg/migration",
		})
		require.NoError(t, err)
		require.NoError(t, truncatePgTables(addr))
		managers = append(managers, repoManager{Name: "pg", DBManager: pgDBManager})
	}

	t.Cleanup(func() {
		for _, m := range managers {
			m.DBManager.Close()
		}
	})
	return managers
}

func randomAddress() string {
	return "0x" + randomHex(20)
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomId() string {
	return uuid.New().String()
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func newMintRecord(t *testing.T, tag string, amount uint64) *domain.MintRecord {
	record, err := domain.NewMintRecord(randomHex(32), randomAddress(), amount, tag)
	require.NoError(t, err)
	return record
}
