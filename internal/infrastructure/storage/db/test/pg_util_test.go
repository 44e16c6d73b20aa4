package db_test

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const truncateQuery = `TRUNCATE TABLE account, allowance, supply, mint_record,
peer, message, vault, exchange, redemption`

func truncatePgTables(addr string) error {
	db, err := sql.Open("pgx", addr)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(context.Background(), truncateQuery)
	return err
}
