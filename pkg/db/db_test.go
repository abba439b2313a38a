package db_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/xxc-git/zero2prod/pkg/db"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := db.Connect(context.Background(), db.Config{ConnectionString: "host=localhost port=notaport"})
	require.ErrorIs(t, err, db.ErrFailedToParseDBConfig)
}

func TestTx_ClosedTransaction(t *testing.T) {
	t.Parallel()

	tx := &db.Tx{}
	require.NoError(t, tx.Rollback(context.Background()), "rollback of a finished transaction is a no-op")
	require.ErrorIs(t, tx.Commit(context.Background()), pgx.ErrTxClosed)
}
