package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom(t *testing.T) {
	t.Parallel()

	t.Run("copies all rows", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		cols := []string{"id", "value"}
		mock.ExpectCopyFrom(pgx.Identifier{"readings"}, cols).WillReturnResult(2)

		n, err := CopyFrom(context.Background(), mock, "readings", cols, [][]any{
			{"r1", 740.0},
			{"r2", 14.0},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input skips the round trip", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		n, err := CopyFrom(context.Background(), mock, "readings", []string{"id"}, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
