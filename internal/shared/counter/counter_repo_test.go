package counter_test

import (
	"context"
	"errors"
	"testing"

	"go-hrms/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupCounterTest(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	return gdb, mock, func() { db.Close() }
}

func TestCounterRepository_NextValue(t *testing.T) {
	ctx := context.Background()

	t.Run("first call on a fresh counter returns base+1", func(t *testing.T) {
		gdb, mock, cleanup := setupCounterTest(t)
		defer cleanup()

		mock.ExpectQuery("INSERT INTO counters").
			WithArgs(counter.EmployeeNumberSeq, int64(counter.DefaultBase+1)).
			WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(counter.DefaultBase + 1)))

		repo := counter.NewRepository(gdb)
		got, err := repo.NextValue(ctx, counter.EmployeeNumberSeq)
		assert.NoError(t, err)
		assert.Equal(t, int64(2025), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("subsequent calls return the incremented value", func(t *testing.T) {
		gdb, mock, cleanup := setupCounterTest(t)
		defer cleanup()

		mock.ExpectQuery("INSERT INTO counters").
			WithArgs(counter.InvoiceNumberSeq, int64(counter.DefaultBase+1)).
			WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(2031)))

		repo := counter.NewRepository(gdb)
		got, err := repo.NextValue(ctx, counter.InvoiceNumberSeq)
		assert.NoError(t, err)
		assert.Equal(t, int64(2031), got)
	})

	t.Run("datastore error surfaces and returns zero", func(t *testing.T) {
		gdb, mock, cleanup := setupCounterTest(t)
		defer cleanup()

		mock.ExpectQuery("INSERT INTO counters").
			WillReturnError(errors.New("connection reset"))

		repo := counter.NewRepository(gdb)
		got, err := repo.NextValue(ctx, counter.EmployeeNumberSeq)
		assert.Error(t, err)
		assert.Zero(t, got)
	})
}
