package postgres

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/pkg/logger"
)

func TestCreateIndexesFailsWithoutOpenCartIndex(t *testing.T) {
	db, mock := newMockDB(t)
	migration := NewMigration(db, &config.Config{}, logger.Discard())

	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_open`).
		WillReturnError(errors.New("permission denied for table carts"))

	err := migration.CreateIndexes()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open cart index")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIndexesToleratesLookupIndexFailures(t *testing.T) {
	db, mock := newMockDB(t)
	migration := NewMigration(db, &config.Config{}, logger.Discard())

	mock.ExpectExec(`idx_carts_user_open`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_cart_items_cart_created`).WillReturnError(errors.New("lock timeout"))
	mock.ExpectExec(`idx_orders_customer_placed`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_orders_seller_placed`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_orders_status`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, migration.CreateIndexes())
	assert.NoError(t, mock.ExpectationsWereMet())
}
