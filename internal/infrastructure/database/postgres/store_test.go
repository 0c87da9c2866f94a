package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/your-org/rental-backend/internal/domain/cart"
	"github.com/your-org/rental-backend/internal/domain/order"
	"github.com/your-org/rental-backend/internal/domain/product"
	"github.com/your-org/rental-backend/internal/infrastructure/database/memory"
	"github.com/your-org/rental-backend/internal/pkg/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func cartRow(id, userID uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "status", "total_amount", "total_quantity", "order_count", "created_at", "updated_at"}).
		AddRow(id, userID, "open", "0", 0, 0, time.Now(), time.Now())
}

func TestAddItemRollsBackWhenTotalsUpdateFails(t *testing.T) {
	db, mock := newMockDB(t)

	catalog := memory.New()
	catalog.PutProduct(product.Product{ID: 3, SellerID: 1, Name: "Tent", PricePerDay: decimal.NewFromInt(100)})
	service := cart.NewService(NewCartStore(db), catalog.Catalog(), logger.Discard())

	boom := errors.New("could not serialize access")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE "carts"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(cartRow(5, 9))
	mock.ExpectQuery(`INSERT INTO "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE "carts" SET .*total_amount \+`).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := service.AddItem(context.Background(), 5, 3, 2, 3)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemCommits(t *testing.T) {
	db, mock := newMockDB(t)

	catalog := memory.New()
	catalog.PutProduct(product.Product{ID: 3, SellerID: 1, Name: "Tent", PricePerDay: decimal.NewFromInt(100)})
	service := cart.NewService(NewCartStore(db), catalog.Catalog(), logger.Discard())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" .*FOR UPDATE`).
		WillReturnRows(cartRow(5, 9))
	mock.ExpectQuery(`INSERT INTO "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE "carts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := service.AddItem(context.Background(), 5, 3, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(11), item.ID)
	assert.True(t, decimal.NewFromInt(600).Equal(item.TotalPrice))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCartTranslatesOpenCartConflict(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "carts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_carts_user_open"})

	err := NewCartStore(db).CreateCart(context.Background(), &cart.Cart{UserID: 9, Status: cart.CartStatusOpen})
	assert.ErrorIs(t, err, cart.ErrOpenCartExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItemNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = \$1 AND cart_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewCartStore(db).GetItem(context.Background(), 5, 42)
	assert.ErrorIs(t, err, cart.ErrCartItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItemMissingRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM "cart_items" WHERE id = \$1 AND cart_id = \$2`).
		WithArgs(42, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewCartStore(db).DeleteItem(context.Background(), 5, 42)
	assert.ErrorIs(t, err, cart.ErrCartItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderTranslatesDuplicateNumber(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_order_number"})

	err := NewOrderStore(db).Create(context.Background(), &order.Order{OrderNumber: "ORD-123456"})
	assert.ErrorIs(t, err, order.ErrDuplicateOrderNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCustomerOrdering(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"order_id", "order_number", "customer_id", "seller_id", "status", "total_amount", "timeline"}).
		AddRow(2, "ORD-3002", 7, 1, "shipping", "264.00", `[{"title":"Order Placed","date":"2025-07-08T00:00:00.000Z","completed":true,"description":""}]`).
		AddRow(1, "ORD-3001", 7, 1, "ordered", "99.00", nil)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE customer_id = \$1 ORDER BY placed_at DESC NULLS LAST, created_at DESC`).
		WithArgs(7).
		WillReturnRows(rows)

	orders, err := NewOrderStore(db).ListByCustomer(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-3002", orders[0].OrderNumber)
	assert.Equal(t, order.StatusShipping, orders[0].Status)
	require.Len(t, orders[0].Timeline, 1)
	assert.True(t, orders[0].Timeline[0].Completed)
	assert.True(t, decimal.RequireFromString("264").Equal(orders[0].TotalAmount))
	assert.Empty(t, orders[1].Timeline)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWritesSelectedColumns(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "orders" SET "notes"=\$1,"updated_at"=\$2 WHERE .*"order_id" = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	o := &order.Order{ID: 4, OrderNumber: "ORD-1", Status: order.StatusUsing, UpdatedAt: time.Now()}
	err := NewOrderStore(db).Update(context.Background(), o, order.ColumnNotes, order.ColumnUpdatedAt)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT "status" FROM "orders" WHERE customer_id = \$1 AND order_number = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	_, err := NewOrderStore(db).FindStatus(context.Background(), order.Ref{OrderNumber: "ORD-404"}, 7)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewCatalog(db).GetProductByID(context.Background(), 404)
	assert.ErrorIs(t, err, product.ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
