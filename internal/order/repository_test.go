package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"storefront-be/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	productA = "aaaaaaaaaaaaaaaaaaaaaaaa"
	productB = "bbbbbbbbbbbbbbbbbbbbbbbb"
)

func testOrder(items ...CartItem) *Order {
	now := time.Now()
	return &Order{
		ID: uuid.New(),
		Customer: Customer{
			Name:    "Jamin Rahman",
			Phone:   "01711111111",
			Address: "12 Station Road, Dhaka",
		},
		Items:          items,
		DeliveryCharge: 60,
		TotalPrice:     1060,
		OrderDate:      now.Format("2006-01-02"),
		OrderTime:      now.Format("15:04:05"),
		Status:         StatusPending,
		CreatedAt:      now,
	}
}

func expectReserve(mock sqlmock.Sqlmock, productID, size string, qty, stock int) {
	mock.ExpectQuery(`SELECT stock FROM product_sizes`).
		WithArgs(productID, size).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(stock))
	mock.ExpectExec(`UPDATE product_sizes`).
		WithArgs(qty, productID, size).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestRepository_PlaceOrderTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	o := testOrder(
		CartItem{ProductID: productA, Size: "M", Quantity: 2},
		CartItem{ProductID: productB, Size: "L", Quantity: 1},
	)

	mock.ExpectBegin()
	expectReserve(mock, productA, "M", 2, 5)
	expectReserve(mock, productB, "L", 1, 3)
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(o.ID, o.Customer.Name, o.Customer.Phone, o.Customer.Address, o.Customer.Note,
			o.DeliveryCharge, o.TotalPrice, o.OrderDate, o.OrderTime, o.Status, o.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(o.ID, productA, "M", 2, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(o.ID, productB, "L", 1, 1).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err = repo.PlaceOrderTx(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failure at item k must roll the whole transaction back: no order row
// is inserted and the decrements applied for items 1..k-1 do not survive.
func TestRepository_PlaceOrderTx_InsufficientStockMidCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	o := testOrder(
		CartItem{ProductID: productA, Size: "M", Quantity: 2},
		CartItem{ProductID: productB, Size: "L", Quantity: 5},
	)

	mock.ExpectBegin()
	expectReserve(mock, productA, "M", 2, 5)
	mock.ExpectQuery(`SELECT stock FROM product_sizes`).
		WithArgs(productB, "L").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(1))
	mock.ExpectRollback()

	err = repo.PlaceOrderTx(context.Background(), o)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Insufficient stock for size L. Available: 1", apperr.Message(err))
	// No INSERT was ever issued and the transaction rolled back.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PlaceOrderTx_ProductNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	o := testOrder(CartItem{ProductID: productA, Size: "M", Quantity: 1})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT stock FROM product_sizes`).
		WithArgs(productA, "M").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(productA).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err = repo.PlaceOrderTx(context.Background(), o)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Product not found", apperr.Message(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PlaceOrderTx_SizeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	o := testOrder(CartItem{ProductID: productA, Size: "XXL", Quantity: 1})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT stock FROM product_sizes`).
		WithArgs(productA, "XXL").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(productA).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err = repo.PlaceOrderTx(context.Background(), o)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Size XXL not found", apperr.Message(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two cart items against the same product are two sequential writes within
// one transaction; the second read observes the first decrement.
func TestRepository_PlaceOrderTx_SameProductTwice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	o := testOrder(
		CartItem{ProductID: productA, Size: "M", Quantity: 3},
		CartItem{ProductID: productA, Size: "M", Quantity: 2},
	)

	mock.ExpectBegin()
	expectReserve(mock, productA, "M", 3, 5)
	// Second read sees 2 remaining, exactly enough.
	expectReserve(mock, productA, "M", 2, 2)
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(o.ID, productA, "M", 3, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(o.ID, productA, "M", 2, 1).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err = repo.PlaceOrderTx(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PlaceOrderTx_ConditionalUpdateGuard(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	o := testOrder(CartItem{ProductID: productA, Size: "M", Quantity: 2})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT stock FROM product_sizes`).
		WithArgs(productA, "M").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(5))
	// Conditional update matched no row: treated as insufficient stock.
	mock.ExpectExec(`UPDATE product_sizes`).
		WithArgs(2, productA, "M").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.PlaceOrderTx(context.Background(), o)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PlaceOrderTx_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err = repo.PlaceOrderTx(context.Background(), testOrder(CartItem{ProductID: productA, Size: "M", Quantity: 1}))
	assert.Error(t, err)
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
}
