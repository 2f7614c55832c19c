package sales

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/inventory"
	"boozetrack/model"
)

func setup(t *testing.T) (*Processor, *inventory.Tracker, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))
	return New(db), inventory.New(db), db
}

func addProduct(t *testing.T, db *sqlx.DB, id int64, name, price string) {
	t.Helper()
	require.NoError(t, database.InsertProduct(db, &model.Product{
		ID: id, Name: name, UnitPrice: decimal.RequireFromString(price),
	}))
}

func quantity(t *testing.T, db *sqlx.DB, id int64) int {
	t.Helper()
	p, err := database.GetProduct(db, id)
	require.NoError(t, err)
	return p.QuantityOnHand
}

func TestSell(t *testing.T) {
	processor, tracker, db := setup(t)
	addProduct(t, db, 1, "Beer", "3.50")
	_, err := tracker.Receive(1, 10)
	require.NoError(t, err)

	txn, err := processor.Sell([]Line{{ProductID: 1, Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, txn.TotalAmount.Equal(decimal.RequireFromString("7.00")), "total was %s", txn.TotalAmount)
	assert.Equal(t, model.StatusCompleted, txn.Status)
	require.Len(t, txn.Items, 1)
	assert.Equal(t, "Beer", txn.Items[0].ProductName)
	assert.True(t, txn.Items[0].LineTotal.Equal(decimal.RequireFromString("7.00")))
	assert.Equal(t, 8, quantity(t, db, 1))

	movements, err := database.MovementsByProduct(db, 1)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, model.ReasonSale, movements[1].Reason)
	assert.Equal(t, -2, movements[1].Delta)
}

func TestSellInsufficientStock(t *testing.T) {
	processor, tracker, db := setup(t)
	addProduct(t, db, 1, "Beer", "3.50")
	_, err := tracker.Receive(1, 8)
	require.NoError(t, err)

	_, err = processor.Sell([]Line{{ProductID: 1, Quantity: 100}})
	assert.Equal(t, apperr.CodeInsufficientStock, apperr.CodeOf(err))
	assert.Equal(t, 8, quantity(t, db, 1))
}

func TestSellRejectsBadInput(t *testing.T) {
	processor, tracker, db := setup(t)
	addProduct(t, db, 1, "Beer", "3.50")
	_, err := tracker.Receive(1, 10)
	require.NoError(t, err)

	_, err = processor.Sell(nil)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = processor.Sell([]Line{{ProductID: 1, Quantity: 0}})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = processor.Sell([]Line{{ProductID: 1, Quantity: 1}, {ProductID: 1, Quantity: 2}})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err), "duplicate product ids must be rejected")

	_, err = processor.Sell([]Line{{ProductID: 99, Quantity: 1}})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	assert.Equal(t, 10, quantity(t, db, 1))
}

// A failing line anywhere in the sale must leave every product untouched.
func TestSellAllOrNothing(t *testing.T) {
	processor, tracker, db := setup(t)
	addProduct(t, db, 1, "Beer", "3.50")
	addProduct(t, db, 2, "Wine", "12.00")
	_, err := tracker.Receive(1, 10)
	require.NoError(t, err)
	_, err = tracker.Receive(2, 1)
	require.NoError(t, err)

	before, err := database.CountMovements(db)
	require.NoError(t, err)

	_, err = processor.Sell([]Line{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 5},
	})
	assert.Equal(t, apperr.CodeInsufficientStock, apperr.CodeOf(err))

	assert.Equal(t, 10, quantity(t, db, 1))
	assert.Equal(t, 1, quantity(t, db, 2))

	after, err := database.CountMovements(db)
	require.NoError(t, err)
	assert.Equal(t, before, after, "no movement may survive a failed sale")

	transactions, err := database.ListTransactions(db, model.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestSellMultipleLines(t *testing.T) {
	processor, tracker, db := setup(t)
	addProduct(t, db, 1, "Beer", "3.50")
	addProduct(t, db, 2, "Wine", "12.00")
	_, err := tracker.Receive(1, 10)
	require.NoError(t, err)
	_, err = tracker.Receive(2, 5)
	require.NoError(t, err)

	txn, err := processor.Sell([]Line{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, txn.Items, 2)
	assert.True(t, txn.TotalAmount.Equal(decimal.RequireFromString("34.50")), "total was %s", txn.TotalAmount)
	assert.Equal(t, 7, quantity(t, db, 1))
	assert.Equal(t, 3, quantity(t, db, 2))
}

func TestLastSale(t *testing.T) {
	processor, tracker, db := setup(t)

	empty, err := processor.LastSale()
	require.NoError(t, err)
	assert.Nil(t, empty, "no sale yet means no last sale")

	addProduct(t, db, 1, "Beer", "3.50")
	_, err = tracker.Receive(1, 10)
	require.NoError(t, err)

	first, err := processor.Sell([]Line{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	second, err := processor.Sell([]Line{{ProductID: 1, Quantity: 2}})
	require.NoError(t, err)

	last, err := processor.LastSale()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, second.ID, last.ID)
	assert.NotEqual(t, first.ID, last.ID)
	require.Len(t, last.Items, 1)
	assert.Equal(t, 2, last.Items[0].Quantity)
}

func TestHistoryNewestFirst(t *testing.T) {
	processor, tracker, db := setup(t)
	addProduct(t, db, 1, "Beer", "3.50")
	_, err := tracker.Receive(1, 10)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := processor.Sell([]Line{{ProductID: 1, Quantity: 1}})
		require.NoError(t, err)
	}

	history, err := processor.History(model.DateRange{})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Greater(t, history[0].ID, history[1].ID)
	assert.Greater(t, history[1].ID, history[2].ID)
}

func TestGet(t *testing.T) {
	processor, tracker, db := setup(t)
	addProduct(t, db, 1, "Beer", "3.50")
	_, err := tracker.Receive(1, 10)
	require.NoError(t, err)

	txn, err := processor.Sell([]Line{{ProductID: 1, Quantity: 4}})
	require.NoError(t, err)

	got, err := processor.Get(txn.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(txn.TotalAmount))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Beer", got.Items[0].ProductName)

	_, err = processor.Get(99999)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
