package database

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boozetrack/model"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	return db
}

func TestInitSchemaIdempotent(t *testing.T) {
	db := testDB(t)
	require.NoError(t, InitSchema(db))
	require.NoError(t, InitSchema(db))
}

func TestProductRoundTrip(t *testing.T) {
	db := testDB(t)

	p := &model.Product{
		ID:          1,
		Name:        "Jameson Original",
		Brand:       "Jameson",
		Category:    "Whiskey",
		UnitPrice:   decimal.RequireFromString("30.50"),
		Description: "Triple-distilled Irish whiskey.",
	}
	require.NoError(t, InsertProduct(db, p))

	got, err := GetProduct(db, 1)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Brand, got.Brand)
	assert.Equal(t, p.Category, got.Category)
	assert.Equal(t, p.Description, got.Description)
	assert.Equal(t, 0, got.QuantityOnHand)
	assert.True(t, got.UnitPrice.Equal(p.UnitPrice), "price %s != %s", got.UnitPrice, p.UnitPrice)
}

func TestUpdateProductPartial(t *testing.T) {
	db := testDB(t)
	require.NoError(t, InsertProduct(db, &model.Product{
		ID: 1, Name: "Heineken", Brand: "Heineken", Category: "Lager",
		UnitPrice: decimal.RequireFromString("3.00"),
	}))

	newPrice := decimal.RequireFromString("3.20")
	updated, err := UpdateProduct(db, 1, ProductUpdate{UnitPrice: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := GetProduct(db, 1)
	require.NoError(t, err)
	assert.Equal(t, "Heineken", got.Name)
	assert.True(t, got.UnitPrice.Equal(newPrice))

	updated, err = UpdateProduct(db, 99, ProductUpdate{UnitPrice: &newPrice})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestListProductsFilter(t *testing.T) {
	db := testDB(t)
	require.NoError(t, InsertProduct(db, &model.Product{ID: 1, Name: "Dingle Gin", Brand: "Dingle", Category: "Gin", UnitPrice: decimal.RequireFromString("38.00")}))
	require.NoError(t, InsertProduct(db, &model.Product{ID: 2, Name: "Cork Dry Gin", Brand: "Cork Dry", Category: "Gin", UnitPrice: decimal.RequireFromString("24.00")}))
	require.NoError(t, InsertProduct(db, &model.Product{ID: 3, Name: "Guinness Draught", Brand: "Guinness", Category: "Stout", UnitPrice: decimal.RequireFromString("2.80")}))

	all, err := ListProducts(db, model.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// ordered by name
	assert.Equal(t, int64(2), all[0].ID)

	gins, err := ListProducts(db, model.ProductFilter{Search: "Gin"})
	require.NoError(t, err)
	assert.Len(t, gins, 2)

	stouts, err := ListProducts(db, model.ProductFilter{Category: "Stout"})
	require.NoError(t, err)
	require.Len(t, stouts, 1)
	assert.Equal(t, "Guinness Draught", stouts[0].Name)
}

func TestAdjustStockGuardsNegative(t *testing.T) {
	db := testDB(t)
	require.NoError(t, InsertProduct(db, &model.Product{ID: 1, Name: "Smirnoff Vodka", UnitPrice: decimal.RequireFromString("24.50")}))

	err := WithTx(db, func(tx *sqlx.Tx) error {
		ok, err := AdjustStockTx(tx, 1, 10)
		require.NoError(t, err)
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	err = WithTx(db, func(tx *sqlx.Tx) error {
		ok, err := AdjustStockTx(tx, 1, -11)
		require.NoError(t, err)
		assert.False(t, ok, "adjustment below zero must be refused")
		return nil
	})
	require.NoError(t, err)

	got, err := GetProduct(db, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QuantityOnHand)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := testDB(t)
	require.NoError(t, InsertProduct(db, &model.Product{ID: 1, Name: "Baileys Irish Cream", UnitPrice: decimal.RequireFromString("25.00")}))

	boom := errors.New("boom")
	err := WithTx(db, func(tx *sqlx.Tx) error {
		ok, err := AdjustStockTx(tx, 1, 5)
		require.NoError(t, err)
		require.True(t, ok)
		if err := InsertMovementTx(tx, &model.StockMovement{
			ProductID: 1, Delta: 5, Reason: model.ReasonReceive, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := GetProduct(db, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.QuantityOnHand, "rolled back adjustment must not stick")

	n, err := CountMovements(db)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "rolled back movement must not stick")
}

func TestTransactionsAndLineItems(t *testing.T) {
	db := testDB(t)
	require.NoError(t, InsertProduct(db, &model.Product{ID: 1, Name: "Powers Gold Label", UnitPrice: decimal.RequireFromString("32.00")}))

	_, err := LastTransaction(db)
	require.Error(t, err, "empty store has no last transaction")

	txn := &model.SaleTransaction{
		CreatedAt:   time.Now().UTC(),
		TotalAmount: decimal.RequireFromString("64.00"),
		Status:      model.StatusCompleted,
	}
	require.NoError(t, WithTx(db, func(tx *sqlx.Tx) error {
		if err := InsertTransactionTx(tx, txn); err != nil {
			return err
		}
		return InsertLineItemTx(tx, &model.SaleLineItem{
			TransactionID: txn.ID, ProductID: 1, Quantity: 2,
			UnitPrice: decimal.RequireFromString("32.00"),
			LineTotal: decimal.RequireFromString("64.00"),
		})
	}))
	require.NotZero(t, txn.ID)

	got, err := GetTransaction(db, txn.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(txn.TotalAmount))
	assert.Equal(t, model.StatusCompleted, got.Status)

	items, err := LineItemsForTransaction(db, txn.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Powers Gold Label", items[0].ProductName)
	assert.Equal(t, 2, items[0].Quantity)

	last, err := LastTransaction(db)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, last.ID)
}

func TestListTransactionsRange(t *testing.T) {
	db := testDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		txn := &model.SaleTransaction{
			CreatedAt:   base.AddDate(0, 0, i),
			TotalAmount: decimal.RequireFromString("10.00"),
			Status:      model.StatusCompleted,
		}
		require.NoError(t, WithTx(db, func(tx *sqlx.Tx) error {
			return InsertTransactionTx(tx, txn)
		}))
	}

	all, err := ListTransactions(db, model.DateRange{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Greater(t, all[0].ID, all[2].ID, "newest first")

	middle, err := ListTransactions(db, model.DateRange{
		From: base.AddDate(0, 0, 1).Add(-time.Hour),
		To:   base.AddDate(0, 0, 1).Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, middle, 1)
	assert.Equal(t, base.AddDate(0, 0, 1), middle[0].CreatedAt.UTC())
}

func TestSeedDefaultUsersAndProducts(t *testing.T) {
	db := testDB(t)

	require.NoError(t, SeedDefaultUsers(db))
	require.NoError(t, SeedDefaultUsers(db), "seeding twice must be a no-op")

	manager, err := GetUser(db, DefaultManagerUsername)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, manager.Role)
	assert.NotEqual(t, DefaultManagerPassword, manager.PasswordHash, "password must be hashed")

	clerk, err := GetUser(db, DefaultClerkUsername)
	require.NoError(t, err)
	assert.Equal(t, model.RoleClerk, clerk.Role)

	require.NoError(t, SeedSampleProducts(db))
	products, err := ListProducts(db, model.ProductFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, products)

	// every opening quantity is explained by a RECEIVE movement
	for _, p := range products {
		movements, err := MovementsByProduct(db, p.ID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, model.ReasonReceive, movements[0].Reason)
		assert.Equal(t, p.QuantityOnHand, movements[0].Delta)
	}

	// a second seed run must not duplicate the catalog
	require.NoError(t, SeedSampleProducts(db))
	again, err := ListProducts(db, model.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, again, len(products))
}
