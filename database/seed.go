package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"boozetrack/model"
)

// Default accounts created on first run, one per role. Passwords are
// documented in the README; only the bcrypt hashes are stored.
const (
	DefaultManagerUsername = "manager"
	DefaultManagerPassword = "manager123"
	DefaultClerkUsername   = "clerk"
	DefaultClerkPassword   = "clerk123"
)

type seedProduct struct {
	id       int64
	name     string
	brand    string
	category string
	price    string
	quantity int
	desc     string
}

var sampleProducts = []seedProduct{
	{1, "Jameson Original", "Jameson", "Whiskey", "30.50", 50, "The classic, super smooth, triple-distilled Irish whiskey."},
	{2, "Guinness Draught", "Guinness", "Stout", "2.80", 200, "The iconic Irish dry stout. Sold per 500ml can."},
	{3, "Bulmers Original Irish Cider", "Bulmers", "Cider", "2.90", 150, "The original crisp Irish cider. Sold per 500ml bottle."},
	{4, "Smirnoff Vodka", "Smirnoff", "Vodka", "24.50", 80, "The world's number one vodka. Triple distilled."},
	{5, "Powers Gold Label", "Powers", "Whiskey", "32.00", 45, "A classic Irish whiskey, full-bodied with a spicy, honeyed flavour."},
	{6, "Dingle Gin", "Dingle", "Gin", "38.00", 30, "An award-winning artisanal gin from Kerry, with local botanicals."},
	{7, "Captain Morgan Spiced Gold", "Captain Morgan", "Rum", "26.00", 60, "The classic spiced rum. Rich vanilla and caramel notes."},
	{8, "Heineken", "Heineken", "Lager", "3.00", 180, "A premium, globally recognised lager. Sold per 500ml bottle."},
	{9, "Baileys Irish Cream", "Baileys", "Liqueur", "25.00", 40, "The original Irish cream. Irish whiskey, cream, and chocolate."},
	{10, "Cork Dry Gin", "Cork Dry", "Gin", "24.00", 70, "A true Irish classic. A crisp, traditional London Dry style gin."},
}

// SeedDefaultUsers creates the two documented accounts when they are absent.
// Existing accounts are left alone so a changed password survives restarts.
func SeedDefaultUsers(db *sqlx.DB) error {
	defaults := []struct {
		username string
		password string
		role     model.Role
	}{
		{DefaultManagerUsername, DefaultManagerPassword, model.RoleManager},
		{DefaultClerkUsername, DefaultClerkPassword, model.RoleClerk},
	}

	for _, d := range defaults {
		exists, err := UserExists(db, d.username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %q: %w", d.username, err)
		}
		user := &model.User{
			Username:     d.username,
			PasswordHash: string(hash),
			Role:         d.role,
			CreatedAt:    time.Now().UTC(),
		}
		if err := InsertUser(db, user); err != nil {
			return err
		}
	}
	return nil
}

// SeedSampleProducts loads the starter catalog on first run, with every
// opening quantity recorded as a RECEIVE movement so the audit log explains
// the stock from row one. A non-empty products table disables the seed.
func SeedSampleProducts(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM products`); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	return WithTx(db, func(tx *sqlx.Tx) error {
		for _, sp := range sampleProducts {
			price, err := decimal.NewFromString(sp.price)
			if err != nil {
				return fmt.Errorf("bad seed price for %q: %w", sp.name, err)
			}
			_, err = tx.Exec(
				`INSERT INTO products (id, name, brand, category, unit_price, quantity_on_hand, description)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				sp.id, sp.name, sp.brand, sp.category, price, sp.quantity, sp.desc,
			)
			if err != nil {
				return fmt.Errorf("failed to seed product %q: %w", sp.name, err)
			}
			if err := InsertMovementTx(tx, &model.StockMovement{
				ProductID: sp.id,
				Delta:     sp.quantity,
				Reason:    model.ReasonReceive,
				Note:      "opening stock",
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
