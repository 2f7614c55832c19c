package auth

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/model"
)

func setup(t *testing.T) (*Gate, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))
	require.NoError(t, database.SeedDefaultUsers(db))
	return New(db), db
}

func TestLoginDefaults(t *testing.T) {
	gate, _ := setup(t)

	session, err := gate.Login(database.DefaultManagerUsername, database.DefaultManagerPassword)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, session.Role)
	assert.Equal(t, database.DefaultManagerUsername, session.Username)
	assert.NotZero(t, session.ID)
	assert.False(t, session.IssuedAt.IsZero())

	session, err = gate.Login(database.DefaultClerkUsername, database.DefaultClerkPassword)
	require.NoError(t, err)
	assert.Equal(t, model.RoleClerk, session.Role)
}

// Wrong password and unknown username must be indistinguishable to the caller.
func TestLoginFailuresAreGeneric(t *testing.T) {
	gate, _ := setup(t)

	_, badPassword := gate.Login(database.DefaultManagerUsername, "wrong-password")
	require.Error(t, badPassword)
	assert.Equal(t, apperr.CodeAuthentication, apperr.CodeOf(badPassword))

	_, unknownUser := gate.Login("nobody", "whatever")
	require.Error(t, unknownUser)
	assert.Equal(t, apperr.CodeAuthentication, apperr.CodeOf(unknownUser))

	assert.Equal(t, badPassword.Error(), unknownUser.Error())

	_, err := gate.Login("", "")
	assert.Equal(t, apperr.CodeAuthentication, apperr.CodeOf(err))
}

func TestCreateAccount(t *testing.T) {
	gate, _ := setup(t)

	user, err := gate.CreateAccount("alice", "secret99", model.RoleClerk)
	require.NoError(t, err)
	assert.NotEqual(t, "secret99", user.PasswordHash)

	session, err := gate.Login("alice", "secret99")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClerk, session.Role)

	_, err = gate.CreateAccount("alice", "another1", model.RoleManager)
	assert.Equal(t, apperr.CodeDuplicateID, apperr.CodeOf(err))
}

func TestCreateAccountValidation(t *testing.T) {
	gate, _ := setup(t)

	_, err := gate.CreateAccount("ab", "secret99", model.RoleClerk)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err), "username shorter than 3 chars")

	_, err = gate.CreateAccount("alice", "short", model.RoleClerk)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err), "password shorter than 6 chars")

	_, err = gate.CreateAccount("alice", "secret99", model.Role("ADMIN"))
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err), "unknown role")
}

func TestDeleteAccount(t *testing.T) {
	gate, _ := setup(t)
	_, err := gate.CreateAccount("alice", "secret99", model.RoleClerk)
	require.NoError(t, err)

	err = gate.DeleteAccount("alice", "wrong-password")
	assert.Equal(t, apperr.CodeAuthentication, apperr.CodeOf(err))

	require.NoError(t, gate.DeleteAccount("alice", "secret99"))

	_, err = gate.Login("alice", "secret99")
	assert.Equal(t, apperr.CodeAuthentication, apperr.CodeOf(err))
}

func TestDeleteAccountProtectsDefaults(t *testing.T) {
	gate, _ := setup(t)

	err := gate.DeleteAccount(database.DefaultManagerUsername, database.DefaultManagerPassword)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	err = gate.DeleteAccount(database.DefaultClerkUsername, database.DefaultClerkPassword)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = gate.Login(database.DefaultManagerUsername, database.DefaultManagerPassword)
	require.NoError(t, err)
}

func TestAuthorize(t *testing.T) {
	manager := &model.Session{Username: "m", Role: model.RoleManager}
	clerk := &model.Session{Username: "c", Role: model.RoleClerk}

	clerkOps := []Operation{
		OpProductView, OpReceiveStock, OpLogLoss, OpStockHistory,
		OpSell, OpLastSale, OpSalesHistory, OpTransactionDetail,
	}
	managerOps := []Operation{
		OpProductAdd, OpProductUpdate, OpLowStockReport, OpInventoryValue,
		OpSalesSummary, OpExportReport, OpConfigureThreshold, OpManageAccounts,
	}

	for _, op := range clerkOps {
		assert.NoError(t, Authorize(clerk, op), "clerk should pass %s", op)
		assert.NoError(t, Authorize(manager, op), "manager should pass %s", op)
	}
	for _, op := range managerOps {
		err := Authorize(clerk, op)
		assert.Equal(t, apperr.CodeAuthorization, apperr.CodeOf(err), "clerk must be refused %s", op)
		assert.NoError(t, Authorize(manager, op), "manager should pass %s", op)
	}

	assert.Equal(t, apperr.CodeAuthentication, apperr.CodeOf(Authorize(nil, OpProductView)))
	assert.Equal(t, apperr.CodeAuthorization, apperr.CodeOf(Authorize(manager, Operation("bogus"))))
}
