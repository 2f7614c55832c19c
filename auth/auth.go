// Package auth is the login gate and capability table. Authorization is
// checked once at dispatch; the business components treat it as a
// precondition and never inspect roles themselves.
package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/logger"
	"boozetrack/model"
	"boozetrack/validate"
)

type Gate struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func New(db *sqlx.DB) *Gate {
	return &Gate{db: db, log: logger.Get().With().Str("component", "auth").Logger()}
}

// Login verifies the credentials and opens a session. Both an unknown
// username and a wrong password return the same generic error so the caller
// cannot tell which factor failed.
func (g *Gate) Login(username, password string) (*model.Session, error) {
	if username == "" || password == "" {
		return nil, apperr.Authentication()
	}

	user, err := database.GetUser(g.db, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			g.log.Warn().Str("username", username).Msg("login failed")
			return nil, apperr.Authentication()
		}
		return nil, apperr.Persistence(err, "could not look up account")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		g.log.Warn().Str("username", username).Msg("login failed")
		return nil, apperr.Authentication()
	}

	session := &model.Session{
		ID:       uuid.New(),
		Username: user.Username,
		Role:     user.Role,
		IssuedAt: time.Now().UTC(),
	}
	g.log.Info().Str("username", username).Str("role", string(user.Role)).Msg("login successful")
	return session, nil
}

// accountInput applies the account rules from the original system: short
// usernames and passwords are rejected before anything touches the store.
type accountInput struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"oneof=MANAGER CLERK"`
}

// CreateAccount registers a new user with a bcrypt-hashed password.
func (g *Gate) CreateAccount(username, password string, role model.Role) (*model.User, error) {
	in := accountInput{Username: username, Password: password, Role: string(role)}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	exists, err := database.UserExists(g.db, username)
	if err != nil {
		return nil, apperr.Persistence(err, "could not check username %q", username)
	}
	if exists {
		return nil, apperr.DuplicateID("username %q already exists", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Persistence(err, "could not hash password")
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := database.InsertUser(g.db, user); err != nil {
		return nil, apperr.Persistence(err, "could not create account %q", username)
	}

	g.log.Info().Str("username", username).Str("role", string(role)).Msg("account created")
	return user, nil
}

// DeleteAccount removes a user after verifying the account's own password.
// The two seeded default accounts cannot be deleted.
func (g *Gate) DeleteAccount(username, password string) error {
	if username == database.DefaultManagerUsername || username == database.DefaultClerkUsername {
		return apperr.Validation("cannot delete default account %q", username)
	}

	user, err := database.GetUser(g.db, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Authentication()
		}
		return apperr.Persistence(err, "could not look up account")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return apperr.Authentication()
	}

	deleted, err := database.DeleteUser(g.db, username)
	if err != nil {
		return apperr.Persistence(err, "could not delete account %q", username)
	}
	if !deleted {
		return apperr.NotFound("account %q not found", username)
	}

	g.log.Info().Str("username", username).Msg("account deleted")
	return nil
}
