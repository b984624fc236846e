// Package auth resolves credentials and issues session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
)

// DemoPassword is the password shared by the built-in demo accounts.
const DemoPassword = "password"

// demoAccounts are always accepted alongside registered accounts.
var demoAccounts = map[string]model.User{
	"student@test.com": {
		Name:     "Test Student",
		Phone:    "123-456-7890",
		Email:    "student@test.com",
		UserType: model.UserStudent,
		Skills:   []string{"Communication", "Teamwork", "Basic Computer Skills"},
	},
	"recruiter@test.com": {
		Name:     "Test Recruiter",
		Phone:    "123-456-7890",
		Email:    "recruiter@test.com",
		UserType: model.UserRecruiter,
		Company:  "Tech Company Inc",
	},
}

// Accounts checks credentials against the demo accounts and the stored ones.
type Accounts struct {
	state *store.State
	cost  int
}

// NewAccounts returns Accounts hashing with the given bcrypt cost.
func NewAccounts(state *store.State, cost int) *Accounts {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Accounts{state: state, cost: cost}
}

// Register stores a new account for u with a hashed password.
func (a *Accounts) Register(ctx context.Context, u model.User, password string) error {
	email := NormalizeEmail(u.Email)
	if _, demo := demoAccounts[email]; demo {
		return ErrAccountExists
	}

	existing, err := a.state.Account(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.Email = email
	u.Token = ""
	return a.state.SaveAccount(ctx, &store.Account{User: u, PasswordHash: string(hash)})
}

// Authenticate returns the user for valid credentials, or ErrInvalidCredentials.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)

	if u, ok := demoAccounts[email]; ok {
		if password != DemoPassword {
			return nil, ErrInvalidCredentials
		}
		u.Skills = append([]string(nil), u.Skills...)
		return &u, nil
	}

	acc, err := a.state.Account(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if acc == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	u := acc.User
	return &u, nil
}

// Lookup returns the profile stored for email without checking a password.
// Profiles updated after signup are read back from here by token holders.
func (a *Accounts) Lookup(ctx context.Context, email string) (*model.User, error) {
	email = NormalizeEmail(email)
	if u, ok := demoAccounts[email]; ok {
		u.Skills = append([]string(nil), u.Skills...)
		return &u, nil
	}
	acc, err := a.state.Account(ctx, email)
	if err != nil || acc == nil {
		return nil, err
	}
	u := acc.User
	return &u, nil
}

// UpdateProfile rewrites the stored profile of a registered account. Demo
// accounts have nothing stored and are left alone.
func (a *Accounts) UpdateProfile(ctx context.Context, u model.User) error {
	acc, err := a.state.Account(ctx, u.Email)
	if err != nil || acc == nil {
		return err
	}
	u.Token = ""
	acc.User = u
	return a.state.SaveAccount(ctx, acc)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
