// Package auth identifies reviewers to the serving layer. The core workflow
// does not enforce authorization; this package exists so the dashboard has a
// login endpoint and mutations carry an attributable identity.
package auth

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	dErrors "modqueue/pkg/domain-errors"
)

// User is a reviewer account.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type storedUser struct {
	User
	passwordHash []byte
}

// UserStore holds reviewer accounts in memory.
type UserStore struct {
	mu    sync.RWMutex
	users []storedUser
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

// Add registers a reviewer with the given password.
func (s *UserStore) Add(user User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, storedUser{User: user, passwordHash: hash})
	return nil
}

// Authenticate returns the reviewer for matching credentials, or an
// unauthorized error. Email comparison is case-insensitive.
func (s *UserStore) Authenticate(_ context.Context, email, password string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
			break
		}
		return u.User, nil
	}
	return User{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}
