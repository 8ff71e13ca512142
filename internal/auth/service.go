// Package auth validates credentials and registers users against the user
// table. Passwords are stored as bcrypt hashes; comparison happens inside
// bcrypt, which is constant-time.
package auth

import (
	"fmt"
	"strings"

	"tally/internal/core"
	"tally/internal/store"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Exists reports whether a user record with this exact username is present.
func (s *Service) Exists(username string) (bool, error) {
	recs, err := s.store.LoadAll(store.Users)
	if err != nil {
		return false, err
	}
	for _, rec := range recs {
		u, err := store.DecodeUser(rec)
		if err != nil {
			return false, err
		}
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Register creates a new user. Usernames must be unique; the password is
// hashed before anything touches the store.
func (s *Service) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return core.ErrEmptyField
	}
	exists, err := s.Exists(username)
	if err != nil {
		return err
	}
	if exists {
		return core.ErrDuplicateUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.AppendOne(store.Users, store.EncodeUser(core.User{
		Username:     username,
		PasswordHash: string(hash),
	}))
}

// Authenticate checks the password against the stored hash. An unknown
// username and a wrong password both return core.ErrInvalidCredentials.
func (s *Service) Authenticate(username, password string) error {
	recs, err := s.store.LoadAll(store.Users)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		u, err := store.DecodeUser(rec)
		if err != nil {
			return err
		}
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			return nil
		}
	}
	return core.ErrInvalidCredentials
}
