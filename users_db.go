package main

import (
	"database/sql"
	"errors"
	"fmt"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

// UserStore handles user record persistence. Lookups return (nil, nil) when
// no row matches so callers decide how a miss maps to their error taxonomy.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(email, passwordHash string) (*User, error) {
	result, err := s.db.Exec(
		"INSERT INTO users (email, password_hash) VALUES (?, ?)",
		email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &User{ID: id, Email: email, PasswordHash: passwordHash}, nil
}

func (s *UserStore) GetByEmail(email string) (*User, error) {
	return s.getOne("SELECT id, email, password_hash FROM users WHERE email = ?", email)
}

// GetByCredentials looks a user up by email and password digest in a single
// predicate, so a wrong email and a wrong password are indistinguishable.
func (s *UserStore) GetByCredentials(email, passwordHash string) (*User, error) {
	return s.getOne(
		"SELECT id, email, password_hash FROM users WHERE email = ? AND password_hash = ?",
		email, passwordHash,
	)
}

func (s *UserStore) GetByID(id int64) (*User, error) {
	return s.getOne("SELECT id, email, password_hash FROM users WHERE id = ?", id)
}

func (s *UserStore) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (s *UserStore) getOne(query string, args ...any) (*User, error) {
	var user User
	err := s.db.QueryRow(query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
