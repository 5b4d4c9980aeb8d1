package main

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized covers every credential and session failure. The cause is
// deliberately not distinguished so responses leak nothing about which part
// of a credential was wrong.
var ErrUnauthorized = errors.New("unauthorized")

// AuthService verifies credentials, issues and revokes session tokens, and
// registers new accounts.
type AuthService struct {
	users    *UserStore
	sessions *SessionStore
	jobs     *Dispatcher
}

func NewAuthService(users *UserStore, sessions *SessionStore, jobs *Dispatcher) *AuthService {
	return &AuthService{users: users, sessions: sessions, jobs: jobs}
}

// Authenticate checks a "Basic <base64(email:password)>" header value and
// returns a fresh session token on success.
func (s *AuthService) Authenticate(authorization string) (string, error) {
	const prefix = "Basic "
	if !strings.HasPrefix(authorization, prefix) {
		return "", ErrUnauthorized
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authorization, prefix))
	if err != nil {
		return "", ErrUnauthorized
	}

	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" || password == "" {
		return "", ErrUnauthorized
	}

	user, err := s.users.GetByCredentials(email, hashPassword(password))
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", ErrUnauthorized
	}

	return s.sessions.Issue(user.ID), nil
}

// Logout revokes the session behind token. An unresolvable token is
// ErrUnauthorized; revoking is otherwise unconditional.
func (s *AuthService) Logout(token string) error {
	if _, ok := s.sessions.Resolve(token); !ok {
		return ErrUnauthorized
	}
	s.sessions.Revoke(token)
	return nil
}

// Register creates an account and hands off a best-effort welcome job.
func (s *AuthService) Register(email, password string) (*User, error) {
	if email == "" {
		return nil, &ValidationError{Msg: "Missing email"}
	}
	if password == "" {
		return nil, &ValidationError{Msg: "Missing password"}
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, &ValidationError{Msg: "Already exist"}
	}

	user, err := s.users.Create(email, hashPassword(password))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.jobs.Enqueue(Job{Type: JobWelcome, UserID: user.ID})

	return user, nil
}

// hashPassword returns the hex sha1 digest of a password. The credential
// lookup matches on {email, digest}, which requires a deterministic digest.
func hashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
