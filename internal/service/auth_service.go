package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"chessbook-sync/internal/model"
	"chessbook-sync/pkg/apierror"
)

// Matches the client-side check: local@domain.tld with no whitespace and
// no extra @. Deliberately loose beyond that.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CredentialStore is the persistence contract the gateway needs. Create
// must be atomic with respect to concurrent calls for the same email:
// at most one wins, the rest see model.ErrUserAlreadyExists.
type CredentialStore interface {
	Get(ctx context.Context, email string) (model.Credential, error)
	Create(ctx context.Context, c model.Credential) error
	Exists(ctx context.Context, email string) (bool, error)
}

type tokenIssuer interface {
	Issue(email string) (string, error)
}

// AuthService orchestrates signup and login. It holds no mutable state;
// every invocation is independent and the store provides the only
// synchronization point.
type AuthService struct {
	store  CredentialStore
	hasher *PasswordHasher
	tokens tokenIssuer
}

func NewAuthService(store CredentialStore, hasher *PasswordHasher, tokens tokenIssuer) *AuthService {
	return &AuthService{store: store, hasher: hasher, tokens: tokens}
}

// Signup creates a credential record and returns a fresh token. Duplicate
// emails are rejected with a conflict, including the race where a
// concurrent signup wins between the existence check and the insert.
func (s *AuthService) Signup(ctx context.Context, email string, password string) (model.AuthResponse, error) {
	if err := validateSignup(email, password); err != nil {
		return model.AuthResponse{}, err
	}

	exists, err := s.store.Exists(ctx, email)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("check account exists: %w", err)
	}
	if exists {
		return model.AuthResponse{}, apierror.New("CONFLICT", "user already exists", http.StatusConflict)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	err = s.store.Create(ctx, model.Credential{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return model.AuthResponse{}, apierror.New("CONFLICT", "user already exists", http.StatusConflict)
	}
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("create credential: %w", err)
	}

	return s.issue(email)
}

// Login verifies the password against the stored hash. Unknown account
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.AuthResponse, error) {
	if email == "" || password == "" {
		return model.AuthResponse{}, apierror.New("BAD_REQUEST", "email and password are required", http.StatusBadRequest)
	}

	cred, err := s.store.Get(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResponse{}, apierror.New("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized)
	}
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("get credential: %w", err)
	}

	if !s.hasher.Verify(password, cred.PasswordHash) {
		return model.AuthResponse{}, apierror.New("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized)
	}

	return s.issue(email)
}

func (s *AuthService) issue(email string) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(email)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return model.AuthResponse{Token: token, Email: email}, nil
}

func validateSignup(email string, password string) error {
	if email == "" || password == "" {
		return apierror.New("BAD_REQUEST", "email and password are required", http.StatusBadRequest)
	}

	if !emailPattern.MatchString(email) {
		return apierror.New("BAD_REQUEST", "invalid email format", http.StatusBadRequest)
	}

	// No minimum password length: the upstream policy was never settled,
	// so only non-empty is enforced. Add the threshold here if one lands.
	return nil
}
