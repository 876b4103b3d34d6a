package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessbook-sync/internal/model"
	"chessbook-sync/internal/token"
	"chessbook-sync/pkg/apierror"
)

// memoryStore implements CredentialStore with the same create-if-absent
// atomicity the database provides.
type memoryStore struct {
	mu    sync.Mutex
	creds map[string]model.Credential
}

func newMemoryStore() *memoryStore {
	return &memoryStore{creds: map[string]model.Credential{}}
}

func (s *memoryStore) Get(_ context.Context, email string) (model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[email]
	if !ok {
		return model.Credential{}, model.ErrUserNotFound
	}
	return cred, nil
}

func (s *memoryStore) Create(_ context.Context, c model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.creds[c.Email]; ok {
		return model.ErrUserAlreadyExists
	}
	s.creds[c.Email] = c
	return nil
}

func (s *memoryStore) Exists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.creds[email]
	return ok, nil
}

func newTestAuthService() (*AuthService, *token.Service) {
	tokens := token.NewService("test-secret", 168*time.Hour)
	return NewAuthService(newMemoryStore(), NewPasswordHasher(), tokens), tokens
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.HTTPStatus)
}

func TestSignupThenLogin(t *testing.T) {
	svc, tokens := newTestAuthService()
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, "a@b.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", signedUp.Email)

	email, err := tokens.Verify(signedUp.Token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", email)

	loggedIn, err := svc.Login(ctx, "a@b.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", loggedIn.Email)

	email, err = tokens.Verify(loggedIn.Token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", email)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "pw1"},
		{"empty password", "a@b.com", ""},
		{"both empty", "", ""},
		{"no at sign", "not-an-email", "pw1"},
		{"no tld", "a@b", "pw1"},
		{"whitespace in local part", "a b@c.com", "pw1"},
		{"double at sign", "a@@b.com", "pw1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.email, tc.password)
			requireStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestSignup_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "a@b.com", "pw2")
	requireStatus(t, err, http.StatusConflict)
}

func TestSignup_CaseSensitiveEmails(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", "pw1")
	require.NoError(t, err)

	// Different case is a different account, not a conflict.
	_, err = svc.Signup(ctx, "A@b.com", "pw2")
	require.NoError(t, err)
}

func TestSignup_Concurrent(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Signup(ctx, "race@b.com", "pw1")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		requireStatus(t, err, http.StatusConflict)
	}
	assert.Equal(t, 1, successes)
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", "pw1")
	require.NoError(t, err)

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "pw1")
		requireStatus(t, err, http.StatusBadRequest)
		_, err = svc.Login(ctx, "a@b.com", "")
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "a@b.com", "wrong")
		requireStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("unknown account is indistinguishable", func(t *testing.T) {
		_, unknownErr := svc.Login(ctx, "nobody@b.com", "pw1")
		_, wrongErr := svc.Login(ctx, "a@b.com", "wrong")
		requireStatus(t, unknownErr, http.StatusUnauthorized)
		require.Equal(t, wrongErr.Error(), unknownErr.Error())
	})
}
