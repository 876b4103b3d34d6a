package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	weekTTL    = 168 * time.Hour
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewService(testSecret, weekTTL)

	tok, err := svc.Issue("a@b.com")
	require.NoError(t, err)
	require.Len(t, strings.Split(tok, "."), 3)

	email, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", email)
}

func TestVerify_ExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := NewService(testSecret, weekTTL)
	svc.now = fixedClock(issuedAt)

	tok, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	t.Run("valid one second after issue", func(t *testing.T) {
		svc.now = fixedClock(issuedAt.Add(1 * time.Second))
		email, err := svc.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, "a@b.com", email)
	})

	t.Run("valid one second before expiry", func(t *testing.T) {
		svc.now = fixedClock(issuedAt.Add(604799 * time.Second))
		_, err := svc.Verify(tok)
		require.NoError(t, err)
	})

	t.Run("invalid exactly at expiry", func(t *testing.T) {
		svc.now = fixedClock(issuedAt.Add(604800 * time.Second))
		_, err := svc.Verify(tok)
		require.Error(t, err)
	})

	t.Run("invalid one second past the window", func(t *testing.T) {
		svc.now = fixedClock(issuedAt.Add(604801 * time.Second))
		_, err := svc.Verify(tok)
		require.Error(t, err)
	})
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewService(testSecret, weekTTL)
	verifier := NewService("a-different-secret", weekTTL)

	tok, err := issuer.Issue("a@b.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.Error(t, err)
}

func TestVerify_MalformedInputs(t *testing.T) {
	svc := NewService(testSecret, weekTTL)

	valid, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	cases := map[string]string{
		"empty":              "",
		"not a token":        "nonsense",
		"two segments":       "aaaa.bbbb",
		"four segments":      "aaaa.bbbb.cccc.dddd",
		"garbage segments":   "!!.??.##",
		"tampered signature": flipLastChar(valid),
		"tampered payload":   swapPayload(valid),
		"payload not base64": strings.Join([]string{strings.Split(valid, ".")[0], "%%%", strings.Split(valid, ".")[2]}, "."),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(input)
			require.Error(t, err)
		})
	}
}

func TestVerify_MissingClaims(t *testing.T) {
	svc := NewService(testSecret, weekTTL)
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("no email claim", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
			jwt.MapClaims{"iat": time.Now().Unix(), "exp": exp}).
			SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Verify(tok)
		require.Error(t, err)
	})

	t.Run("no expiry claim", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
			jwt.MapClaims{"email": "a@b.com", "iat": time.Now().Unix()}).
			SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Verify(tok)
		require.Error(t, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone,
			jwt.MapClaims{"email": "a@b.com", "exp": exp}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(tok)
		require.Error(t, err)
	})
}

func flipLastChar(tok string) string {
	last := tok[len(tok)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	return tok[:len(tok)-1] + string(replacement)
}

// swapPayload replaces the payload segment while keeping the original
// signature, which must no longer match.
func swapPayload(tok string) string {
	parts := strings.Split(tok, ".")
	other, _ := NewService(testSecret, weekTTL).Issue("evil@example.com")
	otherParts := strings.Split(other, ".")
	return strings.Join([]string{parts[0], otherParts[1], parts[2]}, ".")
}
