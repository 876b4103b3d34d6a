package service

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the browser client's original
// backend used; changing it only affects newly created hashes.
const bcryptCost = 10

// PasswordHasher wraps bcrypt so callers never touch hash internals.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCost}
}

// Hash produces a salted one-way hash; two calls with the same plaintext
// yield different strings.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. bcrypt's
// comparison does not leak timing correlated with partial matches.
func (h *PasswordHasher) Verify(plaintext string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
