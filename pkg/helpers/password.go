package helpers

import "golang.org/x/crypto/bcrypt"

// bcryptCost is pinned rather than taken from DefaultCost so credential
// hashing behaves the same across x/crypto upgrades.
const bcryptCost = 12

// HashPassword hashes a plain-text credential with bcrypt.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash.
// An unparseable stored hash counts as a mismatch.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
