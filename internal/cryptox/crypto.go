// Package cryptox holds the hub's small cryptographic helpers: one-way
// password hashing and random numeric codes for email verification.
package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when the config does not set one.
const DefaultCost = 10

// randReader is a test seam for crypto/rand.Reader.
var randReader io.Reader = rand.Reader

// HashPassword returns the bcrypt hash of password. The plaintext is never
// stored; only the returned string should be persisted.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// A malformed hash is reported as a mismatch.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when no account exists so that both paths
// of a login spend the same bcrypt time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), DefaultCost)

// BurnPasswordCheck performs a throwaway bcrypt comparison.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// NumericCode returns a fixed-width decimal code with the given number of
// digits, drawn uniformly from [10^(digits-1), 10^digits). The first digit
// is never zero, so no padding is needed.
func NumericCode(digits int) (string, error) {
	if digits < 1 || digits > 18 {
		return "", errors.New("digits out of range")
	}
	low := pow10(digits - 1)
	span := pow10(digits) - low
	n, err := rand.Int(randReader, big.NewInt(span))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(low+n.Int64(), 10), nil
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
