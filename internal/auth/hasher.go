// Package auth implements credential hashing and the account directory:
// registration and authentication of console users on top of the
// persistence façade.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned when a plaintext exceeds what bcrypt can
// hash (72 bytes).
var ErrPasswordTooLong = errors.New("password too long")

// ErrMalformedHash is returned when a stored hash is not a valid bcrypt
// string, so verification cannot even be attempted.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword returns the bcrypt hash of plain using the given cost.
// Each call generates a fresh salt, so hashing the same plaintext twice
// yields different strings; salt and cost are embedded in the output.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks plain against a stored bcrypt hash using the salt
// and cost embedded in it. A well-formed mismatch is (false, nil); only a
// hash that is not bcrypt at all produces ErrMalformedHash.
func VerifyPassword(plain, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
