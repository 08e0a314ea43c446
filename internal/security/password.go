package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	keyBytes   = 32
	iterations = 210_000
)

// GeneratePassword derives a salted hash from a plain text password. The salt
// is random per call, so hashing the same password twice yields different
// pairs.
func GeneratePassword(plain string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltBytes)

	_, err = rand.Read(rawSalt)

	if err != nil {
		return "", "", err
	}

	key := pbkdf2.Key([]byte(plain), rawSalt, iterations, keyBytes, sha256.New)

	return hex.EncodeToString(key), hex.EncodeToString(rawSalt), nil
}

// VerifyPassword recomputes the hash with the stored salt and compares in
// constant time. Any malformed input is a plain false, never an error.
func VerifyPassword(plain, hash, salt string) bool {
	rawSalt, err := hex.DecodeString(salt)

	if err != nil {
		return false
	}

	expected, err := hex.DecodeString(hash)

	if err != nil || len(expected) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(plain), rawSalt, iterations, keyBytes, sha256.New)

	return subtle.ConstantTimeCompare(key, expected) == 1
}
