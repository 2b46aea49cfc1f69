package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/forumlab/webforum/internal/common"
	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. KeyLen and the hex salt format match the rows produced
// by the provisioning tool, so seed identities keep working across rehashes
// of the service itself.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

// HashPassword derives a fresh salt and scrypt hash for a password.
// Both results are hex-encoded for storage.
func HashPassword(password string) (saltHex, hashHex string, err error) {
	saltHex, err = common.RandomHex(saltBytes)
	if err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return "", "", err
	}

	return saltHex, hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the key from the candidate password and compares
// it against the stored hash in constant time.
func VerifyPassword(password, saltHex, hashHex string) (bool, error) {
	stored, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, fmt.Errorf("decoding stored hash: %w", err)
	}

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(stored, key) == 1, nil
}

// deriveKey runs the KDF. The hex salt string itself is the scrypt salt
// input, not its decoded bytes; the provisioning tool does the same.
func deriveKey(password, saltHex string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	return key, nil
}
