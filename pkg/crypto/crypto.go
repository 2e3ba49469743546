// Package crypto provides session identifiers and key material for the
// front end: random session ids, their stored hashes, cookie keys and the
// sealing key for bearer tokens kept at rest.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest accepted session secret.
const MinSecretLength = 32

var ErrSecretTooShort = fmt.Errorf("crypto: session secret must be at least %d bytes", MinSecretLength)

// GenerateToken generates a random token string (32 bytes, hex).
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("crypto: generate token: %w", err)
	}
	return fmt.Sprintf("%x", b), nil
}

// HashToken hashes a raw token string with SHA-256.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h[:])
}

// Keys is the key material derived from the session secret.
type Keys struct {
	CookieHash  []byte // 64 bytes, HMAC key for the session cookie
	CookieBlock []byte // 32 bytes, AES key for the session cookie
	TokenSeal   []byte // 32 bytes, XChaCha20-Poly1305 key for stored bearer tokens
}

// DeriveKeys expands the session secret into independent keys with
// HKDF-SHA256, one info label per purpose.
func DeriveKeys(secret []byte) (Keys, error) {
	if len(secret) < MinSecretLength {
		return Keys{}, ErrSecretTooShort
	}
	derive := func(label string, n int) ([]byte, error) {
		out := make([]byte, n)
		r := hkdf.New(sha256.New, secret, nil, []byte("jeevanra "+label))
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, fmt.Errorf("crypto: derive %s key: %w", label, err)
		}
		return out, nil
	}

	var k Keys
	var err error
	if k.CookieHash, err = derive("cookie-hash", 64); err != nil {
		return Keys{}, err
	}
	if k.CookieBlock, err = derive("cookie-block", 32); err != nil {
		return Keys{}, err
	}
	if k.TokenSeal, err = derive("token-seal", 32); err != nil {
		return Keys{}, err
	}
	return k, nil
}

// GenerateSecret returns a fresh random secret, used when none is configured.
// Sessions do not survive a restart in that case.
func GenerateSecret() ([]byte, error) {
	b := make([]byte, MinSecretLength)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("crypto: generate secret: %w", err)
	}
	return b, nil
}
