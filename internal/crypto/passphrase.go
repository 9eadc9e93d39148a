package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	// DefaultPassphraseBytes is the number of random bytes behind a
	// generated passphrase. 32 bytes = 256 bits of entropy.
	DefaultPassphraseBytes = 32

	// minPassphraseBytes guards against callers asking for a
	// passphrase too weak to protect anything.
	minPassphraseBytes = 16
)

// NewPassphrase creates a cryptographically secure passphrase. It
// returns both the raw bytes (these are what gets split into shares)
// and the URL-safe base64 string used as the age encryption
// passphrase.
func NewPassphrase(numBytes int) (raw []byte, passphrase string, err error) {
	if numBytes < minPassphraseBytes {
		return nil, "", fmt.Errorf("passphrase must be at least %d bytes, got %d", minPassphraseBytes, numBytes)
	}

	raw = make([]byte, numBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("generating random bytes: %w", err)
	}

	return raw, EncodePassphrase(raw), nil
}

// EncodePassphrase converts recovered raw passphrase bytes back to the
// string form used for age encryption. URL-safe base64 without padding
// for easy copy-paste.
func EncodePassphrase(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}
