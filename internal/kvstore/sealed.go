package kvstore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// sealSalt is fixed so the same passphrase always derives the same key.
// Changing it makes every previously sealed value unreadable.
var sealSalt = []byte("doctor-booking/kvstore/sealed/v1")

// ErrCorrupt is returned (inside a *StoreError) when a stored value cannot
// be decoded or authenticated.
var ErrCorrupt = errors.New("sealed value is corrupt or was written with another key")

// Sealed encrypts values at rest before handing them to the wrapped Store.
// Each value is stored as base64(nonce || XChaCha20-Poly1305 ciphertext) and
// the key name is bound as additional data, so a value moved under another
// key fails to open.
type Sealed struct {
	inner Store
	aead  cipher.AEAD
}

// NewSealed derives a 256-bit key from passphrase with Argon2id and wraps
// inner.
func NewSealed(inner Store, passphrase string) (*Sealed, error) {
	if passphrase == "" {
		return nil, errors.New("kvstore: empty sealing passphrase")
	}
	key := argon2.IDKey([]byte(passphrase), sealSalt, 1, 64*1024, 4, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealed{inner: inner, aead: aead}, nil
}

var _ Store = (*Sealed)(nil)

// Get reads and opens the value stored under key.
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	blob, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false, &StoreError{Op: "open", Key: key, Err: ErrCorrupt}
	}
	ns := s.aead.NonceSize()
	if len(blob) < ns+s.aead.Overhead() {
		return "", false, &StoreError{Op: "open", Key: key, Err: ErrCorrupt}
	}
	plain, err := s.aead.Open(nil, blob[:ns], blob[ns:], []byte(key))
	if err != nil {
		return "", false, &StoreError{Op: "open", Key: key, Err: ErrCorrupt}
	}
	return string(plain), true, nil
}

// Set seals value under a fresh random nonce and stores it.
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return &StoreError{Op: "seal", Key: key, Err: err}
	}
	blob := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(blob))
}

// Delete removes key from the wrapped store.
func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
