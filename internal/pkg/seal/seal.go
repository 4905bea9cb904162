// Package seal encrypts small secrets at rest with NaCl secretbox.
package seal

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keyLength   = 32
	nonceLength = 24
)

var hkdfInfo = []byte("reservation-client credential seal v1")

// ErrOpen is returned when a sealed value fails authentication.
var ErrOpen = errors.New("sealed value cannot be opened")

// Sealer seals and opens values with a key derived from a passphrase.
// A nil *Sealer passes values through unchanged.
type Sealer struct {
	key [keyLength]byte
}

// New derives the sealing key from passphrase. An empty passphrase returns
// nil, which disables sealing.
func New(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, nil
	}
	h := hkdf.New(sha256.New, []byte(passphrase), nil, hkdfInfo)
	s := &Sealer{}
	if _, err := io.ReadFull(h, s.key[:]); err != nil {
		return nil, fmt.Errorf("derive sealing key: %w", err)
	}
	return s, nil
}

// Seal returns nonce || box.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	if s == nil {
		return plain, nil
	}
	var nonce [nonceLength]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("seal nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &s.key), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if s == nil {
		return sealed, nil
	}
	if len(sealed) < nonceLength+secretbox.Overhead {
		return nil, ErrOpen
	}
	var nonce [nonceLength]byte
	copy(nonce[:], sealed[:nonceLength])
	plain, ok := secretbox.Open(nil, sealed[nonceLength:], &nonce, &s.key)
	if !ok {
		return nil, ErrOpen
	}
	return plain, nil
}
