// Package cryptox seals password vault entries with AES-GCM under a key
// derived from the server configuration.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length DeriveKey produces.
const KeySize = 32

var ErrEmptySecret = errors.New("empty vault secret")

// DeriveKey stretches secret into an AES-256 key with argon2id. The salt
// separates vault keys from any other use of the same secret.
func DeriveKey(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize), nil
}

// EncryptEntry serializes entry to JSON and encrypts it with AES-GCM. A new
// random nonce is generated on every call; additionalData (the owning user,
// for instance) is authenticated but not stored in the ciphertext.
func EncryptEntry(entry any, key, additionalData []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, additionalData), nonce, nil
}

// DecryptEntry reverses EncryptEntry and unmarshals the JSON into v. It
// fails if the key, nonce or additionalData differ from the ones used to
// seal.
func DecryptEntry(ciphertext, nonce, key, additionalData []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
