package utilities

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"os"
)

// FieldCipher encrypts individual record fields (DOB, phone, account
// number) with AES-256-GCM. Ciphertext is base64(nonce || sealed).
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a cipher from a 32-byte key.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("field encryption key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &FieldCipher{aead: aead}, nil
}

// NewFieldCipherFromEnv reads a hex-encoded 32-byte key from the named
// environment variable.
func NewFieldCipherFromEnv(envName string) (*FieldCipher, error) {
	raw := os.Getenv(envName)
	if raw == "" {
		return nil, errors.New("field encryption key not set: " + envName)
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.New("field encryption key must be hex encoded")
	}
	return NewFieldCipher(key)
}

// Encrypt seals a plaintext field value. Empty input stays empty.
func (fc *FieldCipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, fc.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := fc.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a sealed field value.
func (fc *FieldCipher) Decrypt(enc string) (string, error) {
	if enc == "" {
		return "", nil
	}
	sealed, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	if len(sealed) < fc.aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, ct := sealed[:fc.aead.NonceSize()], sealed[fc.aead.NonceSize():]
	plain, err := fc.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// DecryptOrNil returns nil instead of an error so a corrupted field
// degrades to an empty value rather than blocking the whole record.
func (fc *FieldCipher) DecryptOrNil(enc string) *string {
	if enc == "" {
		return nil
	}
	plain, err := fc.Decrypt(enc)
	if err != nil {
		return nil
	}
	return &plain
}

// IdentityDigest produces the deterministic digest used by the per
// training uniqueness constraint on submissions. The encrypted columns
// are nondeterministic, so duplicates are caught on this digest instead.
func IdentityDigest(name, dob, phone string) string {
	sum := sha256.Sum256([]byte(name + "|" + dob + "|" + phone))
	return hex.EncodeToString(sum[:])
}
