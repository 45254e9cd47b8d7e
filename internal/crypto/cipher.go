package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// keyLen - длина ключа для AES‑256 (в байтах).
const keyLen = 32

// hkdfInfo отделяет ключ полей от других ключей, которые могли бы выводиться из того же секрета.
var hkdfInfo = []byte("passvault field cipher v1")

// ErrCipher - шифртекст не может быть расшифрован: повреждён, чужой ключ или подмена.
var ErrCipher = errors.New("cipher error")

// FieldCipher шифрует отдельные строковые поля записи. Ключ задаётся один раз при создании
// и дальше не меняется, поэтому экземпляр безопасен для конкурентного использования.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher выводит 256-битный ключ из сконфигурированного секрета (HKDF-SHA256).
func NewFieldCipher(secret string) (*FieldCipher, error) {
	if secret == "" {
		return nil, errors.New("empty cipher key")
	}
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("derive field key: %w", err)
	}
	return newFieldCipher(key)
}

func newFieldCipher(key []byte) (*FieldCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &FieldCipher{aead: gcm}, nil
}

// Encrypt шифрует plaintext с помощью AES‑GCM.
// Результат - base64(nonce || шифртекст+тег).
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt расшифровывает значение, полученное из Encrypt.
// Любая ошибка оборачивает ErrCipher.
func (c *FieldCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrCipher, err)
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrCipher)
	}
	plain, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCipher, err)
	}
	return string(plain), nil
}
