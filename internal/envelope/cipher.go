package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
)

// Cipher decrypts payloads of encrypted channels: hex text of
// IV(16) || AES-CBC ciphertext with PKCS#7 padding.
type Cipher struct {
	block   cipher.Block
	padSize int
}

// NewCipher uses the bytes of key directly; it must be 16, 24 or 32 bytes long.
// Publishers pad to the key length when it is a whole number of AES blocks.
func NewCipher(key string) (*Cipher, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("invalid shared key: %w", err)
	}
	padSize := aes.BlockSize
	if len(key)%aes.BlockSize == 0 {
		padSize = len(key)
	}
	return &Cipher{block: block, padSize: padSize}, nil
}

// Open decodes and decrypts one payload
func (c *Cipher) Open(payload []byte) ([]byte, error) {
	raw := make([]byte, hex.DecodedLen(len(bytes.TrimSpace(payload))))
	n, err := hex.Decode(raw, bytes.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("payload is not hex: %w", err)
	}
	raw = raw[:n]

	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("payload length %d is not IV plus whole blocks", len(raw))
	}

	iv, ciphertext := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plain, ciphertext)

	return unpad(plain, c.padSize)
}

// Seal is the inverse of Open
func (c *Cipher) Seal(plain, iv []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes", aes.BlockSize)
	}
	padded := pad(plain, c.padSize)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return []byte(hex.EncodeToString(out)), nil
}

func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
