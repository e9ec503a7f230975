package seal

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// Payload cipher parameters. The layout ("Salted__", 8-byte salt,
// CBC ciphertext) and the PBKDF2 iteration count are part of the wire
// format and cannot change within a compatible major.minor line.
const (
	saltMagic  = "Salted__"
	saltSize   = 8
	kdfRounds  = 10000
	derivedLen = 32 + aes.BlockSize // AES-256 key + IV
)

// EncryptPayload encrypts plaintext under the session key with
// AES-256-CBC. A fresh random salt is drawn per call; key and IV are
// derived from the key's encoded form via PBKDF2-SHA256.
func EncryptPayload(key *SessionKey, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	aesKey, iv := deriveKeyIV(key, salt)
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	padded := pad(plaintext)
	out := make([]byte, len(saltMagic)+saltSize+len(padded))
	copy(out, saltMagic)
	copy(out[len(saltMagic):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[len(saltMagic)+saltSize:], padded)

	return out, nil
}

// DecryptPayload reverses EncryptPayload.
func DecryptPayload(key *SessionKey, data []byte) ([]byte, error) {
	header := len(saltMagic) + saltSize
	if len(data) < header+aes.BlockSize || string(data[:len(saltMagic)]) != saltMagic {
		return nil, fmt.Errorf("%w: payload block is not salted ciphertext", serrors.ErrDecryptFailed)
	}
	salt := data[len(saltMagic):header]
	ct := data[header:]
	if len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length is not a cipher-block multiple", serrors.ErrDecryptFailed)
	}

	aesKey, iv := deriveKeyIV(key, salt)
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	unpadded, err := unpad(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrDecryptFailed, err)
	}
	return unpadded, nil
}

// Wrap asymmetrically encrypts the raw session key for one recipient
// using RSA PKCS#1 v1.5 padding.
func Wrap(pub *rsa.PublicKey, key *SessionKey) ([]byte, error) {
	return rsa.EncryptPKCS1v15(rand.Reader, pub, key.Raw())
}

// Unwrap recovers the session key from a wrapped block using the local
// private key.
func Unwrap(priv *rsa.PrivateKey, ciphertext []byte) (*SessionKey, error) {
	raw, err := rsa.DecryptPKCS1v15(rand.Reader, priv, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrUnwrapFailed, err)
	}
	return SessionKeyFromRaw(raw)
}

func deriveKeyIV(key *SessionKey, salt []byte) (aesKey, iv []byte) {
	derived := pbkdf2.Key([]byte(key.Encoded()), salt, kdfRounds, derivedLen, sha256.New)
	return derived[:32], derived[32:]
}

// pad applies PKCS#7 padding to a full block multiple.
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("bad padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("bad padding")
		}
	}
	return data[:len(data)-n], nil
}
