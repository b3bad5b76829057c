package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"hash"
	"sync"
)

// RememberTokenBytes is the number of random bytes in a remember token.
const RememberTokenBytes = 32

// HMAC is a wrapper around the crypto/hmac package making it easier to use.
// It is safe for concurrent use, every request hashes the remember cookie.
type HMAC struct {
	mu   *sync.Mutex
	hmac hash.Hash
}

// NewHMAC creates and returns a new HMAC object.
func NewHMAC(key string) HMAC {
	return HMAC{
		mu:   &sync.Mutex{},
		hmac: hmac.New(sha256.New, []byte(key)),
	}
}

// Hash hashes an input string using HMAC with the secret key
// provided when the HMAC object was created.
func (h HMAC) Hash(input string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hmac.Reset()
	h.hmac.Write([]byte(input))
	b := h.hmac.Sum(nil)
	return base64.URLEncoding.EncodeToString(b)
}

// MakeRememberToken generates a remember token of RememberTokenBytes random bytes.
func MakeRememberToken() (string, error) {
	return String(RememberTokenBytes)
}

// Bytes generates n random bytes or returns an error. It uses the
// crypto/rand package, so it can be used for things like remember tokens.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NBytes returns the number of bytes used in a base64 URL encoded string.
func NBytes(base64String string) (int, error) {
	b, err := base64.URLEncoding.DecodeString(base64String)
	if err != nil {
		return -1, err
	}
	return len(b), nil
}

// String generates a byte slice of size nBytes and then returns a
// string that is the base64 URL encoded version of that byte slice.
func String(nBytes int) (string, error) {
	b, err := Bytes(nBytes)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
