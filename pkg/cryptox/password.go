package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/rand/v2"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltLength is the number of letters in a freshly generated salt.
	SaltLength = 10

	// Delimiter separates the hex digest from the salt inside a stored
	// credential. Hex digits and generated salts are both alphanumeric, so
	// the delimiter can never collide with either component.
	Delimiter = "^"

	iterations = 20000
	keyLength  = 32
)

const saltLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Hasher derives storable credentials from plaintext passwords and verifies
// them again later. The salt source is explicit so tests can seed it.
type Hasher struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewHasher returns a Hasher backed by the given random source. Passing nil
// seeds a fresh PCG source, which is what production callers want; tests pass
// a deterministic one.
func NewHasher(rng *rand.Rand) *Hasher {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Hasher{rand: rng}
}

// GenerateSalt returns a salt of exactly length ASCII letters. A zero length
// yields the empty string. The salt only needs to defeat precomputed-hash
// lookups, so a general-purpose source is sufficient.
func (h *Hasher) GenerateSalt(length int) string {
	if length <= 0 {
		return ""
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	b := make([]byte, length)
	for i := range b {
		b[i] = saltLetters[h.rand.IntN(len(saltLetters))]
	}
	return string(b)
}

// HashPassword derives a lowercase hex digest from the password and salt
// using PBKDF2-HMAC-SHA256. Deterministic: the same inputs always produce the
// same digest.
func (h *Hasher) HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}

// EncodeCredential generates a fresh salt, hashes the password with it and
// returns the storable "digest^salt" form. This is the only way new
// credentials should be created.
func (h *Hasher) EncodeCredential(password string) string {
	salt := h.GenerateSalt(SaltLength)
	return h.HashPassword(password, salt) + Delimiter + salt
}

// VerifyPassword reports whether password matches the stored credential. A
// malformed credential (missing delimiter) fails closed.
func (h *Hasher) VerifyPassword(password, stored string) bool {
	digest, salt, ok := strings.Cut(stored, Delimiter)
	if !ok {
		return false
	}
	computed := h.HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
