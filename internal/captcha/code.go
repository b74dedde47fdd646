// Package captcha generates and renders visual login challenges.
package captcha

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Alphabet is the set of characters a challenge code is drawn from: digits
// and uppercase letters, excluding the easily confused glyphs 0/O and 1/I.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// DefaultCodeLength is the challenge code length used when none is configured.
const DefaultCodeLength = 4

// GenerateCode draws length characters uniformly at random from Alphabet.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("captcha: code length must be positive, got %d", length)
	}
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		randInt, err := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		if err != nil {
			return "", err
		}
		result[i] = Alphabet[randInt.Int64()]
	}
	return string(result), nil
}

// NewSessionKey returns a fresh opaque challenge identifier: 32 random bytes
// rendered as hex.
func NewSessionKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
