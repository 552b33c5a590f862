// Package token mints opaque bearer tokens and hashes them for storage.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	PrefixLive = "sk_live_"
	PrefixTest = "sk_test_"
)

const (
	tokenRandomBytes = 32
	// displayRandomChars is how much of the random part stays visible in listings.
	displayRandomChars = 4
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a plaintext token and its SHA-256 hex hash. Only the hash is ever stored.
func (g *Generator) Generate(prefix string) (string, string, error) {
	randomBytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plainToken := prefix + hex.EncodeToString(randomBytes)
	return plainToken, g.Hash(plainToken), nil
}

func (g *Generator) Hash(plainToken string) string {
	sum := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(sum[:])
}

func (g *Generator) Verify(plainToken, hash string) bool {
	computed := g.Hash(plainToken)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// DisplayPrefix returns the recognisable head of a token, e.g. "sk_live_3f9a".
func (g *Generator) DisplayPrefix(plainToken string) string {
	head, rest := "", plainToken
	for _, p := range []string{PrefixLive, PrefixTest} {
		if strings.HasPrefix(plainToken, p) {
			head, rest = p, plainToken[len(p):]
			break
		}
	}
	if len(rest) > displayRandomChars {
		rest = rest[:displayRandomChars]
	}
	return head + rest
}
