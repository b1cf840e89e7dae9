package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

const (
	// VerifierLength is the length of generated PKCE code verifiers (RFC 7636 allows 43-128).
	VerifierLength = 64

	// unreserved is the RFC 3986 unreserved character set verifiers are drawn from.
	unreserved = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._~"
)

// GenerateVerifier returns a [VerifierLength] character code verifier drawn from crypto/rand.
func GenerateVerifier() (string, error) {
	max := big.NewInt(int64(len(unreserved)))
	buf := make([]byte, VerifierLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate verifier: %w", err)
		}
		buf[i] = unreserved[n.Int64()]
	}
	return string(buf), nil
}

// Challenge derives the S256 code challenge: base64url(sha256(verifier)) without padding.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
