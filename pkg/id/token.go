package id

import "crypto/rand"

// TokenLength is the number of characters in a subscription token.
const TokenLength = 25

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Bytes at or above this value are discarded so every symbol is equally likely.
const tokenRejectAbove = 256 - 256%len(tokenAlphabet)

// NewToken returns a cryptographically random alphanumeric token of TokenLength
// characters, drawn uniformly from [A-Za-z0-9].
func NewToken() string {
	return newToken(TokenLength)
}

func newToken(n int) string {
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/2)
	for len(out) < n {
		_, _ = rand.Read(buf) // crypto/rand.Read never returns an error since Go 1.24
		for _, b := range buf {
			if int(b) >= tokenRejectAbove {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}
