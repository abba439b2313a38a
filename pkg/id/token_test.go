package id

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	t.Parallel()

	t.Run("length and alphabet", func(t *testing.T) {
		t.Parallel()

		for range 100 {
			token := NewToken()
			require.Len(t, token, TokenLength)
			require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]+$`), token)
		}
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			seen[NewToken()] = struct{}{}
		}
		assert.Len(t, seen, 1000)
	})

	t.Run("covers the whole alphabet", func(t *testing.T) {
		t.Parallel()

		used := make(map[byte]struct{})
		sample := newToken(20000)
		for i := range len(sample) {
			used[sample[i]] = struct{}{}
		}
		assert.Len(t, used, len(tokenAlphabet))
		for c := range used {
			assert.True(t, strings.IndexByte(tokenAlphabet, c) >= 0)
		}
	})

	t.Run("reject threshold is a multiple of the alphabet", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 248, tokenRejectAbove)
		assert.Zero(t, tokenRejectAbove%len(tokenAlphabet))
	})
}
