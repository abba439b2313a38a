package id

import (
	"crypto/rand"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const ulidLength = 26

// NewULID returns a 26-character ULID: 48 bits of millisecond timestamp
// followed by 80 random bits, both Crockford Base32 encoded.
// ULIDs sort lexicographically by creation time.
func NewULID() string {
	return newULID(time.Now())
}

func newULID(now time.Time) string {
	var entropy [10]byte
	_, _ = rand.Read(entropy[:]) // never returns an error since Go 1.24

	var out [ulidLength]byte

	ms := uint64(now.UnixMilli())
	for i := 9; i >= 0; i-- {
		out[i] = crockfordBase32[ms&0x1F]
		ms >>= 5
	}

	// 80 random bits become 16 five-bit groups, most significant first.
	var acc uint64
	bits := 0
	pos := 10
	for _, b := range entropy {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = crockfordBase32[(acc>>uint(bits))&0x1F]
			pos++
		}
	}

	return string(out[:])
}
