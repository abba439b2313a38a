package id

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJ-NP-TV-Z]{26}$`)

func TestNewULID(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()

		ulid := NewULID()
		require.Regexp(t, ulidPattern, ulid)
	})

	t.Run("encodes timestamp prefix", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "0000000000", newULID(time.UnixMilli(0))[:10])
		assert.Equal(t, "000000000Z", newULID(time.UnixMilli(31))[:10])
		assert.Equal(t, "0000000010", newULID(time.UnixMilli(32))[:10])
	})

	t.Run("sorts by creation time", func(t *testing.T) {
		t.Parallel()

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		earlier := newULID(base)
		later := newULID(base.Add(time.Millisecond))
		assert.Less(t, earlier, later)
	})

	t.Run("unique under concurrency", func(t *testing.T) {
		t.Parallel()

		const workers, perWorker = 8, 250
		var (
			mu   sync.Mutex
			seen = make(map[string]struct{}, workers*perWorker)
			wg   sync.WaitGroup
		)
		for range workers {
			wg.Go(func() {
				for range perWorker {
					v := NewULID()
					mu.Lock()
					seen[v] = struct{}{}
					mu.Unlock()
				}
			})
		}
		wg.Wait()
		require.Len(t, seen, workers*perWorker)
	})
}
