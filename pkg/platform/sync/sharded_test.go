package sync

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutex_SameKeySerializes(t *testing.T) {
	m := NewShardedMutex(0)
	counter := 0
	var wg sync.WaitGroup

	for range 100 {
		wg.Go(func() {
			_ = m.Do("1012345678", func() error {
				counter++
				return nil
			})
		})
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestShardedMutex_DoReturnsError(t *testing.T) {
	m := NewShardedMutex(4)
	boom := errors.New("boom")

	assert.ErrorIs(t, m.Do("k", func() error { return boom }), boom)

	// lock was released
	m.Lock("k")
	m.Unlock("k")
}

func TestShardedMutex_ShardFor(t *testing.T) {
	m := NewShardedMutex(8)

	assert.Equal(t, 0, m.shardFor(""))
	assert.Equal(t, m.shardFor("folder-1"), m.shardFor("folder-1"))

	seen := make(map[int]bool)
	for _, key := range []string{"1012345678", "2023456789", "3034567890", "4045678901", "5056789012", "6067890123"} {
		idx := m.shardFor(key)
		assert.True(t, idx >= 0 && idx < 8)
		seen[idx] = true
	}
	assert.GreaterOrEqual(t, len(seen), 2)
}
