package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

func TestGetOrCompute(t *testing.T) {
	t.Run("computes once per key", func(t *testing.T) {
		c := New(8)
		calls := 0
		fn := func() *result.Computation {
			calls++
			return result.New("op").Set("n", calls)
		}
		first := c.GetOrCompute("k", fn)
		second := c.GetOrCompute("k", fn)
		assert.Equal(t, 1, calls)
		assert.Same(t, first, second)
	})

	t.Run("capacity eviction is LRU", func(t *testing.T) {
		c := New(2)
		c.Put("a", result.New("a"))
		c.Put("b", result.New("b"))
		_, ok := c.Get("a") // refresh a
		require.True(t, ok)
		c.Put("c", result.New("c"))

		_, ok = c.Get("b")
		assert.False(t, ok, "b should be evicted")
		_, ok = c.Get("a")
		assert.True(t, ok)
		_, ok = c.Get("c")
		assert.True(t, ok)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("first stored value wins", func(t *testing.T) {
		c := New(4)
		v1 := result.New("op").Set("v", 1)
		v2 := result.New("op").Set("v", 2)
		c.Put("k", v1)
		c.Put("k", v2)
		got, ok := c.Get("k")
		require.True(t, ok)
		assert.Same(t, v1, got)
	})

	t.Run("concurrent access stays consistent", func(t *testing.T) {
		c := New(16)
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("k%d", i%4)
				v := c.GetOrCompute(key, func() *result.Computation {
					return result.New("op").Set("key", key)
				})
				assert.Equal(t, key, v.Payload["key"])
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 4, c.Len())
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "limit|sin(x)/x|0|+/-", Key("limit", "sin(x)/x", "0", "+/-"))
	assert.NotEqual(t, Key("op", "a", "b"), Key("op", "a|b"))
}
