package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetPut(t *testing.T) {
	c := NewLRU(4)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("a", []int{1, 2, 3})
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 1, c.Len())
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(2)

	c.Put("a", []int{1})
	c.Put("b", []int{2})
	c.Put("c", []int{3})

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRUGetRefreshesRecency(t *testing.T) {
	c := NewLRU(2)

	c.Put("a", []int{1})
	c.Put("b", []int{2})

	// Touch a so b becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", []int{3})

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU(2)

	c.Put("a", []int{1})
	c.Put("a", []int{1, 2})

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 1, c.Len())
}

func TestLRUClear(t *testing.T) {
	c := NewLRU(4)
	c.Put("a", []int{1})
	c.Put("b", []int{2})

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", []int{9})
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int{9}, got)
}

func TestLRUDefaultCapacity(t *testing.T) {
	c := NewLRU(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		c.Put(fmt.Sprintf("k%d", i), []int{i})
	}
	assert.Equal(t, DefaultCapacity, c.Len())
}

func TestLRUConcurrent(t *testing.T) {
	c := NewLRU(64)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%32)
				c.Put(key, []int{i})
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}

func TestKeyComposition(t *testing.T) {
	base := Key("ds1", []string{"a", "b"})

	assert.Equal(t, base, Key("ds1", []string{"a", "b"}), "deterministic")
	assert.NotEqual(t, base, Key("ds2", []string{"a", "b"}), "identity matters")
	assert.NotEqual(t, base, Key("ds1", []string{"b", "a"}), "order matters")
	assert.NotEqual(t, base, Key("ds1", []string{"a b"}), "boundaries matter")
	assert.NotEqual(t, Key("ds1 a", []string{"b"}), Key("ds1", []string{"a b"}))
	assert.Len(t, base, 64)
}
