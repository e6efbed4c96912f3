package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New[string, int]()

	s.Set("foo", 42)
	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	_, ok = s.Get("bar")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := New[string, string]()
	s.Set("key", "value")

	s.Delete("key")

	_, ok := s.Get("key")
	assert.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	s := NewBounded[string, int](4)
	s.Set("a", 1)
	s.Set("b", 2)

	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestStore_Bounded(t *testing.T) {
	s := NewBounded[string, int](2)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 10) // overwrite does not count as a new entry
	s.Set("c", 3)

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok, "oldest entry evicted")

	val, ok := s.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, val)

	s.Delete("b")
	s.Set("d", 4)
	assert.Equal(t, 2, s.Len())
	_, ok = s.Get("c")
	assert.True(t, ok, "deleted keys free their slot")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewBounded[int, int](50)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.Set(n, n*2)
		}(i)
		go func(n int) {
			defer wg.Done()
			s.Get(n)
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
