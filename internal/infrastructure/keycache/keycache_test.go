package keycache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_PutGetDelete(t *testing.T) {
	c := New()

	c.Put("sess-1", []byte("0123456789abcdef0123456789abcdef"))

	key, ok := c.Get("sess-1")
	assert.True(t, ok)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), key)

	c.Delete("sess-1")
	_, ok = c.Get("sess-1")
	assert.False(t, ok)
}

func TestCache_GetUnknown(t *testing.T) {
	c := New()

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_CopiesKeyMaterial(t *testing.T) {
	c := New()

	original := []byte("0123456789abcdef0123456789abcdef")
	c.Put("sess-1", original)
	original[0] = 'X'

	key, ok := c.Get("sess-1")
	assert.True(t, ok)
	assert.EqualValues(t, '0', key[0])

	// Mutating the returned copy must not poison the cached key either.
	key[1] = 'Y'
	again, _ := c.Get("sess-1")
	assert.EqualValues(t, '1', again[1])
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put("shared", []byte("0123456789abcdef0123456789abcdef"))
			c.Get("shared")
			c.Delete("shared")
		}()
	}
	wg.Wait()
}
