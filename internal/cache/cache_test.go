package cache

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheLoadsOnce(t *testing.T) {
	var calls int32

	c := NewWithTTL[int](time.Minute, func(key string) int {
		atomic.AddInt32(&calls, 1)
		n, _ := strconv.Atoi(key)

		return n * 2
	})

	wg := new(sync.WaitGroup)

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.Equal(t, 42, c.Load("21"))
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCacheInvalidate(t *testing.T) {
	var calls int32

	c := NewWithTTL[int](time.Minute, func(key string) int {
		atomic.AddInt32(&calls, 1)

		return int(calls)
	})

	assert.Equal(t, 1, c.Load("a"))
	assert.Equal(t, 1, c.Load("a"))

	c.Invalidate("a")

	assert.Equal(t, 2, c.Load("a"))
}
