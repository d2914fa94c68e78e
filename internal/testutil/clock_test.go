package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_ReportsFixedTime(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start, clock.Now())
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	clock := NewFixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	clock.Advance(90 * time.Minute)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC), clock.Now())

	clock.Set(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2030, clock.Now().Year())
}

func TestFixedClock_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	clock := NewFixedClock(time.Date(2024, 3, 1, 14, 0, 0, 0, loc))

	assert.Equal(t, time.UTC, clock.Now().Location())
	assert.Equal(t, 12, clock.Now().Hour())
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	clock := NewFixedClock(time.Unix(0, 0))
	const goroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(goroutines), clock.Now().Unix())
}
