package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter
	c.Inc()
	c.Inc()
	assert.Equal(t, uint64(2), c.Load())
}

func TestCounterSet(t *testing.T) {
	s := NewCounterSet()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Inc("EMAIL_NOTIFICATION.delivered")
		}()
	}
	wg.Wait()
	s.Inc("SMS_NOTIFICATION.failed")

	snap := s.Snapshot()
	assert.Equal(t, uint64(50), snap["EMAIL_NOTIFICATION.delivered"])
	assert.Equal(t, uint64(1), snap["SMS_NOTIFICATION.failed"])
	assert.Len(t, snap, 2)
	assert.Same(t, s.Get("SMS_NOTIFICATION.failed"), s.Get("SMS_NOTIFICATION.failed"))
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 2*time.Millisecond)
}
