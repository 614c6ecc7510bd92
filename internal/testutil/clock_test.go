package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tidewater/internal/network"
)

func TestEnv_StartsAtZero(t *testing.T) {
	env := NewEnv(nil)
	assert.Equal(t, 0.0, env.Now())
	assert.Equal(t, 0.0, env.Distance("A", "B"))
}

func TestEnv_SetAndAdvance(t *testing.T) {
	env := NewEnv(nil)

	assert.Equal(t, 2.5, env.Advance(2.5))
	assert.Equal(t, 5.0, env.Advance(2.5))

	// Rewinding is allowed
	env.Set(1)
	assert.Equal(t, 1.0, env.Now())
}

func TestEnv_Distance(t *testing.T) {
	env := NewEnv(network.NewTable().Set("A", "B", 10))
	assert.Equal(t, 10.0, env.Distance("B", "A"))
}

func TestEnv_ThreadSafe(t *testing.T) {
	env := NewEnv(nil)
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				env.Advance(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(numGoroutines*callsPerGoroutine), env.Now())
}
