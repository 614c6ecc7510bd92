package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_NewClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, 0.0, c.Now(), "new clock should start at 0")
}

func TestClock_NewClockAt(t *testing.T) {
	c := NewClockAt(100)
	assert.Equal(t, 100.0, c.Now(), "clock should start at specified value")
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()

	require.NoError(t, c.Advance(2.5))
	require.NoError(t, c.Advance(2.5), "equal times are not a regression")
	require.NoError(t, c.Advance(10))
	assert.Equal(t, 10.0, c.Now())
}

func TestClock_Regression(t *testing.T) {
	c := NewClockAt(10)

	err := c.Advance(9)
	require.Error(t, err)
	assert.True(t, IsClockRegression(err))
	assert.Equal(t, 10.0, c.Now(), "failed advance leaves the clock unchanged")

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "10", re.Details["now"])
	assert.Equal(t, "9", re.Details["event_time"])
}
