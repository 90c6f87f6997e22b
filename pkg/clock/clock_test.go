package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("FiresInDeadlineOrder", func(t *testing.T) {
		clk := NewMock(start)
		var fired []string
		clk.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "b") })
		clk.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })

		clk.Advance(150 * time.Millisecond)
		assert.Equal(t, []string{"a"}, fired)

		clk.Advance(50 * time.Millisecond)
		assert.Equal(t, []string{"a", "b"}, fired)
		assert.Equal(t, start.Add(200*time.Millisecond), clk.Now())
	})

	t.Run("NowIsDeadlineInsideCallback", func(t *testing.T) {
		clk := NewMock(start)
		var at time.Time
		clk.AfterFunc(time.Second, func() { at = clk.Now() })

		clk.Advance(5 * time.Second)
		assert.Equal(t, start.Add(time.Second), at)
		assert.Equal(t, start.Add(5*time.Second), clk.Now())
	})

	t.Run("StoppedTimerNeverFires", func(t *testing.T) {
		clk := NewMock(start)
		fired := false
		timer := clk.AfterFunc(time.Second, func() { fired = true })

		require.True(t, timer.Stop())
		assert.False(t, timer.Stop())

		clk.Advance(time.Minute)
		assert.False(t, fired)
		assert.Zero(t, clk.Pending())
	})

	t.Run("CallbackMaySchedule", func(t *testing.T) {
		clk := NewMock(start)
		n := 0
		var tick func()
		tick = func() {
			n++
			if n < 3 {
				clk.AfterFunc(time.Second, tick)
			}
		}
		clk.AfterFunc(time.Second, tick)

		clk.Advance(10 * time.Second)
		assert.Equal(t, 3, n)
	})
}
