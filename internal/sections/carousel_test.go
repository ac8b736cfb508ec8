package sections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finitefield.org/konstruksi-web/internal/lifecycle"
	"finitefield.org/konstruksi-web/internal/testutil"
)

func TestCarouselAutoAdvanceWraps(t *testing.T) {
	for _, k := range []int{0, 1, 2, 3, 7, 12} {
		clock := testutil.NewManualClock()
		scope := lifecycle.NewScope()
		c := NewCarousel(3)
		c.Start(scope, clock)

		clock.Advance(time.Duration(k) * Interval)
		require.Equal(t, k%3, c.Index(), "after %d ticks", k)
		scope.Close()
	}
}

func TestCarouselPauseStopsAdvancing(t *testing.T) {
	clock := testutil.NewManualClock()
	scope := lifecycle.NewScope()
	defer scope.Close()
	c := NewCarousel(4)
	c.Start(scope, clock)

	clock.Advance(Interval)
	require.Equal(t, 1, c.Index())

	c.TogglePause()
	require.True(t, c.Paused())
	require.Equal(t, 0, clock.Pending())
	clock.Advance(time.Hour)
	require.Equal(t, 1, c.Index())

	c.Next()
	require.Equal(t, 2, c.Index())
	require.True(t, c.Paused(), "manual navigation keeps the play state")

	c.Tick()
	require.Equal(t, 2, c.Index(), "ticks are ignored while paused")

	c.TogglePause()
	clock.Advance(Interval - time.Millisecond)
	require.Equal(t, 2, c.Index())
	clock.Advance(time.Millisecond)
	require.Equal(t, 3, c.Index())
}

func TestCarouselManualNavigation(t *testing.T) {
	c := NewCarousel(3)
	c.Prev()
	require.Equal(t, 2, c.Index())
	c.Next()
	c.Next()
	require.Equal(t, 1, c.Index())
	require.False(t, c.Paused())

	c.GoTo(2)
	require.Equal(t, 2, c.Index())
	c.GoTo(3)
	c.GoTo(-1)
	require.Equal(t, 2, c.Index())

	require.True(t, c.Apply(OpToggle))
	require.True(t, c.Paused())
	require.False(t, c.Apply("bogus"))
}

func TestCarouselScopeCancelsTimer(t *testing.T) {
	clock := testutil.NewManualClock()
	scope := lifecycle.NewScope()
	c := NewCarousel(2)
	c.Start(scope, clock)
	c.Start(scope, clock)
	require.Equal(t, 1, clock.Pending())
	require.True(t, c.Running())

	scope.Close()
	require.Equal(t, 0, clock.Pending())
	require.False(t, c.Running())
	clock.Advance(10 * Interval)
	require.Equal(t, 0, c.Index())

	c.TogglePause()
	c.TogglePause()
	require.Equal(t, 0, clock.Pending(), "toggling after teardown must not reschedule")
}

func TestCarouselWithoutSlides(t *testing.T) {
	clock := testutil.NewManualClock()
	scope := lifecycle.NewScope()
	c := NewCarousel(0)
	c.Start(scope, clock)
	c.Next()
	c.Prev()
	c.Tick()
	c.TogglePause()
	require.Equal(t, 0, c.Index())
	require.False(t, c.Paused())
	require.Equal(t, 0, clock.Pending())
	require.Equal(t, 0, scope.Len())
}

func TestRestoreCarousel(t *testing.T) {
	c := RestoreCarousel(3, 2, true)
	require.Equal(t, 2, c.Index())
	require.True(t, c.Paused())

	c = RestoreCarousel(3, 9, false)
	require.Equal(t, 0, c.Index())
}
