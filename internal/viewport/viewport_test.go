package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newControl() *Control {
	return New(DefaultOptions())
}

func TestNewShowsFirstThirtySeconds(t *testing.T) {
	c := newControl()
	lo, hi := c.CurrentRange()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 30.0, hi)
}

func TestSetAvailableNoChange(t *testing.T) {
	c := newControl()
	c.SetAvailable(0, 30)
	assert.Equal(t, span{0, 30}, c.target)
}

func TestSetAvailableShrinkFromEnd(t *testing.T) {
	c := newControl()
	c.target = span{0, 30}
	c.SetAvailable(0, 20)
	assert.Equal(t, 20.0, c.target.hi)
	assert.Equal(t, 0.0, c.target.lo)
}

func TestSetAvailableShrinkFromStart(t *testing.T) {
	c := newControl()
	c.target = span{0, 30}
	c.SetAvailable(10, 40)
	assert.Equal(t, 10.0, c.target.lo)
	assert.Equal(t, 30.0, c.target.size()) // span preserved
}

func TestSetAvailableBothSidesConstrain(t *testing.T) {
	c := newControl()
	c.target = span{0, 30}
	c.SetAvailable(5, 25)
	assert.GreaterOrEqual(t, c.target.lo, 5.0)
	assert.LessOrEqual(t, c.target.hi, 25.0)
}

func TestSetAvailableRangeLargerThanAvailable(t *testing.T) {
	c := newControl()
	c.target = span{10, 50}
	c.SetAvailable(0, 20)
	assert.LessOrEqual(t, c.target.size(), 20.0)
	assert.GreaterOrEqual(t, c.target.lo, 0.0)
	assert.LessOrEqual(t, c.target.hi, 20.0)
}

func TestUpdateZeroDeltaTime(t *testing.T) {
	c := newControl()
	c.target = span{100, 200}
	c.current = span{100, 200}
	c.Update(0)
	// Zero offset snaps even with dt zero.
	assert.Equal(t, c.target, c.current)
}

func TestUpdateSnapWhenOverSnapRange(t *testing.T) {
	c := newControl()
	c.options.SnapRange = 0.98
	// A one percent size change with no drift snaps immediately.
	c.current = span{0, 100}
	c.target = span{0, 99}
	c.Update(0.016)
	assert.Equal(t, c.target, c.current)
}

func TestUpdateInterpolateBelowSnapRange(t *testing.T) {
	c := newControl()
	c.options.Speed = 1
	c.current = span{0, 30}
	c.target = span{5, 25}
	orig := c.current
	c.Update(0.05)
	assert.NotEqual(t, orig, c.current)
}

func TestUpdateClampedAlpha(t *testing.T) {
	c := newControl()
	c.options.Speed = 100
	c.current = span{0, 30}
	c.target = span{10, 20}
	c.Update(0.1) // alpha would be 10 but caps at 1
	assert.Equal(t, c.target, c.current)
}

func TestZoomIn(t *testing.T) {
	c := newControl()
	c.target = span{0, 30}
	c.current = span{0, 30}
	c.Zoom(0.5, 15)
	assert.GreaterOrEqual(t, c.target.size(), c.options.MinZoom)
}

func TestZoomOut(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.target = span{100, 200}
	c.current = span{100, 200}
	initial := c.target.size()
	c.Zoom(2, 150)
	assert.Greater(t, c.target.size(), initial)
}

func TestZoomRespectsMinZoom(t *testing.T) {
	c := newControl()
	c.options.MinZoom = 30
	c.target = span{0, 30}
	c.Zoom(0.1, 15)
	assert.GreaterOrEqual(t, c.target.size(), c.options.MinZoom)
}

func TestZoomRespectsMaxZoom(t *testing.T) {
	c := newControl()
	c.options.MaxZoom = 600
	c.target = span{0, 30}
	c.Zoom(100, 15)
	assert.LessOrEqual(t, c.target.size(), c.options.MaxZoom)
}

func TestZoomMaintainsCenter(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.target = span{100, 200}
	c.current = span{100, 200}
	center := 150.0
	c.Zoom(0.5, center)
	newCenter := (c.target.lo + c.target.hi) / 2
	assert.InDelta(t, center, newCenter, 0.1)
}

func TestZoomAbandonsPanAnimation(t *testing.T) {
	c := newControl()
	c.options.SnapRange = 2 // threshold below zero, so Update never snaps
	c.options.Speed = 1
	c.available = span{0, 1000}
	c.target = span{100, 200}
	c.current = span{100, 200}

	c.Pan(0.2)
	assert.Equal(t, opPan, c.lastOp)

	// Ease very slowly so the pan animation stays in flight.
	c.options.Speed = 0.001
	c.Update(1)
	curAfterUpdate := c.current
	assert.NotEqual(t, c.target, c.current)

	c.Zoom(0.5, 150)

	// The pan is abandoned: zoom retargets from where the view was.
	assert.Equal(t, curAfterUpdate, c.current)
	assert.Equal(t, opZoom, c.lastOp)
}

func TestZoomMaintainsCenterFromEqualState(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.current = span{0, 100}
	c.target = span{0, 100}

	center1 := 50.0
	c.Zoom(0.5, center1)
	newCenter1 := (c.target.lo + c.target.hi) / 2
	assert.InDelta(t, center1, newCenter1, 0.1)

	// Zoom again before the animation catches up; the center must not drift.
	center2 := newCenter1
	c.Zoom(0.5, center2)
	newCenter2 := (c.target.lo + c.target.hi) / 2
	assert.InDelta(t, center2, newCenter2, 0.1)
}

func TestZoomRespectsAvailableBounds(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.target = span{100, 900}
	c.current = span{100, 900}
	c.Zoom(0.5, 500)
	assert.GreaterOrEqual(t, c.target.lo, c.available.lo)
	assert.LessOrEqual(t, c.target.hi, c.available.hi)
}

func TestZoomAtBoundary(t *testing.T) {
	c := newControl()
	c.available = span{0, 100}
	c.target = span{0, 100}
	c.current = span{0, 100}
	c.Zoom(0.5, 0)
	assert.GreaterOrEqual(t, c.target.lo, 0.0)
	assert.LessOrEqual(t, c.target.hi, 100.0)
}

func TestZoomClampedIfNewSizeExceedsAvailable(t *testing.T) {
	c := newControl()
	c.available = span{0, 10}
	c.target = span{2, 8}
	c.current = span{2, 8}
	c.Zoom(2, 5)
	assert.GreaterOrEqual(t, c.target.lo, c.available.lo)
	assert.LessOrEqual(t, c.target.hi, c.available.hi)
}

func TestPanRight(t *testing.T) {
	c := newControl()
	c.target = span{0, 10}
	c.Pan(0.5)
	assert.Greater(t, c.target.lo, 0.0)
	assert.Greater(t, c.target.hi, 10.0)
	assert.Equal(t, 10.0, c.target.size())
}

func TestPanLeft(t *testing.T) {
	c := newControl()
	c.target = span{10, 20}
	c.Pan(-0.5)
	assert.Less(t, c.target.lo, 10.0)
	assert.Less(t, c.target.hi, 20.0)
	assert.Equal(t, 10.0, c.target.size())
}

func TestPanZero(t *testing.T) {
	c := newControl()
	c.target = span{5, 15}
	original := c.target
	c.Pan(0)
	assert.Equal(t, original, c.target)
}

func TestPanRespectsLeftBoundary(t *testing.T) {
	c := newControl()
	c.available = span{0, 100}
	c.target = span{5, 15}
	c.Pan(-1)
	assert.GreaterOrEqual(t, c.target.lo, c.available.lo)
	assert.Equal(t, 10.0, c.target.size())
}

func TestPanRespectsRightBoundary(t *testing.T) {
	c := newControl()
	c.available = span{0, 100}
	c.target = span{85, 95}
	c.Pan(1)
	assert.LessOrEqual(t, c.target.hi, c.available.hi)
	assert.Equal(t, 10.0, c.target.size())
}

func TestPanAtLeftBoundary(t *testing.T) {
	c := newControl()
	c.available = span{0, 30}
	c.target = span{0, 10}
	original := c.target
	c.Pan(-1)
	assert.Equal(t, original, c.target)
}

func TestPanAtRightBoundary(t *testing.T) {
	c := newControl()
	c.available = span{0, 30}
	c.target = span{20, 30}
	original := c.target
	c.Pan(1)
	assert.Equal(t, original, c.target)
}

func TestPanMaintainsRangeSize(t *testing.T) {
	c := newControl()
	c.available = span{0, 100}
	c.target = span{20, 50}
	originalSize := c.target.size()
	c.Pan(0.3)
	assert.Equal(t, originalSize, c.target.size())
}

func TestZoomWithZeroCenterPosition(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.target = span{0, 500}
	c.current = span{0, 500}
	c.Zoom(0.5, 0)
	assert.GreaterOrEqual(t, c.target.lo, c.available.lo)
	assert.LessOrEqual(t, c.target.hi, c.available.hi)
}

func TestZoomWithMaxCenterPosition(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.target = span{500, 1000}
	c.current = span{500, 1000}
	c.Zoom(0.5, 1000)
	assert.GreaterOrEqual(t, c.target.lo, c.available.lo)
	assert.LessOrEqual(t, c.target.hi, c.available.hi)
}

func TestLargeZoomSteps(t *testing.T) {
	c := newControl()
	c.options.MinZoom = 5
	c.target = span{0, 30}
	c.current = span{0, 30}

	c.Zoom(0.5, 15)
	first := c.target.size()
	c.Zoom(0.5, c.target.lo+first/2)
	assert.Less(t, c.target.size(), first)
}

func TestZoomPanCombination(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.target = span{200, 800}
	c.current = span{200, 800}

	c.Zoom(0.5, 500)
	size := c.target.size()

	c.Pan(0.2)
	assert.Equal(t, size, c.target.size())
	assert.GreaterOrEqual(t, c.target.lo, c.available.lo)
	assert.LessOrEqual(t, c.target.hi, c.available.hi)
}

func TestVerySmallRange(t *testing.T) {
	c := newControl()
	c.options.MinZoom = 0.1
	c.target = span{0, 0.1}
	c.current = span{0, 0.1}
	c.Zoom(0.5, 0.05)
	assert.GreaterOrEqual(t, c.target.size(), 0.1)
}

func TestVeryLargeRange(t *testing.T) {
	c := newControl()
	c.available = span{0, 10000}
	c.target = span{0, 10000}
	c.current = span{0, 10000}
	c.Zoom(0.5, 5000)
	assert.Greater(t, c.target.size(), 0.0)
}

func TestPanDoesNotSnapImmediately(t *testing.T) {
	c := newControl()
	c.available = span{0, 1000}
	c.options.Speed = 1
	c.current = span{100, 200}
	c.target = span{100, 200}

	c.Pan(0.5)
	targetAfterPan := c.target
	assert.NotEqual(t, c.current, targetAfterPan)

	c.Update(0.01)

	// The view eases toward the new target instead of jumping there.
	assert.NotEqual(t, targetAfterPan, c.current)
	assert.Greater(t, c.current.lo, 100.0)
	assert.Greater(t, c.current.hi, 200.0)
}
