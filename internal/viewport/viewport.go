package viewport

import "math"

// Options tunes how the view window follows its target.
type Options struct {
	SnapRange float64 // Fraction of the span under which the view snaps to the target.
	Speed     float64 // Easing speed toward the target, per second.
	MinZoom   float64 // Smallest allowed span in seconds.
	MaxZoom   float64 // Largest allowed span in seconds.
}

// DefaultOptions returns the tuning used by the capture views.
func DefaultOptions() Options {
	return Options{
		SnapRange: 0.995,
		Speed:     10,
		MinZoom:   10,
		MaxZoom:   600,
	}
}

type operation int

const (
	opPan operation = iota
	opZoom
)

// span is a time interval in seconds.
type span struct {
	lo, hi float64
}

func (s span) size() float64 {
	return s.hi - s.lo
}

// Control animates a pan/zoom time window over the captured timeline. Zoom and
// Pan move only the target span; the current span eases toward it on every
// Update, so rapid input stays smooth. The current range is what selections and
// exports should use.
//
// Control is not safe for concurrent use.
type Control struct {
	available span
	current   span
	target    span
	options   Options
	lastOp    operation
}

// New returns a Control showing the first 30 seconds.
func New(options Options) *Control {
	window := span{0, 30}
	return &Control{
		available: window,
		current:   window,
		target:    window,
		options:   options,
	}
}

// CurrentRange returns the span the view shows right now.
func (c *Control) CurrentRange() (lo, hi float64) {
	return c.current.lo, c.current.hi
}

// SetAvailable updates the bounds of the captured timeline and shifts the
// target back inside them, preserving its span when it fits.
func (c *Control) SetAvailable(lo, hi float64) {
	c.available = span{lo: lo, hi: hi}

	if c.target.lo < c.available.lo {
		offset := c.available.lo - c.target.lo
		c.target.lo = c.available.lo
		c.target.hi += offset
	}
	if c.target.hi > c.available.hi {
		offset := c.target.hi - c.available.hi
		c.target.hi = c.available.hi
		c.target.lo -= offset
	}

	c.target.lo = math.Max(c.target.lo, c.available.lo)
	c.target.hi = math.Min(c.target.hi, c.available.hi)
}

// Update advances the easing animation by dt seconds.
func (c *Control) Update(dt float64) {
	size := c.current.size()
	offset := math.Abs(c.current.lo-c.target.lo) + math.Abs(c.current.hi-c.target.hi)

	snapThreshold := size * (1 - c.options.SnapRange)
	const epsilon = 1e-5

	// Snap once the remaining distance is visually negligible.
	if offset <= snapThreshold+epsilon {
		c.current = c.target
		return
	}

	alpha := math.Min(c.options.Speed*dt, 1)
	c.current.lo += (c.target.lo - c.current.lo) * alpha
	c.current.hi += (c.target.hi - c.current.hi) * alpha
}

// Zoom rescales the target span by factor about center, with center given in
// current-view seconds. Factors below one zoom in.
func (c *Control) Zoom(factor, center float64) {
	// A zoom during a pan animation retargets from wherever the view is now.
	if c.lastOp == opPan {
		c.target = c.current
	}

	// Map center from current-view to target coordinates.
	centerInTarget := c.target.lo + (center-c.current.lo)*c.target.size()/c.current.size()

	currentSize := c.target.size()
	newSize := currentSize * factor
	newSize = math.Min(math.Max(newSize, c.options.MinZoom), c.options.MaxZoom)

	sizeDiff := newSize - currentSize
	newLo := c.target.lo - sizeDiff*(centerInTarget-c.target.lo)/currentSize
	newHi := newLo + newSize

	c.target = span{
		lo: math.Max(newLo, c.available.lo),
		hi: math.Min(newHi, c.available.hi),
	}
	c.lastOp = opZoom
}

// Pan shifts the target by amount spans, positive toward later times. The span
// is preserved at the timeline edges.
func (c *Control) Pan(amount float64) {
	distance := amount * c.target.size()

	newLo := c.target.lo + distance
	newHi := c.target.hi + distance

	if newLo < c.available.lo {
		offset := c.available.lo - newLo
		newLo = c.available.lo
		newHi += offset
	}
	if newHi > c.available.hi {
		offset := newHi - c.available.hi
		newHi = c.available.hi
		newLo -= offset
	}

	newLo = math.Max(newLo, c.available.lo)
	newHi = math.Min(newHi, c.available.hi)

	c.target = span{lo: newLo, hi: newHi}
	c.lastOp = opPan
}
