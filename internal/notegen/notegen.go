// Package notegen emits a random note stream so the capture pipeline can be
// exercised without a MIDI device.
package notegen

import (
	"math"
	"math/rand"
)

// Generator produces raw MIDI events on channel 0. Keys cluster around middle C
// and note starts and lengths are exponentially gated, which keeps the density
// close to actual playing.
type Generator struct {
	active       map[uint8]struct{}
	noteMin      uint8
	noteMax      uint8
	avg          float64
	stddev       float64
	noteDistance float64
	noteLength   float64
	playPenalty  float64
	rng          *rand.Rand
}

// New returns a Generator with its own deterministic random source.
func New(seed int64) *Generator {
	return &Generator{
		active:       make(map[uint8]struct{}, 128),
		noteMin:      21,
		noteMax:      108,
		avg:          60,
		stddev:       5,
		noteDistance: 0.2,  // Average gap between note starts, in seconds.
		noteLength:   0.5,  // Average note length, in seconds.
		playPenalty:  1.25, // Extra start spacing per note already sounding.
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Generate advances the stream by dt seconds and returns at most one event. A
// key that is already sounding must end before it can fire again.
func (g *Generator) Generate(dt float64) ([3]byte, bool) {
	key := g.sampleKey()

	// Give each sounding note a chance to end first.
	for active := range g.active {
		if !g.gate(dt, g.noteLength) {
			continue
		}
		delete(g.active, active)
		return [3]byte{0x80, active, 64}, true
	}

	if _, sounding := g.active[key]; !sounding {
		tau := g.noteDistance * (1 + g.playPenalty*float64(len(g.active)))
		if g.gate(dt, tau) {
			g.active[key] = struct{}{}
			return [3]byte{0x90, key, 64}, true
		}
	}
	return [3]byte{}, false
}

// sampleKey draws a key from a normal distribution clamped to the piano range.
func (g *Generator) sampleKey() uint8 {
	key := g.rng.NormFloat64()*g.stddev + g.avg
	if key < float64(g.noteMin) {
		return g.noteMin
	}
	if key > float64(g.noteMax) {
		return g.noteMax
	}
	return uint8(key)
}

// gate fires with the probability that an event of mean interval tau happens
// within dt.
func (g *Generator) gate(dt, tau float64) bool {
	return g.rng.Float64() < 1-math.Exp(-dt/tau)
}
