package store

import (
	"math"

	"github.com/leandrodaf/midicap/sdk/contracts"
)

// barBeatTolerance treats snapshots whose bar start is within this many beats of
// the last recorded one as belonging to the same bar.
const barBeatTolerance = 0.01

// ObserveTransport records the latest transport snapshot and appends a bar marker
// whenever the host reports a new bar start. A stopped transport clears the
// last-bar memory, so a later restart begins a fresh cadence instead of
// continuing the old one.
func (s *Store) ObserveTransport(snapshot contracts.TransportSnapshot) {
	s.transport = snapshot
	s.hasTransport = true

	if !snapshot.Playing {
		s.hasLastBar = false
		return
	}
	if s.hasLastBar && math.Abs(snapshot.BarStartPosBeats-s.lastBarBeats) < barBeatTolerance {
		return
	}

	// Back-project the snapshot time to the moment the bar began.
	bar := contracts.Bar{
		Number: int(math.Round(snapshot.BarStartPosBeats / snapshot.BeatsPerBar())),
		Time:   snapshot.Time - (snapshot.PosBeats-snapshot.BarStartPosBeats)*60/snapshot.Tempo,
	}
	s.bars = append(s.bars, bar)
	s.lastBarBeats = snapshot.BarStartPosBeats
	s.hasLastBar = true
	s.logger.Debug("New bar",
		s.logger.Field().Int("number", bar.Number),
		s.logger.Field().Float64("time", bar.Time))
}

// Transport returns the latest observed snapshot. ok is false before the first
// one arrives.
func (s *Store) Transport() (contracts.TransportSnapshot, bool) {
	return s.transport, s.hasTransport
}

// Bars returns all bar markers in observation order. The slice is a copy.
func (s *Store) Bars() []contracts.Bar {
	return append([]contracts.Bar(nil), s.bars...)
}

// BarsDivisibleBy returns the bars whose number is a multiple of n.
func (s *Store) BarsDivisibleBy(n int) []contracts.Bar {
	var out []contracts.Bar
	for _, b := range s.bars {
		if b.Number%n == 0 {
			out = append(out, b)
		}
	}
	return out
}

// NearestBar returns the bar with a number divisible by n that lies closest to t.
// The first minimal element wins on ties. ok is false when no such bar exists.
func (s *Store) NearestBar(t float64, n int) (contracts.Bar, bool) {
	var best contracts.Bar
	found := false
	for _, b := range s.bars {
		if b.Number%n != 0 {
			continue
		}
		if !found || math.Abs(b.Time-t) < math.Abs(best.Time-t) {
			best = b
			found = true
		}
	}
	return best, found
}
