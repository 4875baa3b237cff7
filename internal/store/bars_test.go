package store_test

import (
	"testing"

	"github.com/leandrodaf/midicap/sdk/contracts"
	"github.com/stretchr/testify/assert"
)

// snapshot builds a playing 4/4 snapshot at 120 bpm, where one bar lasts two
// seconds.
func snapshot(time, posBeats, barStart float64) contracts.TransportSnapshot {
	return contracts.TransportSnapshot{
		Time:               time,
		Playing:            true,
		SampleRate:         48000,
		Tempo:              120,
		TimeSigNumerator:   4,
		TimeSigDenominator: 4,
		PosSamples:         int64(time * 48000),
		PosBeats:           posBeats,
		BarStartPosBeats:   barStart,
	}
}

func TestBarMarkersFromTransport(t *testing.T) {
	store := newStore()

	store.ObserveTransport(snapshot(0.5, 1, 0))
	store.ObserveTransport(snapshot(2.5, 5, 4))
	store.ObserveTransport(snapshot(4.5, 9, 8))

	bars := store.Bars()
	assert.Len(t, bars, 3)
	assert.Equal(t, 0, bars[0].Number)
	assert.Equal(t, 1, bars[1].Number)
	assert.Equal(t, 2, bars[2].Number)

	// Bar times are back-projected from the snapshot's beat position.
	assert.InDelta(t, 0.0, bars[0].Time, 1e-9)
	assert.InDelta(t, 2.0, bars[1].Time, 1e-9)
	assert.InDelta(t, 4.0, bars[2].Time, 1e-9)
}

func TestRepeatedSnapshotsSameBar(t *testing.T) {
	store := newStore()

	store.ObserveTransport(snapshot(0.5, 1, 0))
	store.ObserveTransport(snapshot(1.0, 2, 0))
	store.ObserveTransport(snapshot(1.5, 3, 0.005)) // jitter below the tolerance

	assert.Len(t, store.Bars(), 1)
}

func TestStoppedTransportRestartsCadence(t *testing.T) {
	store := newStore()

	store.ObserveTransport(snapshot(0.5, 1, 0))
	assert.Len(t, store.Bars(), 1)

	stopped := snapshot(1.0, 2, 0)
	stopped.Playing = false
	store.ObserveTransport(stopped)
	assert.Len(t, store.Bars(), 1)

	// Restarting inside the same bar emits a fresh marker.
	store.ObserveTransport(snapshot(2.0, 1, 0))
	assert.Len(t, store.Bars(), 2)
}

func TestBarsDivisibleBy(t *testing.T) {
	store := newStore()

	store.ObserveTransport(snapshot(0.5, 1, 0))
	store.ObserveTransport(snapshot(2.5, 5, 4))
	store.ObserveTransport(snapshot(4.5, 9, 8))
	store.ObserveTransport(snapshot(6.5, 13, 12))

	assert.Len(t, store.BarsDivisibleBy(1), 4)

	even := store.BarsDivisibleBy(2)
	assert.Len(t, even, 2)
	assert.Equal(t, 0, even[0].Number)
	assert.Equal(t, 2, even[1].Number)
}

func TestNearestBar(t *testing.T) {
	store := newStore()

	_, ok := store.NearestBar(1.0, 1)
	assert.False(t, ok)

	store.ObserveTransport(snapshot(0.5, 1, 0)) // bar 0 at 0.0
	store.ObserveTransport(snapshot(2.5, 5, 4)) // bar 1 at 2.0
	store.ObserveTransport(snapshot(4.5, 9, 8)) // bar 2 at 4.0

	bar, ok := store.NearestBar(1.9, 1)
	assert.True(t, ok)
	assert.Equal(t, 1, bar.Number)

	bar, ok = store.NearestBar(0.1, 2)
	assert.True(t, ok)
	assert.Equal(t, 0, bar.Number)

	// Equidistant candidates resolve to the earlier bar.
	bar, ok = store.NearestBar(2.0, 2)
	assert.True(t, ok)
	assert.Equal(t, 0, bar.Number)
}

func TestTransportSnapshotKept(t *testing.T) {
	store := newStore()

	_, ok := store.Transport()
	assert.False(t, ok)

	store.ObserveTransport(snapshot(0.5, 1, 0))
	ts, ok := store.Transport()
	assert.True(t, ok)
	assert.Equal(t, 120.0, ts.Tempo)

	// Stopped snapshots still update the transport state.
	stopped := snapshot(1.0, 2, 0)
	stopped.Playing = false
	store.ObserveTransport(stopped)
	ts, _ = store.Transport()
	assert.False(t, ts.Playing)
}
