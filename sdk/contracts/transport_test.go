package contracts_test

import (
	"testing"

	. "github.com/leandrodaf/midicap/sdk/contracts"
	"github.com/stretchr/testify/assert"
)

func snapshot(tempo float64, num, den int) TransportSnapshot {
	return TransportSnapshot{Tempo: tempo, TimeSigNumerator: num, TimeSigDenominator: den}
}

func TestBeatsPerBar(t *testing.T) {
	assert.Equal(t, 4.0, snapshot(120, 4, 4).BeatsPerBar())
	assert.Equal(t, 3.0, snapshot(120, 3, 4).BeatsPerBar())
	assert.Equal(t, 3.0, snapshot(120, 6, 8).BeatsPerBar())
}

func TestBeatLength(t *testing.T) {
	assert.Equal(t, 0.5, snapshot(120, 4, 4).BeatLength())
	assert.Equal(t, 1.0, snapshot(60, 4, 4).BeatLength())
}

func TestBarLength(t *testing.T) {
	assert.Equal(t, 2.0, snapshot(120, 4, 4).BarLength())
	assert.Equal(t, 1.5, snapshot(120, 6, 8).BarLength())
}

func TestMIDIBytes(t *testing.T) {
	event := MIDI{Time: 1.25, Command: 0x93, Note: 64, Velocity: 100}
	assert.Equal(t, [3]byte{0x93, 64, 100}, event.Bytes())
}
