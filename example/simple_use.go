package main

import (
	"fmt"
	"math"
	"time"

	"github.com/leandrodaf/midicap/internal/logger"
	"github.com/leandrodaf/midicap/internal/notegen"
	"github.com/leandrodaf/midicap/internal/viewport"
	"github.com/leandrodaf/midicap/sdk/capture"
	"github.com/leandrodaf/midicap/sdk/contracts"
)

// Feeds the recorder from the built-in note generator, then exports the middle
// of the take as a MIDI file. No MIDI hardware needed.
func main() {
	log := logger.NewZapLogger()

	rec, err := capture.NewRecorder(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
		}),
	)
	if err != nil {
		log.Error("Failed to initialize recorder", log.Field().Error("error", err))
		return
	}
	defer rec.Stop() // Also removes the exported file.

	const (
		tempo = 120.0
		dt    = 0.01
	)

	gen := notegen.New(1)
	clock := 0.0
	submitted := 0
	for i := 0; i < 3000; i++ {
		clock += dt
		if data, ok := gen.Generate(dt); ok {
			event := contracts.MIDI{Time: clock, Command: data[0], Note: data[1], Velocity: data[2]}
			if err := rec.Submit(event); err != nil {
				log.Error("Failed to submit event", log.Field().Error("error", err))
				return
			}
			submitted++
		}

		// A transport snapshot every 100 ms, as a plugin host would send.
		if i%10 == 0 {
			beats := clock * tempo / 60
			snapshot := contracts.TransportSnapshot{
				Time:               clock,
				Playing:            true,
				SampleRate:         48000,
				Tempo:              tempo,
				TimeSigNumerator:   4,
				TimeSigDenominator: 4,
				PosSamples:         int64(clock * 48000),
				PosBeats:           beats,
				BarStartPosBeats:   math.Floor(beats/4) * 4,
			}
			if err := rec.SubmitTransport(snapshot); err != nil {
				log.Error("Failed to submit transport", log.Field().Error("error", err))
				return
			}
		}
	}

	waitForDelivery(rec, submitted)

	lo, hi, ok := rec.TimeRange()
	if !ok {
		fmt.Println("The generator produced no notes.")
		return
	}
	fmt.Printf("Captured %d events, %d notes between %.2fs and %.2fs across %d bars.\n",
		rec.Events(), len(rec.Notes()), lo, hi, len(rec.Bars()))

	// Zoom the view in on the middle of the take and export what it shows.
	view := viewport.New(viewport.DefaultOptions())
	view.SetAvailable(lo, hi)
	view.Zoom(0.5, (lo+hi)/2)
	view.Update(1)

	t0, t1 := view.CurrentRange()
	path, err := rec.Export(t0, t1, tempo)
	if err != nil {
		log.Error("Export failed", log.Field().Error("error", err))
		return
	}
	fmt.Printf("Exported [%.2fs, %.2fs] to %s (path is on the clipboard).\n", t0, t1, path)
}

// waitForDelivery polls until the queued events have been folded into the store.
func waitForDelivery(rec contracts.Recorder, want int) {
	for i := 0; i < 100 && rec.Events() < want; i++ {
		time.Sleep(10 * time.Millisecond)
	}
}
