package transfer

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/leandrodaf/midicap/internal/store"
	"github.com/leandrodaf/midicap/sdk/contracts"
)

// ppqn is the fixed metrical resolution of exported files.
const ppqn = 480

// Error definitions for selection export.
var (
	ErrEmptySelection = errors.New("no notes overlap the selection")
	ErrFileWrite      = errors.New("could not write MIDI file")
)

// Encoder renders time windows of a capture store as standard MIDI files. It owns
// at most one temporary file at a time: each successful export replaces the
// previous file, and Close removes the last one. Like the store it wraps, the
// Encoder is unsynchronized; callers serialize access.
type Encoder struct {
	store     *store.Store
	logger    contracts.Logger
	clipboard contracts.FileClipboard
	pattern   string
	path      string
}

// NewEncoder returns an Encoder over the given store. pattern names the temp
// file, e.g. "midicap_*.mid".
func NewEncoder(st *store.Store, log contracts.Logger, clip contracts.FileClipboard, pattern string) *Encoder {
	return &Encoder{store: st, logger: log, clipboard: clip, pattern: pattern}
}

// selectedNote pairs a note with whether its end is still open. An open note has
// no end time yet; for windowing it behaves as if it ended at infinity.
type selectedNote struct {
	note contracts.Note
	open bool
}

// selection gathers the completed and open notes overlapping (t0, t1).
func (e *Encoder) selection(t0, t1 float64) []selectedNote {
	var out []selectedNote
	for _, n := range e.store.NotesOverlapping(t0, t1) {
		out = append(out, selectedNote{note: n})
	}
	for _, n := range e.store.InFlight() {
		if t1 > n.Start {
			out = append(out, selectedNote{note: n, open: true})
		}
	}
	return out
}

// Export renders the window [t0, t1] as a format 0 MIDI file at 480 PPQN, writes
// it to a fresh temp file and places the path on the clipboard.
//
// The file deliberately carries no tempo meta event: embedding one makes DAWs ask
// about importing the tempo on every paste. The user matches the song tempo at
// paste time instead; pasting at a different tempo stretches the clip
// proportionally, which also means bar-snapped selections stay whole bars.
func (e *Encoder) Export(t0, t1, tempo float64) (string, error) {
	selected := e.selection(t0, t1)
	if len(selected) == 0 {
		return "", fmt.Errorf("%w: [%.3f, %.3f]", ErrEmptySelection, t0, t1)
	}

	pps := ppqn * tempo / 60

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ppqn)
	var track smf.Track

	// Re-issue NoteOns for notes already sounding when the window opens. A closed
	// note whose clipped remainder would round to tick 0 is skipped; zero-length
	// notes upset some DAW importers.
	for _, sel := range selected {
		if sel.note.Start >= t0 {
			continue
		}
		if !sel.open {
			endTick := int64(math.Round((sel.note.End - t0) * pps))
			if endTick <= 0 {
				continue
			}
		}
		if msg, ok := e.store.EventAt(sel.note.OnIndex); ok {
			track.Add(0, msg)
		}
	}

	var runningTick int64
	e.store.EventsBetween(t0, t1, func(_ int, time float64, msg midi.Message) {
		quantized := int64(math.Round((time - t0) * pps))
		delta := quantized - runningTick
		if delta < 0 {
			// Quantization moved time backwards. A delta cannot encode that, so
			// emit zero and keep going; the cause is still undiagnosed.
			e.logger.Error("Delta moving backwards",
				e.logger.Field().Int64("from", runningTick),
				e.logger.Field().Int64("to", quantized))
			delta = 0
		}
		runningTick = quantized
		track.Add(uint32(delta), msg)
	})

	// One tick short of the window end, so an exact-boundary event cannot spill
	// into the next bar.
	endTick := int64(math.Round((t1 - t0) * pps))
	deltaEnd := endTick - runningTick - 1
	if deltaEnd < 0 {
		deltaEnd = 0
	}

	// Close notes that keep sounding past the window. The first close absorbs the
	// padding; the End-of-Track below takes whatever is left, keeping the clip as
	// long as the selection.
	for _, sel := range selected {
		if !sel.open && sel.note.End <= t1 {
			continue
		}
		var msg midi.Message
		if sel.open {
			msg = midi.NoteOff(sel.note.Channel, sel.note.Key)
		} else if m, ok := e.store.EventAt(sel.note.OffIndex); ok {
			msg = m
		}
		if msg == nil {
			continue
		}
		track.Add(uint32(deltaEnd), msg)
		runningTick += deltaEnd
		deltaEnd = 0
	}

	track.Close(uint32(deltaEnd))
	if err := sm.Add(track); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileWrite, err)
	}

	path, err := e.persist(sm)
	if err != nil {
		return "", err
	}
	e.offer(path)
	return path, nil
}

// persist writes the file to a fresh temp location. Only a fully written file
// replaces the previous export; on failure the previous one stays in place.
func (e *Encoder) persist(sm *smf.SMF) (string, error) {
	f, err := os.CreateTemp("", e.pattern)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileWrite, err)
	}
	_, werr := sm.WriteTo(f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: %v", ErrFileWrite, werr)
	}

	if e.path != "" {
		os.Remove(e.path)
	}
	e.path = f.Name()
	e.logger.Info("Saved MIDI file", e.logger.Field().String("path", e.path))
	return e.path, nil
}

// offer hands the path to the clipboard. Failure leaves the file on disk and the
// export successful.
func (e *Encoder) offer(path string) {
	if e.clipboard == nil {
		return
	}
	if err := e.clipboard.OfferFiles(path); err != nil {
		e.logger.Warn("Failed to copy export path to clipboard",
			e.logger.Field().String("path", path),
			e.logger.Field().Error("error", err))
		return
	}
	e.logger.Info("Copied export path to clipboard", e.logger.Field().String("path", path))
}

// Close removes the current export file, if any.
func (e *Encoder) Close() error {
	if e.path == "" {
		return nil
	}
	err := os.Remove(e.path)
	e.path = ""
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
