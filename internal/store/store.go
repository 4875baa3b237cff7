package store

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/leandrodaf/midicap/sdk/contracts"
)

// Error definitions for event ingestion.
var (
	ErrOrderViolation = errors.New("event time precedes the latest stored event")
	ErrParse          = errors.New("not a MIDI channel message")
)

// entry is one raw event as stored: capture time, channel, and the canonical
// message bytes (two bytes for program change and channel pressure, three
// otherwise).
type entry struct {
	time    float64
	channel uint8
	msg     midi.Message
}

// Store is the unsynchronized capture aggregate: an append-only event log, the
// note assembler with its in-flight set, the widening key/time range caches and
// the transport-derived bar list. It performs no internal locking; concurrent
// callers must wrap it in a single reader/writer lock.
type Store struct {
	logger contracts.Logger

	log      []entry
	notes    []contracts.Note
	inFlight []contracts.Note

	keyLo, keyHi   uint8
	hasKeyRange    bool
	timeLo, timeHi float64
	hasTimeRange   bool

	bars         []contracts.Bar
	transport    contracts.TransportSnapshot
	hasTransport bool
	lastBarBeats float64
	hasLastBar   bool
}

// New creates an empty Store. Capacities cover a long live take so the hot path
// rarely reallocates.
func New(log contracts.Logger) *Store {
	return &Store{
		logger:   log,
		log:      make([]entry, 0, 60000),
		notes:    make([]contracts.Note, 0, 10000),
		inFlight: make([]contracts.Note, 0, 128*16),
	}
}

// Append records one raw MIDI channel message at the given capture time. Times
// must be non-decreasing; an event earlier than the latest stored one is rejected
// with ErrOrderViolation and the store is left untouched. Bytes that do not form
// a channel voice message are rejected with ErrParse.
func (s *Store) Append(time float64, data [3]byte) error {
	if n := len(s.log); n > 0 && time < s.log[n-1].time {
		return fmt.Errorf("%w: %.6f is before %.6f", ErrOrderViolation, time, s.log[n-1].time)
	}
	channel, msg, err := decodeChannelMessage(data)
	if err != nil {
		return err
	}

	s.log = append(s.log, entry{time: time, channel: channel, msg: msg})
	idx := len(s.log) - 1

	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		s.noteOn(time, idx, ch, key, vel)
	case msg.GetNoteEnd(&ch, &key):
		// Covers NoteOff and, per the MIDI 1.0 spec, NoteOn with velocity 0.
		s.noteOff(time, idx, ch, key)
	}
	return nil
}

// decodeChannelMessage validates the raw triplet and returns the channel plus
// the canonical gomidi message.
func decodeChannelMessage(data [3]byte) (uint8, midi.Message, error) {
	status := data[0]
	if status < 0x80 || status >= 0xF0 {
		return 0, nil, fmt.Errorf("%w: status 0x%02X", ErrParse, status)
	}
	n := 3
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		n = 2
	}
	for _, b := range data[1:n] {
		if b > 0x7F {
			return 0, nil, fmt.Errorf("%w: data byte 0x%02X", ErrParse, b)
		}
	}
	msg := midi.Message(append([]byte(nil), data[:n]...))
	var channel uint8
	if !msg.GetChannel(&channel) {
		return 0, nil, fmt.Errorf("%w: %s", ErrParse, msg.String())
	}
	return channel, msg, nil
}

func (s *Store) noteOn(time float64, idx int, channel, key, velocity uint8) {
	note := contracts.Note{
		Start:    time,
		OnIndex:  idx,
		Channel:  channel,
		Key:      key,
		Velocity: velocity,
	}
	for i := range s.inFlight {
		if s.inFlight[i].Key == key && s.inFlight[i].Channel == channel {
			// Retrigger without a NoteOff: the newer start replaces the old in place.
			s.inFlight[i] = note
			return
		}
	}
	s.observe(key, time)
	s.inFlight = append(s.inFlight, note)
}

func (s *Store) noteOff(time float64, idx int, channel, key uint8) {
	for i := range s.inFlight {
		if s.inFlight[i].Key != key || s.inFlight[i].Channel != channel {
			continue
		}
		note := s.inFlight[i]
		s.inFlight = append(s.inFlight[:i], s.inFlight[i+1:]...)
		note.End = time
		note.OffIndex = idx
		s.logger.Info("New note",
			s.logger.Field().Uint8("key", note.Key),
			s.logger.Field().Uint8("channel", note.Channel),
			s.logger.Field().Float64("length", note.End-note.Start),
			s.logger.Field().Float64("start", note.Start))
		s.observe(note.Key, note.End)
		s.notes = append(s.notes, note)
		return
	}
	s.logger.Info("Note Off without Note On", s.logger.Field().Float64("time", time))
}

// observe widens the key and time bounds. Both the open and the close transition
// feed it, and nothing ever narrows the bounds again.
func (s *Store) observe(key uint8, time float64) {
	if !s.hasKeyRange {
		s.keyLo, s.keyHi = key, key
		s.hasKeyRange = true
	} else if key < s.keyLo {
		s.keyLo = key
	} else if key > s.keyHi {
		s.keyHi = key
	}

	if !s.hasTimeRange {
		s.timeLo, s.timeHi = time, time
		s.hasTimeRange = true
	} else if time < s.timeLo {
		s.timeLo = time
	} else if time > s.timeHi {
		s.timeHi = time
	}
}

// KeyRange returns the lowest and highest key ever observed. ok is false until
// the first note has started.
func (s *Store) KeyRange() (lo, hi uint8, ok bool) {
	return s.keyLo, s.keyHi, s.hasKeyRange
}

// TimeRange returns the earliest and latest note boundary ever observed. ok is
// false until the first note has started.
func (s *Store) TimeRange() (lo, hi float64, ok bool) {
	return s.timeLo, s.timeHi, s.hasTimeRange
}

// Len returns the number of stored raw events.
func (s *Store) Len() int {
	return len(s.log)
}

// Notes returns the completed notes in close order. The slice is a copy.
func (s *Store) Notes() []contracts.Note {
	return append([]contracts.Note(nil), s.notes...)
}

// InFlight returns the currently open notes in open order. The slice is a copy.
func (s *Store) InFlight() []contracts.Note {
	return append([]contracts.Note(nil), s.inFlight...)
}

// NotesOverlapping returns the completed notes overlapping the window (t0, t1).
// A note touching the window only at a boundary does not overlap.
func (s *Store) NotesOverlapping(t0, t1 float64) []contracts.Note {
	var out []contracts.Note
	for _, n := range s.notes {
		if t0 < n.End && t1 > n.Start {
			out = append(out, n)
		}
	}
	return out
}

// EventsBetween calls fn for every stored event with t0 <= time <= t1, in log
// order.
func (s *Store) EventsBetween(t0, t1 float64, fn func(idx int, time float64, msg midi.Message)) {
	for i := range s.log {
		if e := &s.log[i]; e.time >= t0 && e.time <= t1 {
			fn(i, e.time, e.msg)
		}
	}
}

// EventAt returns the raw message at a log index, for re-issuing boundary notes.
func (s *Store) EventAt(idx int) (midi.Message, bool) {
	if idx < 0 || idx >= len(s.log) {
		return nil, false
	}
	return s.log[idx].msg, true
}
