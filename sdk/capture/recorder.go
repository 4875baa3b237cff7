package capture

import (
	"errors"
	"sync"

	"github.com/leandrodaf/midicap/internal/store"
	"github.com/leandrodaf/midicap/internal/transfer"
	"github.com/leandrodaf/midicap/sdk/contracts"
)

// ErrStopped is returned by submissions arriving after Stop.
var ErrStopped = errors.New("recorder is stopped")

// recorder implements contracts.Recorder. Submissions land on bounded queues and
// a single delivery goroutine folds them into the store, keeping the submit path
// free of the query lock. When a queue fills, Submit blocks until delivery
// catches up, so bursts are captured late rather than dropped.
type recorder struct {
	logger contracts.Logger
	filter *contracts.MIDIEventFilter

	mu    sync.RWMutex
	store *store.Store
	enc   *transfer.Encoder

	events     chan contracts.MIDI
	transports chan contracts.TransportSnapshot

	done     chan struct{}
	drained  chan struct{}
	stopOnce sync.Once
	closeErr error
}

func newRecorder(options *contracts.CaptureOptions) *recorder {
	st := store.New(options.Logger)
	r := &recorder{
		logger:     options.Logger,
		filter:     options.MIDIEventFilter,
		store:      st,
		enc:        transfer.NewEncoder(st, options.Logger, options.Clipboard, options.ExportPattern),
		events:     make(chan contracts.MIDI, options.QueueSize),
		transports: make(chan contracts.TransportSnapshot, options.QueueSize),
		done:       make(chan struct{}),
		drained:    make(chan struct{}),
	}
	go r.deliver()
	return r
}

// deliver folds queued submissions into the store until Stop, then drains
// whatever was already accepted so no queued event is lost.
func (r *recorder) deliver() {
	defer close(r.drained)
	for {
		select {
		case event := <-r.events:
			r.ingest(event)
		case snapshot := <-r.transports:
			r.ingestTransport(snapshot)
		case <-r.done:
			for {
				select {
				case event := <-r.events:
					r.ingest(event)
				case snapshot := <-r.transports:
					r.ingestTransport(snapshot)
				default:
					return
				}
			}
		}
	}
}

func (r *recorder) ingest(event contracts.MIDI) {
	r.mu.Lock()
	err := r.store.Append(event.Time, event.Bytes())
	r.mu.Unlock()
	if err != nil {
		r.logger.Warn("Discarding rejected MIDI event",
			r.logger.Field().Float64("time", event.Time),
			r.logger.Field().Uint8("command", event.Command),
			r.logger.Field().Error("error", err))
	}
}

func (r *recorder) ingestTransport(snapshot contracts.TransportSnapshot) {
	r.mu.Lock()
	r.store.ObserveTransport(snapshot)
	r.mu.Unlock()
}

// Submit queues one raw event for capture. Events rejected by the configured
// filter are silently ignored.
func (r *recorder) Submit(event contracts.MIDI) error {
	if !r.commandAllowed(event.Command) {
		return nil
	}
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	select {
	case r.events <- event:
		return nil
	case <-r.done:
		return ErrStopped
	}
}

// SubmitTransport queues one transport snapshot for bar tracking.
func (r *recorder) SubmitTransport(snapshot contracts.TransportSnapshot) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	select {
	case r.transports <- snapshot:
		return nil
	case <-r.done:
		return ErrStopped
	}
}

// commandAllowed reports whether the status byte passes the configured filter.
// Only the command nibble is compared, so a filter entry matches every channel.
func (r *recorder) commandAllowed(command byte) bool {
	if r.filter == nil {
		return true
	}
	for _, c := range r.filter.Commands {
		if command&0xF0 == byte(c) {
			return true
		}
	}
	return false
}

// Notes returns the completed notes in close order.
func (r *recorder) Notes() []contracts.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Notes()
}

// InFlight returns the currently open notes in open order.
func (r *recorder) InFlight() []contracts.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.InFlight()
}

// NotesOverlapping returns the completed notes overlapping (t0, t1).
func (r *recorder) NotesOverlapping(t0, t1 float64) []contracts.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.NotesOverlapping(t0, t1)
}

// Events returns the number of raw events stored so far.
func (r *recorder) Events() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Len()
}

// KeyRange returns the widest key bounds observed so far.
func (r *recorder) KeyRange() (uint8, uint8, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.KeyRange()
}

// TimeRange returns the widest note time bounds observed so far.
func (r *recorder) TimeRange() (float64, float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.TimeRange()
}

// Bars returns all bar markers seen so far.
func (r *recorder) Bars() []contracts.Bar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Bars()
}

// BarsDivisibleBy returns the bar markers whose number is a multiple of n.
func (r *recorder) BarsDivisibleBy(n int) []contracts.Bar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.BarsDivisibleBy(n)
}

// NearestBar returns the bar marker divisible by n closest to t.
func (r *recorder) NearestBar(t float64, n int) (contracts.Bar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.NearestBar(t, n)
}

// Export renders the window [t0, t1] as a MIDI file and returns its path. A
// non-positive tempo falls back to the latest transport tempo, or 120 when no
// snapshot has arrived. The write lock is held for the whole render so the
// walked event log cannot move underneath it.
func (r *recorder) Export(t0, t1, tempo float64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tempo <= 0 {
		tempo = 120
		if snapshot, ok := r.store.Transport(); ok && snapshot.Tempo > 0 {
			tempo = snapshot.Tempo
		}
	}
	return r.enc.Export(t0, t1, tempo)
}

// Stop ends delivery, waits for already queued submissions to land and removes
// the export file. Safe to call more than once.
func (r *recorder) Stop() error {
	r.stopOnce.Do(func() {
		r.logger.Info("Stopping recorder")
		close(r.done)
		<-r.drained
		r.mu.Lock()
		r.closeErr = r.enc.Close()
		r.mu.Unlock()
	})
	return r.closeErr
}
