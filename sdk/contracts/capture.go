package contracts

// MIDI represents one raw MIDI channel event with its capture time.
type MIDI struct {
	Time     float64 // Time indicates when the event occurred, in seconds since capture start.
	Command  byte    // Command holds the status byte (message kind plus channel).
	Note     byte    // Note represents the MIDI note number (0-127).
	Velocity byte    // Velocity indicates the strength of the note being played (0-127).
}

// Bytes returns the event as the raw three-byte wire triplet.
func (m MIDI) Bytes() [3]byte {
	return [3]byte{m.Command, m.Note, m.Velocity}
}

// Note is one reconstructed musical note, paired from its NoteOn and NoteOff events.
type Note struct {
	Start    float64 // Start is the NoteOn time in seconds.
	End      float64 // End is the NoteOff time in seconds; zero while the note is still open.
	OnIndex  int     // OnIndex is the event-log index of the opening NoteOn.
	OffIndex int     // OffIndex is the event-log index of the closing NoteOff.
	Channel  uint8   // Channel is the MIDI channel (0-15).
	Key      uint8   // Key is the MIDI note number (0-127).
	Velocity uint8   // Velocity of the opening NoteOn.
}

// Bar marks the wall-clock start of one musical bar.
type Bar struct {
	Number int     // Number is the bar ordinal derived from the transport position.
	Time   float64 // Time is the bar start in seconds.
}

// TransportSnapshot mirrors the host transport state at one instant. The host
// supplies one periodically; only playing snapshots produce bar markers.
type TransportSnapshot struct {
	Time               float64 // Time is the capture clock in seconds.
	Playing            bool    // Playing reports whether the host transport is running.
	SampleRate         float64 // SampleRate of the host audio engine in Hz.
	Tempo              float64 // Tempo in beats per minute.
	TimeSigNumerator   int     // TimeSigNumerator of the current time signature.
	TimeSigDenominator int     // TimeSigDenominator of the current time signature.
	PosSamples         int64   // PosSamples is the transport position in samples.
	PosBeats           float64 // PosBeats is the transport position in quarter-note beats.
	BarStartPosBeats   float64 // BarStartPosBeats is the beat position where the current bar began.
}

// BeatsPerBar returns the bar length in quarter-note beats.
func (t TransportSnapshot) BeatsPerBar() float64 {
	return 4 * float64(t.TimeSigNumerator) / float64(t.TimeSigDenominator)
}

// BeatLength returns the length of one beat in seconds.
func (t TransportSnapshot) BeatLength() float64 {
	return 60 / t.Tempo
}

// BarLength returns the length of one bar in seconds.
func (t TransportSnapshot) BarLength() float64 {
	return t.BeatsPerBar() * t.BeatLength()
}

// Recorder defines the thread-safe surface of one capture session.
type Recorder interface {
	Submit(event MIDI) error                          // Queues one raw event; blocks while the queue is full.
	SubmitTransport(snapshot TransportSnapshot) error // Queues one transport snapshot for bar tracking.

	Notes() []Note                          // Completed notes in close order.
	InFlight() []Note                       // Currently open notes in open order.
	NotesOverlapping(t0, t1 float64) []Note // Completed notes overlapping the window; boundary touches excluded.
	Events() int                            // Number of raw events stored so far.
	KeyRange() (lo, hi uint8, ok bool)      // Widest key bounds ever observed; ok is false before the first note.
	TimeRange() (lo, hi float64, ok bool)   // Widest time bounds ever observed.

	Bars() []Bar                             // All bar markers in observation order.
	BarsDivisibleBy(n int) []Bar             // Bar markers whose number is a multiple of n.
	NearestBar(t float64, n int) (Bar, bool) // Closest such marker to t; earliest wins a tie.

	Export(t0, t1, tempo float64) (string, error) // Renders the window as a MIDI file and returns its path.
	Stop() error                                  // Drains the queue and releases resources; idempotent.
}
