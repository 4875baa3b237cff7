package contracts

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
)

// MIDIEventFilter allows users to specify which MIDI commands to capture.
// Commands are matched on the status nibble, so every channel passes.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to filter.
}

// CaptureOptions defines the configuration options for the capture recorder.
type CaptureOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	MIDIEventFilter *MIDIEventFilter // Optional filter for MIDI events to capture.
	QueueSize       int              // Capacity of the delivery queues feeding the store.
	ExportPattern   string           // Temp-file name pattern for exports, e.g. "midicap_*.mid".
	Clipboard       FileClipboard    // Clipboard that receives exported file paths.
}

// Option is a function that modifies CaptureOptions.
type Option func(*CaptureOptions)

// WithLogger sets the logger for the capture recorder.
func WithLogger(l Logger) Option {
	return func(opts *CaptureOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the capture recorder.
func WithLogLevel(level LogLevel) Option {
	return func(opts *CaptureOptions) {
		opts.LogLevel = level
	}
}

// WithMIDIEventFilter sets the MIDI event filter for the capture recorder.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *CaptureOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithQueueSize sets the capacity of the delivery queues.
func WithQueueSize(size int) Option {
	return func(opts *CaptureOptions) {
		opts.QueueSize = size
	}
}

// WithExportPattern sets the temp-file name pattern for exported MIDI files.
func WithExportPattern(pattern string) Option {
	return func(opts *CaptureOptions) {
		opts.ExportPattern = pattern
	}
}

// WithClipboard sets the clipboard that receives exported file paths.
func WithClipboard(clipboard FileClipboard) Option {
	return func(opts *CaptureOptions) {
		opts.Clipboard = clipboard
	}
}
