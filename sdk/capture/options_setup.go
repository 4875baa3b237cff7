package capture

import (
	"github.com/leandrodaf/midicap/internal/clipboard"
	"github.com/leandrodaf/midicap/internal/logger"
	"github.com/leandrodaf/midicap/sdk/contracts"
)

const (
	defaultQueueSize     = 16
	defaultExportPattern = "midicap_*.mid"
)

// applyDefaultOptions sets default values for CaptureOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify CaptureOptions.
//
// Returns:
//   - contracts.CaptureOptions: A structure containing the finalized options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.CaptureOptions, error) {
	options := &contracts.CaptureOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger() // Default to the zap-backed logger
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel // Default log level to InfoLevel
	}
	if options.QueueSize <= 0 {
		options.QueueSize = defaultQueueSize
	}
	if options.ExportPattern == "" {
		options.ExportPattern = defaultExportPattern
	}
	if options.Clipboard == nil {
		options.Clipboard = clipboard.New(options.Logger) // Default to the system clipboard
	}

	options.Logger.SetLevel(options.LogLevel) // Set the logger to the specified log level
	return *options, nil
}
