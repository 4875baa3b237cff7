package capture

import (
	"github.com/leandrodaf/midicap/sdk/contracts"
)

// NewRecorder creates a new capture recorder with the specified options.
// It applies default options and starts the delivery loop.
//
// opts ...contracts.Option: A variadic list of option functions to customize the recorder configuration.
//
// Returns:
//   - contracts.Recorder: An instance of the capture recorder.
//   - error: An error, if any occurred during the creation of the recorder.
func NewRecorder(opts ...contracts.Option) (contracts.Recorder, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	return newRecorder(&options), nil
}
