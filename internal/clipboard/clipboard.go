package clipboard

import (
	"fmt"
	"strings"

	sysclip "github.com/atotto/clipboard"

	"github.com/leandrodaf/midicap/sdk/contracts"
)

// Client places file paths on the system clipboard as newline-joined text, the
// form file managers and DAWs accept when pasting paths.
type Client struct {
	logger contracts.Logger
}

// New returns a system clipboard client.
func New(log contracts.Logger) *Client {
	return &Client{logger: log}
}

// OfferFiles writes the given paths to the system clipboard. Offering nothing is
// a no-op.
func (c *Client) OfferFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := sysclip.WriteAll(strings.Join(paths, "\n")); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	c.logger.Debug("Clipboard updated", c.logger.Field().Int("paths", len(paths)))
	return nil
}
