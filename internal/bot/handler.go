// Package bot provides the handler interface and dispatch registry for
// chat modules. Each module implements the Handler interface to process
// user messages.
package bot

import (
	"context"
)

// Handler defines the interface that all chat modules must implement.
// This provides a consistent API for webhook routing and message handling.
type Handler interface {
	// Name returns the module's stable identifier, used for logging,
	// metrics and registry lookups.
	Name() string

	// CanHandle checks if this handler can process the given text message.
	// Returns true if the handler recognizes keywords or patterns in the text.
	CanHandle(text string) bool

	// HandleMessage processes a text message and returns reply texts.
	// The context should be used for cancellation and timeout management.
	// An empty slice means the handler matched but has nothing to say.
	HandleMessage(ctx context.Context, text string) []string
}
