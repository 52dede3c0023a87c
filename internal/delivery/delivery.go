// Package delivery defines the contract every inbound adapter satisfies.
package delivery

import "context"

// Delivery is a long-running inbound adapter, such as an HTTP server or a
// background worker. Serve blocks until the adapter stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
