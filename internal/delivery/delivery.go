// Package delivery holds the transports that expose the auth service.
package delivery

import "context"

// Delivery is a long running transport started by the fx application.
type Delivery interface {
	// Serve blocks until the transport stops.
	Serve(ctx context.Context) error
}
