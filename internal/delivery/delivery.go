// Package delivery defines the contract shared by every serving surface.
package delivery

import "context"

// Delivery is a long-running server collected under the "deliveries" fx group
// and started by the cmd entrypoints.
type Delivery interface {
	Serve(ctx context.Context) error
}
