package service

import (
	"context"
	"time"
)

// RevocationStore records tokens invalidated before their natural expiry.
// Every verification consults it before honoring a token.
//
// The default implementation is an in-process map, which means revocations do
// not survive a restart and do not replicate across instances; a
// multi-instance deployment must inject an implementation backed by a shared
// store. The interface exists so call sites don't change when that happens.
type RevocationStore interface {
	// Revoke records a token as revoked until expiresAt, after which the
	// entry may be garbage-collected (natural expiry already rejects it).
	// Revoking an already-revoked token is a no-op.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error

	// IsRevoked reports whether the token has been revoked. O(1).
	IsRevoked(ctx context.Context, token string) bool

	// SweepExpired drops entries whose recorded expiry has passed, returning
	// how many were removed. Safe to call on any schedule or not at all.
	SweepExpired(ctx context.Context) int
}
