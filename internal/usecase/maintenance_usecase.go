package usecase

import "context"

// MaintenanceUsecase defines the periodic credential-field sweep. The
// in-memory revocation registry sweeps itself separately; this only touches
// stored verification/reset token fields.
type MaintenanceUsecase interface {
	// CleanupExpiredTokens clears expired verification/reset token fields
	// from credential records, returning how many were touched.
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
