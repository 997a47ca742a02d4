package port

import (
	"context"
	"time"
)

// SweeperService reclaims storage for sessions that were never verified
type SweeperService interface {
	// SweepExpired claims every session past its window, deletes the orphaned
	// object and finalizes the session. Returns the number of sessions reclaimed.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
