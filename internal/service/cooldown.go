package service

import (
	"time"

	"github.com/deskatlas/seat-allocation/internal/model"
)

// cooldownRemaining computes how long until another export of the same type
// is allowed.  A nil last export, or a non-positive cooldown, means the
// export may proceed immediately.
func cooldownRemaining(last *model.ExportLog, cooldown time.Duration, now time.Time) time.Duration {
	if last == nil || cooldown <= 0 {
		return 0
	}
	elapsed := now.Sub(last.ExportedAt)
	if elapsed >= cooldown {
		return 0
	}
	return cooldown - elapsed
}
