package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"fieldclock_backend/internals/features/sessions/model"
)

// SweepStore is the slice of the lifecycle the sweeper needs.
// *LifecycleService satisfies it.
type SweepStore interface {
	ListActiveBefore(ctx context.Context, cutoff time.Time) ([]model.ClockSessionModel, error)
	AutoClockOut(ctx context.Context, sessionID uuid.UUID, reason string) (*model.ClockSessionModel, bool, error)
}

type SweepFailure struct {
	SessionID uuid.UUID `json:"session_id"`
	Error     string    `json:"error"`
}

type SweepResult struct {
	Scanned int            `json:"scanned"`
	Closed  int            `json:"closed"`
	Failed  []SweepFailure `json:"failed"`
	DryRun  bool           `json:"dry_run,omitempty"`
}

// SweepTimeouts auto-closes every active session older than the timeout with
// reason timeout. One session failing never aborts the sweep; failures are
// collected per session and the batch always completes. Zero eligible
// sessions is a successful sweep with count 0.
//
// With dryRun set, eligible sessions are only counted.
func SweepTimeouts(ctx context.Context, store SweepStore, now time.Time, timeout time.Duration, dryRun bool) (SweepResult, error) {
	result := SweepResult{Failed: []SweepFailure{}, DryRun: dryRun}

	cutoff := now.Add(-timeout)
	sessions, err := store.ListActiveBefore(ctx, cutoff)
	if err != nil {
		return result, err
	}
	result.Scanned = len(sessions)

	if dryRun {
		return result, nil
	}

	for _, session := range sessions {
		_, changed, err := store.AutoClockOut(ctx, session.ID, model.ReasonTimeout)
		if err != nil {
			result.Failed = append(result.Failed, SweepFailure{
				SessionID: session.ID,
				Error:     err.Error(),
			})
			log.Printf("[SWEEP] failed to auto clock out session %s: %v", session.ID, err)
			continue
		}
		if changed {
			result.Closed++
		}
		// changed=false means a manual clock-out won the race; nothing to do.
	}
	return result, nil
}
