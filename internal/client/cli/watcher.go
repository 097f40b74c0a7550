package cli

import (
	"context"
	"time"
)

// StartLockWatcher asks the manager to re-evaluate the lock every interval
// so an expired lock is lifted without user action.
func (a *App) StartLockWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.svc.RefreshLock(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// WatchState reports lock transitions published by the manager until ctx
// is done.
func (a *App) WatchState(ctx context.Context) {
	ch, cancel := a.svc.Subscribe()
	defer cancel()

	var locked, seen bool
	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			if st.IsLoading {
				continue
			}
			if !seen {
				locked, seen = st.IsLocked, true
				continue
			}
			if st.IsLocked == locked {
				continue
			}
			locked = st.IsLocked
			if locked {
				a.log.Warn(ctx, "account locked", "failed_attempts", st.FailedAttempts)
			} else {
				a.println("\nAccount unlocked. You can log in again.")
				a.log.Info(ctx, "account unlocked")
			}
		case <-ctx.Done():
			return
		}
	}
}
