package tasks

import (
	"context"
	"fmt"
)

// newStateCleanupTask creates the task that removes conversation states
// idle for longer than the configured TTL. Flows have no user-facing
// abort, so this is the backstop that frees users stuck mid-conversation.
func newStateCleanupTask(deps Deps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "state_cleanup")

	return func(ctx context.Context) error {
		ttl := deps.Config.Scheduler.StateTTL

		deleted, err := deps.Store.DeleteStaleStates(ctx, ttl)
		if err != nil {
			return fmt.Errorf("state cleanup failed: %w", err)
		}

		if deleted > 0 {
			log.InfoContext(ctx, "Removed stale conversation states", "deleted", deleted, "ttl", ttl)
		}
		return nil
	}
}
