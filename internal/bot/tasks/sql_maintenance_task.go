package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask creates the task that runs database maintenance
// (VACUUM/ANALYZE).
func newSQLMaintenanceTask(deps Deps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		start := time.Now()

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "SQL maintenance completed", "duration", time.Since(start))
		return nil
	}
}
