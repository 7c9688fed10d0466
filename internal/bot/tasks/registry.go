package tasks

import "context"

// ScheduledTaskFunc is the signature for all scheduled tasks. The context
// comes from the scheduler and must be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the map of registered tasks. Map keys match the
// task names used in the scheduler configuration.
func RegisterAllTasks(deps Deps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"state_cleanup":   newStateCleanupTask(deps),
		"sql_maintenance": newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
