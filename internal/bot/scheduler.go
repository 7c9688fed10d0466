package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/avrlko/filestorebot/internal/bot/tasks"
	"github.com/avrlko/filestorebot/internal/config"
)

// Scheduler manages background tasks using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler for the registered task map.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start schedules all enabled tasks and starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduled := 0
	if s.cfg != nil {
		for taskName, taskCfg := range s.cfg.Tasks {
			if !taskCfg.Enabled {
				s.logger.Info("Skipping disabled task", "task_name", taskName)
				continue
			}

			taskFunc, exists := s.taskMap[taskName]
			if !exists {
				s.logger.Warn("Scheduled task configured but not registered, skipping", "task_name", taskName)
				continue
			}
			if taskCfg.Schedule == "" {
				s.logger.Warn("Scheduled task enabled but has empty schedule, skipping", "task_name", taskName)
				continue
			}

			_, err := s.scheduler.NewJob(
				gocron.CronJob(taskCfg.Schedule, true),
				gocron.NewTask(
					func(ctx context.Context, name string) {
						s.logger.Info("Running scheduled task", "task_name", name)
						start := time.Now()
						if taskErr := taskFunc(ctx); taskErr != nil {
							s.logger.Error("Scheduled task failed", "task_name", name, "error", taskErr)
						}
						s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(start))
					},
					context.Background(),
					taskName,
				),
				gocron.WithName(taskName),
			)
			if err != nil {
				s.logger.Error("Failed to schedule task", "task_name", taskName, "schedule", taskCfg.Schedule, "error", err)
				continue
			}

			s.logger.Info("Scheduled task", "task_name", taskName, "schedule", taskCfg.Schedule)
			scheduled++
		}
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduled)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	s.running = false
	if err != nil {
		return fmt.Errorf("scheduler shutdown failed: %w", err)
	}
	return nil
}
