package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/shared"
	"bookstore-catalog/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	sweepCron string
}

func NewScheduler(redisOpt asynq.RedisClientOpt, sweepCron string) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		sweepCron: sweepCron,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepOrphanMediaJob()
}

// Orphan media sweep, daily at 03:00 UTC by default.
func (s *Scheduler) registerSweepOrphanMediaJob() error {
	payload, err := json.Marshal(shared.SweepOrphanMediaPayload{MinAgeHours: 24})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepOrphanMedia, payload)

	_, err = s.scheduler.Register(
		s.sweepCron,
		task,
		asynq.Queue(shared.QueueMedia),
		asynq.MaxRetry(1),
		asynq.Timeout(15*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepOrphanMedia job", err)
		return err
	}

	logger.Info("✓ Registered SweepOrphanMedia", map[string]interface{}{"cron": s.sweepCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
