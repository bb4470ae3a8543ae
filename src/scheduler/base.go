package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScheduledTask runs a job on a cron schedule until cancelled.
// A run still in flight when Cancel is called sees its context cancelled.
type ScheduledTask struct {
	name    string
	cronID  cron.EntryID
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// TaskFunc is one run of a scheduled job.
type TaskFunc func(ctx context.Context) error

func NewScheduledTask(name string, cronSpec string, timeout time.Duration, logger *logrus.Logger, taskFunc TaskFunc) (*ScheduledTask, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(logger)),
		cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
	))
	ctx, cancel := context.WithCancel(context.Background())
	task := &ScheduledTask{
		name:    name,
		cron:    c,
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}

	id, err := c.AddFunc(cronSpec, func() {
		if err := task.Run(logger, taskFunc); err != nil {
			logger.WithFields(logrus.Fields{"task": name, "error": err}).Error("Scheduled task failed")
		}
	})
	if err != nil {
		cancel()
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

// Run executes taskFunc once with the task's timeout, outside the schedule.
func (s *ScheduledTask) Run(logger *logrus.Logger, taskFunc TaskFunc) error {
	if s.ctx.Err() != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := taskFunc(ctx)
	logger.WithFields(logrus.Fields{
		"task":        s.name,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Scheduled task finished")
	return err
}

func (s *ScheduledTask) Name() string {
	return s.name
}

// Next returns the next activation time.
func (s *ScheduledTask) Next() time.Time {
	return s.cron.Entry(s.cronID).Next
}

func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	s.cancel()
	<-s.cron.Stop().Done()
}
