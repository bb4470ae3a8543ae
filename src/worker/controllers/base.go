package controllers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"finboard/src/scheduler"
	"finboard/src/utils"

	"github.com/sirupsen/logrus"
)

// Refresher rebuilds a cached aggregate from its upstream sources.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Job binds a Refresher to the cron spec it runs on.
type Job struct {
	Name      string
	CronSpec  string
	Timeout   time.Duration
	Refresher Refresher
}

type JobStatus struct {
	Name     string    `json:"name"`
	CronSpec string    `json:"cron_spec"`
	NextRun  time.Time `json:"next_run"`
}

type Controller struct {
	Jobs           map[string]Job
	SchedulerMutex sync.Mutex
	Schedulers     map[string]*scheduler.ScheduledTask
	logger         *logrus.Logger
}

func NewController(logger *logrus.Logger, jobs ...Job) *Controller {
	c := &Controller{
		Jobs:       make(map[string]Job, len(jobs)),
		Schedulers: map[string]*scheduler.ScheduledTask{},
		logger:     logger,
	}
	for _, job := range jobs {
		c.Jobs[job.Name] = job
	}
	return c
}

// ScheduleAll (re)registers every job. Existing schedules are replaced.
func (c *Controller) ScheduleAll() error {
	for name := range c.Jobs {
		if err := c.Schedule(name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) Schedule(name string) error {
	job, ok := c.Jobs[name]
	if !ok {
		return utils.NotFound(fmt.Sprintf("job %s not found", name))
	}

	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	if existing, ok := c.Schedulers[name]; ok {
		existing.Cancel()
		delete(c.Schedulers, name)
	}

	task, err := scheduler.NewScheduledTask(job.Name, job.CronSpec, job.Timeout, c.logger, job.Refresher.Refresh)
	if err != nil {
		return utils.BadRequest(fmt.Sprintf("invalid cron spec for %s: %v", name, err))
	}
	c.Schedulers[name] = task
	c.logger.WithFields(logrus.Fields{"job": name, "cron": job.CronSpec}).Info("Job scheduled")
	return nil
}

// RunNow refreshes a job immediately, outside its schedule.
func (c *Controller) RunNow(ctx context.Context, name string) error {
	job, ok := c.Jobs[name]
	if !ok {
		return utils.NotFound(fmt.Sprintf("job %s not found", name))
	}
	if err := job.Refresher.Refresh(ctx); err != nil {
		return utils.BadGateway(fmt.Sprintf("refresh %s failed: %v", name, err))
	}
	return nil
}

// RunAll refreshes every job and reports the first failure after trying them all.
func (c *Controller) RunAll(ctx context.Context) error {
	var firstErr error
	for _, name := range c.jobNames() {
		if err := c.RunNow(ctx, name); err != nil {
			c.logger.WithFields(logrus.Fields{"job": name, "error": err}).Warn("Refresh failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (c *Controller) Status() []JobStatus {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	statuses := make([]JobStatus, 0, len(c.Jobs))
	for _, name := range c.jobNames() {
		status := JobStatus{Name: name, CronSpec: c.Jobs[name].CronSpec}
		if task, ok := c.Schedulers[name]; ok {
			status.NextRun = task.Next()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Stop cancels every schedule.
func (c *Controller) Stop() {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	for name, task := range c.Schedulers {
		task.Cancel()
		delete(c.Schedulers, name)
	}
}

func (c *Controller) jobNames() []string {
	names := make([]string, 0, len(c.Jobs))
	for name := range c.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
