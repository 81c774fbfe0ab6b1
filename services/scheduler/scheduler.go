// Package scheduler runs the periodic jobs of the API server.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/mentori/core"
)

const jobTimeout = 4 * time.Minute

var jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mentori",
	Name:      "scheduler_job_runs_total",
	Help:      "Scheduled job runs, by job and outcome.",
}, []string{"job", "outcome"})

func init() {
	prometheus.MustRegister(jobRuns)
}

type (
	dueReminder interface {
		RemindDue(ctx context.Context, day core.Date) (int, error)
	}

	tokenPurger interface {
		PurgeExpiredTokens(ctx context.Context) (int64, error)
	}
)

type Scheduler struct {
	cron        *cron.Cron
	assignments dueReminder
	users       tokenPurger
	logger      core.Logger
	loc         *time.Location
}

func New(conf *core.Config, assignments dueReminder, users tokenPurger, logger core.Logger) (*Scheduler, error) {
	s := &Scheduler{
		assignments: assignments,
		users:       users,
		logger:      logger,
		loc:         conf.Location(),
	}

	cl := cronLogger{logger}
	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{name: "due_reminders", spec: conf.Scheduler.DueReminderSpec, run: s.RemindDue},
		{name: "token_cleanup", spec: conf.Scheduler.TokenCleanupSpec, run: s.PurgeTokens},
	}
	for _, job := range jobs {
		job := job
		if job.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(job.name, job.run) }); err != nil {
			return nil, errors.Wrapf(err, "scheduling %s (%q)", job.name, job.spec)
		}
	}
	return s, nil
}

func (s *Scheduler) runJob(name string, run func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := run(ctx); err != nil {
		jobRuns.WithLabelValues(name, "error").Inc()
		s.logger.Error("scheduler: "+name+" failed", err)
		return
	}
	jobRuns.WithLabelValues(name, "ok").Inc()
}

// Jobs is the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits for the running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RemindDue notifies mentees about their unfinished assignments ending tomorrow.
func (s *Scheduler) RemindDue(ctx context.Context) error {
	tomorrow := core.Today(s.loc).AddDays(1)
	n, err := s.assignments.RemindDue(ctx, tomorrow)
	if err != nil {
		return errors.Wrap(err, "assignments.RemindDue")
	}
	s.logger.Info("scheduler: due reminders sent", map[string]interface{}{"day": tomorrow.String(), "count": n})
	return nil
}

// PurgeTokens deletes revoked tokens which have expired anyway.
func (s *Scheduler) PurgeTokens(ctx context.Context) error {
	n, err := s.users.PurgeExpiredTokens(ctx)
	if err != nil {
		return errors.Wrap(err, "users.PurgeExpiredTokens")
	}
	if n > 0 {
		s.logger.Debug("scheduler: expired tokens purged", map[string]interface{}{"count": n})
	}
	return nil
}

// cronLogger adapts core.Logger to cron.Logger.
type cronLogger struct {
	logger core.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, kvMap(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, err, kvMap(keysAndValues))
}

func kvMap(kv []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}
