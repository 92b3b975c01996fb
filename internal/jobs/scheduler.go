package jobs

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs jobs in process on their cron specs.
type Scheduler struct {
	cron *cron.Cron
	log  logrus.FieldLogger
}

// NewScheduler registers every job on its cron schedule.
func NewScheduler(specs map[string]Spec, client *Client, log logrus.FieldLogger) (*Scheduler, error) {
	clog := cronLogger{kvLogger{log: log}}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)

	for _, name := range Names(specs) {
		spec := specs[name]
		_, err := c.AddFunc(spec.Schedule, func() {
			if err := Run(context.Background(), spec, client); err != nil {
				log.WithError(err).WithField("job", spec.Name).Error("job could not start")
			}
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scheduling %s with %q", name, spec.Schedule)
		}
		log.WithFields(logrus.Fields{"job": name, "schedule": spec.Schedule}).Info("job scheduled")
	}
	return &Scheduler{cron: c, log: log}, nil
}

// Entries returns how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Run starts the scheduler and blocks until ctx is done, then waits for running jobs.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	s.log.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}
