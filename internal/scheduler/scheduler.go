package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/gamesbythejuliciouskids/YouTubevideos/internal/config"
)

// Scheduler fires the pipeline on a cron expression in the configured
// timezone. Runs never overlap; a slow run skips the next tick.
type Scheduler struct {
	cron *cron.Cron
	cfg  config.ScheduleConfig
	job  func(ctx context.Context)
}

func New(cfg config.ScheduleConfig, job func(ctx context.Context)) *Scheduler {
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	return &Scheduler{cron: c, cfg: cfg, job: job}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.CronExpression, func() {
		s.job(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[scheduler] Running on %q (%s)", s.cfg.CronExpression, s.cfg.Timezone)

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}
