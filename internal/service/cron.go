package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type CronConfig struct {
	Location *time.Location
	TickSpec string
	PollSpec string
	Timeout  time.Duration
}

// StartCron schedules the lock tick and, when PollSpec is set, the poller.
// Stop the returned cron on shutdown.
func StartCron(cfg CronConfig, svc *SchedulingService, poller *Poller, log *zap.Logger) (*cron.Cron, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := cron.New(cron.WithLocation(cfg.Location))

	if _, err := c.AddFunc(cfg.TickSpec, func() { svc.Tick() }); err != nil {
		return nil, err
	}

	if cfg.PollSpec != "" && poller != nil {
		_, err := c.AddFunc(cfg.PollSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
			defer cancel()
			if _, err := poller.Poll(ctx); err != nil {
				log.Error("poll failed", zap.Error(err))
			}
		})
		if err != nil {
			return nil, err
		}
	}

	c.Start()
	log.Info("background jobs started", zap.String("tick", cfg.TickSpec), zap.String("poll", cfg.PollSpec))
	return c, nil
}
