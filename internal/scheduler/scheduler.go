package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mbodj/wacloud/internal/config"
	"github.com/mbodj/wacloud/internal/service/bot"
)

// Scheduler sends the configured broadcast message on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	svc    bot.Service
	cfg    config.BroadcastConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.BroadcastConfig, svc bot.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the broadcast job and starts the cron loop. A missing
// recipient disables the scheduler entirely.
func (s *Scheduler) Start() {
	if s.cfg.Recipient == "" {
		s.logger.Info("no broadcast recipient configured, scheduler disabled")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendBroadcast); err != nil {
		s.logger.Error("failed to schedule broadcast", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendBroadcast() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	req := bot.OutboundMessageRequest{
		To:      s.cfg.Recipient,
		Message: s.cfg.Message,
	}

	if err := s.svc.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send broadcast", zap.Error(err))
		return
	}
	s.logger.Info("broadcast sent", zap.String("to", s.cfg.Recipient))
}
