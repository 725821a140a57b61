package stats

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"countries/internal/platform/logger"
)

// DefaultPollInterval matches the statistics page auto-refresh.
const DefaultPollInterval = 30 * time.Second

// Poller refreshes a Dashboard on a fixed interval until stopped. Failed
// refreshes are logged and the schedule continues.
type Poller struct {
	mu        sync.Mutex
	dashboard *Dashboard
	interval  time.Duration
	scheduler *gocron.Scheduler
	cancel    context.CancelFunc
	logger    *slog.Logger
}

type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithPollerLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = l
	}
}

func NewPoller(d *Dashboard, opts ...PollerOption) *Poller {
	p := &Poller{
		dashboard: d,
		interval:  DefaultPollInterval,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start schedules the first refresh one interval from now.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scheduler != nil {
		return errors.New("poller already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	_, err := s.Every(p.interval).WaitForSchedule().Do(func() {
		if err := p.dashboard.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.WarnContext(ctx, "statistics poll failed", "error", err)
		}
	})
	if err != nil {
		cancel()
		return err
	}
	s.StartAsync()
	p.scheduler, p.cancel = s, cancel
	p.logger.InfoContext(ctx, "statistics poller started", "interval", p.interval.String())
	return nil
}

// Stop cancels any in-flight refresh and halts the schedule.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scheduler == nil {
		return
	}
	p.cancel()
	p.scheduler.Stop()
	p.scheduler, p.cancel = nil, nil
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scheduler != nil && p.scheduler.IsRunning()
}
