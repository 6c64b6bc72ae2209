package market

import (
	"context"
	"sync"
	"time"

	"github.com/cswatch/catalog/internal/app/system"
	"github.com/cswatch/catalog/pkg/logger"
)

var _ system.Service = (*Ticker)(nil)

// Ticker drives the feed's random walk on a fixed interval as a
// lifecycle-managed service. Nothing else may advance prices while it runs.
type Ticker struct {
	feed     *Feed
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewTicker creates a ticker advancing feed every interval.
func NewTicker(feed *Feed, interval time.Duration, log *logger.Logger) *Ticker {
	if log == nil {
		log = logger.NewDefault("market-ticker")
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Ticker{feed: feed, log: log, interval: interval}
}

func (t *Ticker) Name() string { return "market-ticker" }

func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.running = true
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				t.feed.Tick()
			}
		}
	}()

	t.log.WithField("interval", t.interval).Info("market ticker started")
	return nil
}

func (t *Ticker) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	cancel := t.cancel
	t.running = false
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.wg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	t.log.Info("market ticker stopped")
	return nil
}
