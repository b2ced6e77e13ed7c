package worker

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/clubstats/internal/config"
	"github.com/clubstats/internal/domain"
)

// AggregateSource reads aggregates from persistent storage
type AggregateSource interface {
	PlayerIDsWithStats(ctx context.Context) ([]int64, error)
	PlayerAggregates(ctx context.Context, playerID int64, season string) (*domain.PlayerAggregates, error)
}

// AggregateSink stores computed aggregates
type AggregateSink interface {
	SetAggregates(ctx context.Context, agg *domain.PlayerAggregates) error
}

// Warmer periodically recomputes all-season aggregates for every player
// with recorded stats and pushes them into the cache, so the common
// aggregate reads stay warm between writes
type Warmer struct {
	source  AggregateSource
	sink    AggregateSink
	config  *config.WarmerConfig
	logger  *slog.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewWarmer creates a new cache warmer
func NewWarmer(source AggregateSource, sink AggregateSink, cfg *config.WarmerConfig, logger *slog.Logger) *Warmer {
	return &Warmer{
		source: source,
		sink:   sink,
		config: cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the background warm process
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("aggregate warmer started", "interval", w.config.Interval)

	go w.run(ctx)
	return nil
}

// Stop stops the background warm process
func (w *Warmer) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("aggregate warmer stopped")
	return nil
}

// run is the main worker loop
func (w *Warmer) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.warmAll(ctx)
		}
	}
}

// warmAll recomputes and caches aggregates for every player with stats
func (w *Warmer) warmAll(ctx context.Context) {
	w.logger.Info("starting warm cycle")
	startTime := time.Now()

	playerIDs, err := w.source.PlayerIDsWithStats(ctx)
	if err != nil {
		w.logger.Error("failed to list players for warming", "error", err)
		return
	}

	warmedCount := 0
	errorCount := 0

	for _, playerID := range playerIDs {
		if err := w.warmPlayer(ctx, playerID); err != nil {
			w.logger.Error("failed to warm player aggregates",
				"player_id", playerID,
				"error", err,
			)
			errorCount++
		} else {
			warmedCount++
		}
	}

	duration := time.Since(startTime)
	w.logger.Info("warm cycle completed",
		"duration", duration,
		"warmed", warmedCount,
		"errors", errorCount,
	)
}

// warmPlayer refreshes the all-season aggregate entry for one player
func (w *Warmer) warmPlayer(ctx context.Context, playerID int64) error {
	agg, err := w.source.PlayerAggregates(ctx, playerID, "")
	if err != nil {
		return err
	}
	agg.AvgPoints = math.Round(agg.AvgPoints*10) / 10

	return w.sink.SetAggregates(ctx, agg)
}

// IsRunning returns whether the worker is currently running
func (w *Warmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RunOnce runs a single warm cycle (useful for manual triggers)
func (w *Warmer) RunOnce(ctx context.Context) {
	w.warmAll(ctx)
}
