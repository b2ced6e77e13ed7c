package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstats/internal/config"
	"github.com/clubstats/internal/domain"
)

type fakeSource struct {
	playerIDs  []int64
	aggregates map[int64]*domain.PlayerAggregates
	failFor    int64
}

func (f *fakeSource) PlayerIDsWithStats(context.Context) ([]int64, error) {
	return f.playerIDs, nil
}

func (f *fakeSource) PlayerAggregates(_ context.Context, playerID int64, _ string) (*domain.PlayerAggregates, error) {
	if playerID == f.failFor {
		return nil, errors.New("storage unavailable")
	}
	agg, ok := f.aggregates[playerID]
	if !ok {
		return &domain.PlayerAggregates{PlayerID: playerID}, nil
	}
	copied := *agg
	return &copied, nil
}

type fakeSink struct {
	stored map[int64]*domain.PlayerAggregates
}

func (f *fakeSink) SetAggregates(_ context.Context, agg *domain.PlayerAggregates) error {
	if f.stored == nil {
		f.stored = make(map[int64]*domain.PlayerAggregates)
	}
	copied := *agg
	f.stored[agg.PlayerID] = &copied
	return nil
}

func warmerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestWarmerRunOnce(t *testing.T) {
	source := &fakeSource{
		playerIDs: []int64{1, 2},
		aggregates: map[int64]*domain.PlayerAggregates{
			1: {PlayerID: 1, AvgPoints: 11.333333, MaxPoints: 13, TotalPoints: 34},
			2: {PlayerID: 2, AvgPoints: 20, MaxPoints: 25, TotalPoints: 40},
		},
	}
	sink := &fakeSink{}
	w := NewWarmer(source, sink, &config.WarmerConfig{Enabled: true, Interval: time.Minute}, warmerLogger())

	w.RunOnce(context.Background())

	require.Len(t, sink.stored, 2)
	// Averages land in the cache already rounded
	assert.Equal(t, 11.3, sink.stored[1].AvgPoints)
	assert.Equal(t, 34, sink.stored[1].TotalPoints)
	assert.Equal(t, 20.0, sink.stored[2].AvgPoints)
}

func TestWarmerSkipsFailingPlayer(t *testing.T) {
	source := &fakeSource{
		playerIDs: []int64{1, 2},
		aggregates: map[int64]*domain.PlayerAggregates{
			2: {PlayerID: 2, AvgPoints: 20, MaxPoints: 25, TotalPoints: 40},
		},
		failFor: 1,
	}
	sink := &fakeSink{}
	w := NewWarmer(source, sink, &config.WarmerConfig{Enabled: true, Interval: time.Minute}, warmerLogger())

	w.RunOnce(context.Background())

	// One failure does not stop the cycle
	require.Len(t, sink.stored, 1)
	assert.Contains(t, sink.stored, int64(2))
}

func TestWarmerStartStop(t *testing.T) {
	source := &fakeSource{}
	sink := &fakeSink{}
	w := NewWarmer(source, sink, &config.WarmerConfig{Enabled: true, Interval: time.Hour}, warmerLogger())

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsRunning())
	// Second start is a no-op
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
}
