package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/clubstats/internal/domain"
)

// StatsRepository is the persistence surface the stats engine needs
type StatsRepository interface {
	PlayerExists(ctx context.Context, id int64) (bool, error)
	GameExists(ctx context.Context, id int64) (bool, error)
	GetGame(ctx context.Context, id int64) (*domain.Game, error)

	CreatePlayerStats(ctx context.Context, s *domain.PlayerStats) (*domain.PlayerStats, error)
	GetPlayerStatsByKey(ctx context.Context, playerID, gameID int64) (*domain.PlayerStats, error)
	GetPlayerStatsByID(ctx context.Context, id int64) (*domain.PlayerStats, error)
	UpdatePlayerStats(ctx context.Context, s *domain.PlayerStats) (*domain.PlayerStats, error)
	DeletePlayerStats(ctx context.Context, id int64) error
	ListPlayerStats(ctx context.Context, playerID int64, season string) ([]domain.PlayerStats, error)
	ListPlayerStatsForGame(ctx context.Context, gameID int64) ([]domain.PlayerStats, error)
	PlayerAggregates(ctx context.Context, playerID int64, season string) (*domain.PlayerAggregates, error)

	CreateGameStats(ctx context.Context, s *domain.GameStats) (*domain.GameStats, error)
	GetGameStatsByGame(ctx context.Context, gameID int64) (*domain.GameStats, error)
	GetGameStatsByID(ctx context.Context, id int64) (*domain.GameStats, error)
	UpdateGameStats(ctx context.Context, s *domain.GameStats) (*domain.GameStats, error)
	DeleteGameStats(ctx context.Context, id int64) error
}

// AggregateCache caches computed player aggregates
type AggregateCache interface {
	GetAggregates(ctx context.Context, playerID int64, season string) (*domain.PlayerAggregates, error)
	SetAggregates(ctx context.Context, agg *domain.PlayerAggregates) error
	InvalidateAggregates(ctx context.Context, playerID int64) error
}

// Broadcaster pushes stat updates to live subscribers
type Broadcaster interface {
	BroadcastPlayerStats(s *domain.PlayerStats)
	BroadcastGameStats(s *domain.GameStats)
}

// StatsService implements the stats upsert and aggregate engines
type StatsService struct {
	repo   StatsRepository
	cache  AggregateCache
	hub    Broadcaster
	logger *slog.Logger
}

// NewStatsService creates a new stats service. The cache is optional;
// passing nil disables aggregate caching.
func NewStatsService(repo StatsRepository, cache AggregateCache, logger *slog.Logger) *StatsService {
	return &StatsService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// SetBroadcaster attaches a live-update broadcaster
func (s *StatsService) SetBroadcaster(hub Broadcaster) {
	s.hub = hub
}

// requireParticipants checks that both ends of the natural key exist.
// The two lookups are independent reads; either missing collapses into
// the combined not-found condition.
func (s *StatsService) requireParticipants(ctx context.Context, playerID, gameID int64) error {
	playerOK, err := s.repo.PlayerExists(ctx, playerID)
	if err != nil {
		return fmt.Errorf("checking player existence: %w", err)
	}
	gameOK, err := s.repo.GameExists(ctx, gameID)
	if err != nil {
		return fmt.Errorf("checking game existence: %w", err)
	}
	if !playerOK || !gameOK {
		return domain.ErrPlayerOrGameNotFound
	}
	return nil
}

// CreatePlayerStats records a player's stat line for a game. This path
// always inserts: an existing row for the same (player, game) pair
// surfaces the storage conflict instead of merging.
func (s *StatsService) CreatePlayerStats(ctx context.Context, gameID, playerID int64, patch domain.PlayerStatsPatch) (*domain.PlayerStats, error) {
	playerOK, err := s.repo.PlayerExists(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("checking player existence: %w", err)
	}
	if !playerOK {
		return nil, domain.ErrPlayerNotFound
	}
	gameOK, err := s.repo.GameExists(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("checking game existence: %w", err)
	}
	if !gameOK {
		return nil, domain.ErrGameNotFound
	}

	row := patch.NewRow(playerID, gameID)
	if err := row.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.CreatePlayerStats(ctx, row)
	if err != nil {
		return nil, err
	}

	s.afterPlayerStatsWrite(ctx, created)
	return created, nil
}

// UpsertPlayerStats creates or merges a player's stat line for a game,
// keyed by the natural (player, game) identity. Only explicitly supplied
// fields overwrite; the rest keep their stored values (or zero defaults
// on create). The read-then-write is not atomic: when two upserts race
// on a missing row, one create wins and the other sees the unique
// constraint as a conflict.
func (s *StatsService) UpsertPlayerStats(ctx context.Context, playerID, gameID int64, patch domain.PlayerStatsPatch) (*domain.PlayerStats, error) {
	if err := s.requireParticipants(ctx, playerID, gameID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPlayerStatsByKey(ctx, playerID, gameID)
	if err != nil && !errors.Is(err, domain.ErrStatsNotFound) {
		return nil, err
	}

	var result *domain.PlayerStats
	if existing == nil {
		row := patch.NewRow(playerID, gameID)
		if err := row.Validate(); err != nil {
			return nil, err
		}
		result, err = s.repo.CreatePlayerStats(ctx, row)
		if err != nil {
			return nil, err
		}
	} else {
		patch.Apply(existing)
		if err := existing.Validate(); err != nil {
			return nil, err
		}
		now := time.Now()
		existing.UpdatedAt = &now
		result, err = s.repo.UpdatePlayerStats(ctx, existing)
		if err != nil {
			return nil, err
		}
	}

	s.afterPlayerStatsWrite(ctx, result)
	return result, nil
}

// afterPlayerStatsWrite invalidates cached aggregates and notifies live
// subscribers; neither failure mode is allowed to fail the write
func (s *StatsService) afterPlayerStatsWrite(ctx context.Context, row *domain.PlayerStats) {
	if s.cache != nil {
		if err := s.cache.InvalidateAggregates(ctx, row.PlayerID); err != nil {
			s.logger.Warn("failed to invalidate aggregate cache",
				"player_id", row.PlayerID,
				"error", err,
			)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastPlayerStats(row)
	}
}

// GetPlayerStatsForGame returns one player's stat line for one game
func (s *StatsService) GetPlayerStatsForGame(ctx context.Context, playerID, gameID int64) (*domain.PlayerStats, error) {
	return s.repo.GetPlayerStatsByKey(ctx, playerID, gameID)
}

// ListPlayerStats returns all of a player's stat lines, optionally
// restricted to one season
func (s *StatsService) ListPlayerStats(ctx context.Context, playerID int64, season string) ([]domain.PlayerStats, error) {
	stats, err := s.repo.ListPlayerStats(ctx, playerID, season)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []domain.PlayerStats{}
	}
	return stats, nil
}

// PlayerAggregates computes avg/max/total points over a player's stat
// lines, optionally filtered by season. A player with no matching rows
// gets zeros, not a failure. Results are served cache-aside.
func (s *StatsService) PlayerAggregates(ctx context.Context, playerID int64, season string) (*domain.PlayerAggregates, error) {
	if s.cache != nil {
		cached, err := s.cache.GetAggregates(ctx, playerID, season)
		if err != nil {
			s.logger.Warn("aggregate cache read failed", "player_id", playerID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	agg, err := s.repo.PlayerAggregates(ctx, playerID, season)
	if err != nil {
		return nil, err
	}
	agg.AvgPoints = math.Round(agg.AvgPoints*10) / 10

	if s.cache != nil {
		if err := s.cache.SetAggregates(ctx, agg); err != nil {
			s.logger.Warn("aggregate cache write failed", "player_id", playerID, "error", err)
		}
	}
	return agg, nil
}

// DeletePlayerStatsByID removes a player stat line by its surrogate id
func (s *StatsService) DeletePlayerStatsByID(ctx context.Context, id int64) error {
	row, err := s.repo.GetPlayerStatsByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePlayerStats(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAggregates(ctx, row.PlayerID); err != nil {
			s.logger.Warn("failed to invalidate aggregate cache",
				"player_id", row.PlayerID,
				"error", err,
			)
		}
	}
	return nil
}

// CreateGameStats records a team stat line for a game. Always inserts;
// an existing row for the game surfaces the storage conflict.
func (s *StatsService) CreateGameStats(ctx context.Context, payload domain.GameStatsCreate) (*domain.GameStats, error) {
	gameOK, err := s.repo.GameExists(ctx, payload.GameID)
	if err != nil {
		return nil, fmt.Errorf("checking game existence: %w", err)
	}
	if !gameOK {
		return nil, domain.ErrGameNotFound
	}

	row := payload.ToRow()
	if err := row.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateGameStats(ctx, row)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastGameStats(created)
	}
	return created, nil
}

// UpsertGameStats creates or merges the team stat line for a game, keyed
// by game id. Same merge and race semantics as the player-stats upsert.
func (s *StatsService) UpsertGameStats(ctx context.Context, gameID int64, patch domain.GameStatsPatch) (*domain.GameStats, error) {
	gameOK, err := s.repo.GameExists(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("checking game existence: %w", err)
	}
	if !gameOK {
		return nil, domain.ErrGameNotFound
	}

	existing, err := s.repo.GetGameStatsByGame(ctx, gameID)
	if err != nil && !errors.Is(err, domain.ErrStatsNotFound) {
		return nil, err
	}

	var result *domain.GameStats
	if existing == nil {
		row := patch.NewRow(gameID)
		if err := row.Validate(); err != nil {
			return nil, err
		}
		result, err = s.repo.CreateGameStats(ctx, row)
		if err != nil {
			return nil, err
		}
	} else {
		patch.Apply(existing)
		if err := existing.Validate(); err != nil {
			return nil, err
		}
		now := time.Now()
		existing.UpdatedAt = &now
		result, err = s.repo.UpdateGameStats(ctx, existing)
		if err != nil {
			return nil, err
		}
	}

	if s.hub != nil {
		s.hub.BroadcastGameStats(result)
	}
	return result, nil
}

// GetTeamStatsForGame returns the team stat line for a game. The game
// must exist; the stat line itself may legitimately be absent, which is
// reported as a nil row, not an error.
func (s *StatsService) GetTeamStatsForGame(ctx context.Context, gameID int64) (*domain.GameStats, error) {
	gameOK, err := s.repo.GameExists(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("checking game existence: %w", err)
	}
	if !gameOK {
		return nil, domain.ErrGameNotFound
	}

	stats, err := s.repo.GetGameStatsByGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, domain.ErrStatsNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return stats, nil
}

// GetFullGameStats composes the game, its team stat line (nullable) and
// every player's stat line for it
func (s *StatsService) GetFullGameStats(ctx context.Context, gameID int64) (*domain.FullGameStats, error) {
	game, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	teamStats, err := s.repo.GetGameStatsByGame(ctx, gameID)
	if err != nil && !errors.Is(err, domain.ErrStatsNotFound) {
		return nil, err
	}

	playersStats, err := s.repo.ListPlayerStatsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if playersStats == nil {
		playersStats = []domain.PlayerStats{}
	}

	return &domain.FullGameStats{
		Game:         game,
		TeamStats:    teamStats,
		PlayersStats: playersStats,
	}, nil
}

// DeleteGameStatsByID removes a team stat line by its surrogate id
func (s *StatsService) DeleteGameStatsByID(ctx context.Context, id int64) error {
	return s.repo.DeleteGameStats(ctx, id)
}
