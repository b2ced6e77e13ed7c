package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clubstats/internal/config"
	"github.com/clubstats/internal/domain"
)

// GameRepository is the persistence surface for game records
type GameRepository interface {
	CreateGame(ctx context.Context, game *domain.Game) (*domain.Game, error)
	GetGame(ctx context.Context, id int64) (*domain.Game, error)
	ListGames(ctx context.Context, opts domain.GameListOptions) ([]domain.Game, error)
	UpdateGame(ctx context.Context, game *domain.Game) (*domain.Game, error)
	DeleteGame(ctx context.Context, id int64) error
}

// GameService provides game record management
type GameService struct {
	repo    GameRepository
	listing *config.ListingConfig
	logger  *slog.Logger
}

// NewGameService creates a new game service
func NewGameService(repo GameRepository, listing *config.ListingConfig, logger *slog.Logger) *GameService {
	return &GameService{
		repo:    repo,
		listing: listing,
		logger:  logger,
	}
}

// Create validates and persists a new game
func (s *GameService) Create(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateGame(ctx, game)
}

// Get returns a game by id
func (s *GameService) Get(ctx context.Context, id int64) (*domain.Game, error) {
	return s.repo.GetGame(ctx, id)
}

// List returns games matching the options
func (s *GameService) List(ctx context.Context, opts domain.GameListOptions) ([]domain.Game, error) {
	if opts.HomeAway != "" && !opts.HomeAway.Valid() {
		return nil, fmt.Errorf("%w: home_away must be %q or %q",
			domain.ErrValidation, domain.HomeAwayHome, domain.HomeAwayAway)
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Limit <= 0 {
		opts.Limit = s.listing.DefaultLimit
	}
	if opts.Limit > s.listing.MaxLimit {
		opts.Limit = s.listing.MaxLimit
	}

	games, err := s.repo.ListGames(ctx, opts)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []domain.Game{}
	}
	return games, nil
}

// Update applies a partial update to a game; only supplied fields
// change, and the merged record is re-validated before persisting
func (s *GameService) Update(ctx context.Context, id int64, patch domain.GamePatch) (*domain.Game, error) {
	game, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(game)
	if err := game.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateGame(ctx, game)
}

// Delete removes a game by id
func (s *GameService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteGame(ctx, id)
}
