package service

import (
	"context"
	"log/slog"

	"github.com/clubstats/internal/config"
	"github.com/clubstats/internal/domain"
)

// PlayerRepository is the persistence surface for player records
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, player *domain.Player) (*domain.Player, error)
	GetPlayer(ctx context.Context, id int64) (*domain.Player, error)
	ListPlayers(ctx context.Context, opts domain.PlayerListOptions) ([]domain.Player, error)
	UpdatePlayer(ctx context.Context, player *domain.Player) (*domain.Player, error)
	DeletePlayer(ctx context.Context, id int64) error
}

// PlayerService provides player record management
type PlayerService struct {
	repo    PlayerRepository
	listing *config.ListingConfig
	logger  *slog.Logger
}

// NewPlayerService creates a new player service
func NewPlayerService(repo PlayerRepository, listing *config.ListingConfig, logger *slog.Logger) *PlayerService {
	return &PlayerService{
		repo:    repo,
		listing: listing,
		logger:  logger,
	}
}

// Create validates and persists a new player
func (s *PlayerService) Create(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	if err := player.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreatePlayer(ctx, player)
}

// Get returns a player by id
func (s *PlayerService) Get(ctx context.Context, id int64) (*domain.Player, error) {
	return s.repo.GetPlayer(ctx, id)
}

// List returns players matching the options. Unknown sort fields fall
// back to name; limits are clamped to the configured window.
func (s *PlayerService) List(ctx context.Context, opts domain.PlayerListOptions) ([]domain.Player, error) {
	switch opts.SortBy {
	case domain.PlayerSortName, domain.PlayerSortJersey, domain.PlayerSortHeight:
	default:
		opts.SortBy = domain.PlayerSortName
	}
	if opts.SortOrder != domain.SortOrderDesc {
		opts.SortOrder = domain.SortOrderAsc
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

	players, err := s.repo.ListPlayers(ctx, opts)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []domain.Player{}
	}
	return players, nil
}

// Update applies a partial update to a player; only supplied fields
// change, and the merged record is re-validated before persisting
func (s *PlayerService) Update(ctx context.Context, id int64, patch domain.PlayerPatch) (*domain.Player, error) {
	player, err := s.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(player)
	if err := player.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdatePlayer(ctx, player)
}

// Delete removes a player by id
func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeletePlayer(ctx, id)
}
