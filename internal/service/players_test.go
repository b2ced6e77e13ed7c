package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstats/internal/config"
	"github.com/clubstats/internal/domain"
)

type fakePlayerRepo struct {
	players  map[int64]*domain.Player
	nextID   int64
	lastOpts domain.PlayerListOptions
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int64]*domain.Player)}
}

func (f *fakePlayerRepo) CreatePlayer(_ context.Context, player *domain.Player) (*domain.Player, error) {
	f.nextID++
	copied := *player
	copied.ID = f.nextID
	f.players[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakePlayerRepo) GetPlayer(_ context.Context, id int64) (*domain.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePlayerRepo) ListPlayers(_ context.Context, opts domain.PlayerListOptions) ([]domain.Player, error) {
	f.lastOpts = opts
	var out []domain.Player
	for _, p := range f.players {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlayerRepo) UpdatePlayer(_ context.Context, player *domain.Player) (*domain.Player, error) {
	if _, ok := f.players[player.ID]; !ok {
		return nil, domain.ErrPlayerNotFound
	}
	copied := *player
	f.players[player.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakePlayerRepo) DeletePlayer(_ context.Context, id int64) error {
	if _, ok := f.players[id]; !ok {
		return domain.ErrPlayerNotFound
	}
	delete(f.players, id)
	return nil
}

func testListing() *config.ListingConfig {
	return &config.ListingConfig{DefaultLimit: 100, MaxLimit: 1000}
}

func newTestPlayerService(repo *fakePlayerRepo) *PlayerService {
	return NewPlayerService(repo, testListing(), testLogger())
}

func TestPlayerServiceCreateValidates(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := newTestPlayerService(repo)

	_, err := svc.Create(context.Background(), &domain.Player{Name: "No Position"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	created, err := svc.Create(context.Background(), &domain.Player{
		Name: "Jordan Li", Position: "PG", JerseyNumber: 11, Height: 188, Weight: 84,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestPlayerServiceUpdateMergesAndRevalidates(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := newTestPlayerService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Player{
		Name: "Jordan Li", Position: "PG", JerseyNumber: 11, Height: 188, Weight: 84,
	})
	require.NoError(t, err)

	newPosition := "SG"
	updated, err := svc.Update(ctx, created.ID, domain.PlayerPatch{Position: &newPosition})
	require.NoError(t, err)
	assert.Equal(t, "SG", updated.Position)
	assert.Equal(t, "Jordan Li", updated.Name)

	badJersey := 150
	_, err = svc.Update(ctx, created.ID, domain.PlayerPatch{JerseyNumber: &badJersey})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, 999, domain.PlayerPatch{Position: &newPosition})
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestPlayerServiceListNormalizesOptions(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := newTestPlayerService(repo)
	ctx := context.Background()

	_, err := svc.List(ctx, domain.PlayerListOptions{SortBy: "shoe_size", SortOrder: "sideways", Limit: -5, Offset: -1})
	require.NoError(t, err)

	assert.Equal(t, domain.PlayerSortName, repo.lastOpts.SortBy)
	assert.Equal(t, domain.SortOrderAsc, repo.lastOpts.SortOrder)
	assert.Equal(t, 100, repo.lastOpts.Limit)
	assert.Equal(t, 0, repo.lastOpts.Offset)

	_, err = svc.List(ctx, domain.PlayerListOptions{SortBy: domain.PlayerSortHeight, SortOrder: domain.SortOrderDesc, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerSortHeight, repo.lastOpts.SortBy)
	assert.Equal(t, domain.SortOrderDesc, repo.lastOpts.SortOrder)
	assert.Equal(t, 1000, repo.lastOpts.Limit)
}

func TestPlayerServiceListEmptyIsNotNil(t *testing.T) {
	svc := newTestPlayerService(newFakePlayerRepo())

	players, err := svc.List(context.Background(), domain.PlayerListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, players)
	assert.Empty(t, players)
}

func TestPlayerServiceDelete(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := newTestPlayerService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Player{
		Name: "Jordan Li", Position: "PG", JerseyNumber: 11, Height: 188, Weight: 84,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrPlayerNotFound)
}
