package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clubstats/internal/domain"
)

const gameColumns = `id, game_date, opponent, home_away, points_scored, points_conceded, season`

func scanGame(row pgx.Row) (*domain.Game, error) {
	var game domain.Game
	var gameDate time.Time
	err := row.Scan(
		&game.ID,
		&gameDate,
		&game.Opponent,
		&game.HomeAway,
		&game.PointsScored,
		&game.PointsConceded,
		&game.Season,
	)
	if err != nil {
		return nil, err
	}
	game.GameDate = domain.Date{Time: gameDate}
	return &game, nil
}

// CreateGame inserts a new game and returns it with its generated id
func (r *Repository) CreateGame(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	query := `
		INSERT INTO games (game_date, opponent, home_away, points_scored, points_conceded, season)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	row := *game
	err := r.pool.QueryRow(ctx, query,
		game.GameDate.Time,
		game.Opponent,
		string(game.HomeAway),
		game.PointsScored,
		game.PointsConceded,
		game.Season,
	).Scan(&row.ID)
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	return &row, nil
}

// GetGame retrieves a game by id
func (r *Repository) GetGame(ctx context.Context, id int64) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	game, err := scanGame(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return game, nil
}

// GameExists checks whether a game with the given id exists
func (r *Repository) GameExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM games WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking game existence: %w", err)
	}
	return exists, nil
}

// ListGames retrieves games with filtering and pagination
func (r *Repository) ListGames(ctx context.Context, opts domain.GameListOptions) ([]domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games`
	var args []any

	if opts.Season != "" {
		args = append(args, opts.Season)
		query += fmt.Sprintf(" WHERE season = $%d", len(args))
	}
	if opts.HomeAway != "" {
		args = append(args, string(opts.HomeAway))
		query += joiner(len(args) == 1) + fmt.Sprintf("home_away = $%d", len(args))
	}

	query += " ORDER BY game_date DESC, id DESC"

	args = append(args, opts.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, opts.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, *game)
	}
	return games, nil
}

// UpdateGame persists a fully merged game row
func (r *Repository) UpdateGame(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	query := `
		UPDATE games
		SET game_date = $2, opponent = $3, home_away = $4,
		    points_scored = $5, points_conceded = $6, season = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		game.ID,
		game.GameDate.Time,
		game.Opponent,
		string(game.HomeAway),
		game.PointsScored,
		game.PointsConceded,
		game.Season,
	)
	if err != nil {
		return nil, fmt.Errorf("updating game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, domain.ErrGameNotFound
	}
	return game, nil
}

// DeleteGame removes a game by id
func (r *Repository) DeleteGame(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}
