package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clubstats/internal/domain"
)

const playerColumns = `id, name, position, jersey_number, height, weight`

// CreatePlayer inserts a new player and returns it with its generated id
func (r *Repository) CreatePlayer(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	query := `
		INSERT INTO players (name, position, jersey_number, height, weight)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	row := *player
	err := r.pool.QueryRow(ctx, query,
		player.Name,
		player.Position,
		player.JerseyNumber,
		player.Height,
		player.Weight,
	).Scan(&row.ID)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	return &row, nil
}

// GetPlayer retrieves a player by id
func (r *Repository) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	var player domain.Player
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&player.ID,
		&player.Name,
		&player.Position,
		&player.JerseyNumber,
		&player.Height,
		&player.Weight,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("getting player: %w", err)
	}
	return &player, nil
}

// PlayerExists checks whether a player with the given id exists
func (r *Repository) PlayerExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking player existence: %w", err)
	}
	return exists, nil
}

// ListPlayers retrieves players with filtering, sorting and pagination.
// The sort column is whitelisted by the service layer before it reaches
// this query.
func (r *Repository) ListPlayers(ctx context.Context, opts domain.PlayerListOptions) ([]domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players`
	var args []any

	if opts.Position != "" {
		args = append(args, opts.Position)
		query += fmt.Sprintf(" WHERE position = $%d", len(args))
	}
	if opts.MinHeight > 0 {
		args = append(args, opts.MinHeight)
		query += joiner(len(args) == 1) + fmt.Sprintf("height >= $%d", len(args))
	}
	if opts.MaxHeight > 0 {
		args = append(args, opts.MaxHeight)
		query += joiner(len(args) == 1) + fmt.Sprintf("height <= $%d", len(args))
	}

	dir := "ASC"
	if opts.SortOrder == domain.SortOrderDesc {
		dir = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", opts.SortBy, dir)

	args = append(args, opts.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, opts.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var player domain.Player
		err := rows.Scan(
			&player.ID,
			&player.Name,
			&player.Position,
			&player.JerseyNumber,
			&player.Height,
			&player.Weight,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}
	return players, nil
}

// UpdatePlayer persists a fully merged player row
func (r *Repository) UpdatePlayer(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	query := `
		UPDATE players
		SET name = $2, position = $3, jersey_number = $4, height = $5, weight = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		player.ID,
		player.Name,
		player.Position,
		player.JerseyNumber,
		player.Height,
		player.Weight,
	)
	if err != nil {
		return nil, fmt.Errorf("updating player: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, domain.ErrPlayerNotFound
	}
	return player, nil
}

// DeletePlayer removes a player by id
func (r *Repository) DeletePlayer(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting player: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// joiner continues a WHERE clause that may or may not already be open
func joiner(first bool) string {
	if first {
		return " WHERE "
	}
	return " AND "
}
