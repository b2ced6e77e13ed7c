package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/clubstats/internal/domain"
)

// qualify prefixes each column in a comma-separated list with the ps
// table alias, for queries that join against games
func qualify(columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = "ps." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

const playerStatsColumns = `id, player_id, game_id, points, minutes_played,
	assists, rebounds, steals, blocks,
	field_goals_made, field_goals_attempted,
	three_points_made, three_points_attempted,
	free_throws_made, free_throws_attempted,
	turnovers, personal_fouls, plus_minus,
	created_at, updated_at`

func scanPlayerStats(row pgx.Row) (*domain.PlayerStats, error) {
	var s domain.PlayerStats
	err := row.Scan(
		&s.ID,
		&s.PlayerID,
		&s.GameID,
		&s.Points,
		&s.MinutesPlayed,
		&s.Assists,
		&s.Rebounds,
		&s.Steals,
		&s.Blocks,
		&s.FieldGoalsMade,
		&s.FieldGoalsAttempted,
		&s.ThreePointsMade,
		&s.ThreePointsAttempted,
		&s.FreeThrowsMade,
		&s.FreeThrowsAttempted,
		&s.Turnovers,
		&s.PersonalFouls,
		&s.PlusMinus,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreatePlayerStats inserts a new stat line and returns it refreshed with
// the generated id and created_at. A second row for the same
// (player_id, game_id) pair trips the unique constraint, which is the
// source of truth for the one-row-per-key invariant; it surfaces as
// domain.ErrStatsConflict.
func (r *Repository) CreatePlayerStats(ctx context.Context, s *domain.PlayerStats) (*domain.PlayerStats, error) {
	query := `
		INSERT INTO player_stats (
			player_id, game_id, points, minutes_played,
			assists, rebounds, steals, blocks,
			field_goals_made, field_goals_attempted,
			three_points_made, three_points_attempted,
			free_throws_made, free_throws_attempted,
			turnovers, personal_fouls, plus_minus
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`
	row := *s
	err := r.pool.QueryRow(ctx, query,
		s.PlayerID, s.GameID, s.Points, s.MinutesPlayed,
		s.Assists, s.Rebounds, s.Steals, s.Blocks,
		s.FieldGoalsMade, s.FieldGoalsAttempted,
		s.ThreePointsMade, s.ThreePointsAttempted,
		s.FreeThrowsMade, s.FreeThrowsAttempted,
		s.Turnovers, s.PersonalFouls, s.PlusMinus,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrStatsConflict
		}
		return nil, fmt.Errorf("creating player stats: %w", err)
	}
	return &row, nil
}

// GetPlayerStatsByKey retrieves a stat line by its natural key
func (r *Repository) GetPlayerStatsByKey(ctx context.Context, playerID, gameID int64) (*domain.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE player_id = $1 AND game_id = $2`
	s, err := scanPlayerStats(r.pool.QueryRow(ctx, query, playerID, gameID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("getting player stats: %w", err)
	}
	return s, nil
}

// GetPlayerStatsByID retrieves a stat line by its surrogate id
func (r *Repository) GetPlayerStatsByID(ctx context.Context, id int64) (*domain.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE id = $1`
	s, err := scanPlayerStats(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("getting player stats: %w", err)
	}
	return s, nil
}

// UpdatePlayerStats persists a fully merged stat line and returns it
// refreshed from storage
func (r *Repository) UpdatePlayerStats(ctx context.Context, s *domain.PlayerStats) (*domain.PlayerStats, error) {
	query := `
		UPDATE player_stats
		SET points = $2, minutes_played = $3,
		    assists = $4, rebounds = $5, steals = $6, blocks = $7,
		    field_goals_made = $8, field_goals_attempted = $9,
		    three_points_made = $10, three_points_attempted = $11,
		    free_throws_made = $12, free_throws_attempted = $13,
		    turnovers = $14, personal_fouls = $15, plus_minus = $16,
		    updated_at = $17
		WHERE id = $1
		RETURNING ` + playerStatsColumns
	updated, err := scanPlayerStats(r.pool.QueryRow(ctx, query,
		s.ID, s.Points, s.MinutesPlayed,
		s.Assists, s.Rebounds, s.Steals, s.Blocks,
		s.FieldGoalsMade, s.FieldGoalsAttempted,
		s.ThreePointsMade, s.ThreePointsAttempted,
		s.FreeThrowsMade, s.FreeThrowsAttempted,
		s.Turnovers, s.PersonalFouls, s.PlusMinus,
		s.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("updating player stats: %w", err)
	}
	return updated, nil
}

// DeletePlayerStats removes a stat line by its surrogate id
func (r *Repository) DeletePlayerStats(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM player_stats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting player stats: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrStatsNotFound
	}
	return nil
}

// ListPlayerStats retrieves all stat lines for a player, optionally
// restricted to games of one season
func (r *Repository) ListPlayerStats(ctx context.Context, playerID int64, season string) ([]domain.PlayerStats, error) {
	query := `SELECT ` + qualify(playerStatsColumns) + ` FROM player_stats ps WHERE ps.player_id = $1`
	args := []any{playerID}
	if season != "" {
		query = `
			SELECT ` + qualify(playerStatsColumns) + `
			FROM player_stats ps
			JOIN games g ON g.id = ps.game_id
			WHERE ps.player_id = $1 AND g.season = $2`
		args = append(args, season)
	}
	query += ` ORDER BY ps.game_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing player stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.PlayerStats
	for rows.Next() {
		s, err := scanPlayerStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player stats: %w", err)
		}
		stats = append(stats, *s)
	}
	return stats, nil
}

// ListPlayerStatsForGame retrieves every player's stat line for one game
func (r *Repository) ListPlayerStatsForGame(ctx context.Context, gameID int64) ([]domain.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE game_id = $1 ORDER BY player_id`
	rows, err := r.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("listing game player stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.PlayerStats
	for rows.Next() {
		s, err := scanPlayerStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning player stats: %w", err)
		}
		stats = append(stats, *s)
	}
	return stats, nil
}

// PlayerAggregates computes avg/max/sum of points over a player's stat
// lines, optionally restricted to one season. An aggregate over zero rows
// comes back as a single all-NULL row; the nullable scan targets turn
// that into zero values rather than an error.
func (r *Repository) PlayerAggregates(ctx context.Context, playerID int64, season string) (*domain.PlayerAggregates, error) {
	query := `
		SELECT AVG(ps.points), MAX(ps.points), SUM(ps.points)
		FROM player_stats ps
		WHERE ps.player_id = $1`
	args := []any{playerID}
	if season != "" {
		query = `
			SELECT AVG(ps.points), MAX(ps.points), SUM(ps.points)
			FROM player_stats ps
			JOIN games g ON g.id = ps.game_id
			WHERE ps.player_id = $1 AND g.season = $2`
		args = append(args, season)
	}

	var avg *float64
	var max, sum *int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&avg, &max, &sum); err != nil {
		return nil, fmt.Errorf("aggregating player stats: %w", err)
	}

	agg := &domain.PlayerAggregates{
		PlayerID: playerID,
		Season:   season,
	}
	if avg != nil {
		agg.AvgPoints = *avg
	}
	if max != nil {
		agg.MaxPoints = int(*max)
	}
	if sum != nil {
		agg.TotalPoints = int(*sum)
	}
	return agg, nil
}

// PlayerIDsWithStats returns the distinct ids of players that have at
// least one stat line recorded
func (r *Repository) PlayerIDsWithStats(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT player_id FROM player_stats ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("listing players with stats: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

const gameStatsColumns = `id, game_id, team_points, opponent_points, quarter_scores, created_at, updated_at`

func scanGameStats(row pgx.Row) (*domain.GameStats, error) {
	var s domain.GameStats
	err := row.Scan(
		&s.ID,
		&s.GameID,
		&s.TeamPoints,
		&s.OpponentPoints,
		&s.QuarterScores,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.QuarterScores == nil {
		s.QuarterScores = []int64{}
	}
	return &s, nil
}

// CreateGameStats inserts a new team stat line; a second row for the same
// game trips the unique game_id constraint and surfaces as
// domain.ErrStatsConflict
func (r *Repository) CreateGameStats(ctx context.Context, s *domain.GameStats) (*domain.GameStats, error) {
	query := `
		INSERT INTO game_stats (game_id, team_points, opponent_points, quarter_scores)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	row := *s
	err := r.pool.QueryRow(ctx, query,
		s.GameID, s.TeamPoints, s.OpponentPoints, s.QuarterScores,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrStatsConflict
		}
		return nil, fmt.Errorf("creating game stats: %w", err)
	}
	return &row, nil
}

// GetGameStatsByGame retrieves the team stat line for a game
func (r *Repository) GetGameStatsByGame(ctx context.Context, gameID int64) (*domain.GameStats, error) {
	query := `SELECT ` + gameStatsColumns + ` FROM game_stats WHERE game_id = $1`
	s, err := scanGameStats(r.pool.QueryRow(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("getting game stats: %w", err)
	}
	return s, nil
}

// GetGameStatsByID retrieves a team stat line by its surrogate id
func (r *Repository) GetGameStatsByID(ctx context.Context, id int64) (*domain.GameStats, error) {
	query := `SELECT ` + gameStatsColumns + ` FROM game_stats WHERE id = $1`
	s, err := scanGameStats(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("getting game stats: %w", err)
	}
	return s, nil
}

// UpdateGameStats persists a fully merged team stat line and returns it
// refreshed from storage
func (r *Repository) UpdateGameStats(ctx context.Context, s *domain.GameStats) (*domain.GameStats, error) {
	query := `
		UPDATE game_stats
		SET team_points = $2, opponent_points = $3, quarter_scores = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + gameStatsColumns
	updated, err := scanGameStats(r.pool.QueryRow(ctx, query,
		s.ID, s.TeamPoints, s.OpponentPoints, s.QuarterScores, s.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("updating game stats: %w", err)
	}
	return updated, nil
}

// DeleteGameStats removes a team stat line by its surrogate id
func (r *Repository) DeleteGameStats(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM game_stats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting game stats: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrStatsNotFound
	}
	return nil
}
