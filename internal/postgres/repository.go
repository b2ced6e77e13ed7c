package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubstats/internal/config"
)

// Repository provides PostgreSQL-based data access
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			position TEXT NOT NULL,
			jersey_number INT NOT NULL,
			height DOUBLE PRECISION NOT NULL,
			weight DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			game_date DATE NOT NULL,
			opponent TEXT NOT NULL,
			home_away VARCHAR(10) NOT NULL,
			points_scored INT NOT NULL DEFAULT 0,
			points_conceded INT NOT NULL DEFAULT 0,
			season VARCHAR(20) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			UNIQUE(email)
		)`,
		`CREATE TABLE IF NOT EXISTS player_stats (
			id BIGSERIAL PRIMARY KEY,
			player_id BIGINT NOT NULL,
			game_id BIGINT NOT NULL,
			points INT NOT NULL DEFAULT 0,
			minutes_played DOUBLE PRECISION NOT NULL DEFAULT 0,
			assists INT NOT NULL DEFAULT 0,
			rebounds INT NOT NULL DEFAULT 0,
			steals INT NOT NULL DEFAULT 0,
			blocks INT NOT NULL DEFAULT 0,
			field_goals_made INT NOT NULL DEFAULT 0,
			field_goals_attempted INT NOT NULL DEFAULT 0,
			three_points_made INT NOT NULL DEFAULT 0,
			three_points_attempted INT NOT NULL DEFAULT 0,
			free_throws_made INT NOT NULL DEFAULT 0,
			free_throws_attempted INT NOT NULL DEFAULT 0,
			turnovers INT NOT NULL DEFAULT 0,
			personal_fouls INT NOT NULL DEFAULT 0,
			plus_minus INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ,
			UNIQUE(player_id, game_id)
		)`,
		`CREATE TABLE IF NOT EXISTS game_stats (
			id BIGSERIAL PRIMARY KEY,
			game_id BIGINT NOT NULL,
			team_points INT NOT NULL DEFAULT 0,
			opponent_points INT NOT NULL DEFAULT 0,
			quarter_scores BIGINT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ,
			UNIQUE(game_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_player_stats_player ON player_stats(player_id)`,
		`CREATE INDEX IF NOT EXISTS idx_player_stats_game ON player_stats(game_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_season ON games(season)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}

// isUniqueViolation reports whether err is the storage uniqueness
// constraint firing (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
