package domain

import (
	"fmt"
	"time"
)

// PlayerStats is one player's stat line for one game. At most one row
// exists per (player_id, game_id) pair; the storage layer enforces this
// with a unique constraint.
type PlayerStats struct {
	ID                   int64      `json:"id"`
	PlayerID             int64      `json:"player_id"`
	GameID               int64      `json:"game_id"`
	Points               int        `json:"points"`
	MinutesPlayed        float64    `json:"minutes_played"`
	Assists              int        `json:"assists"`
	Rebounds             int        `json:"rebounds"`
	Steals               int        `json:"steals"`
	Blocks               int        `json:"blocks"`
	FieldGoalsMade       int        `json:"field_goals_made"`
	FieldGoalsAttempted  int        `json:"field_goals_attempted"`
	ThreePointsMade      int        `json:"three_points_made"`
	ThreePointsAttempted int        `json:"three_points_attempted"`
	FreeThrowsMade       int        `json:"free_throws_made"`
	FreeThrowsAttempted  int        `json:"free_throws_attempted"`
	Turnovers            int        `json:"turnovers"`
	PersonalFouls        int        `json:"personal_fouls"`
	PlusMinus            int        `json:"plus_minus"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// Validate checks field constraints on a full stat line, including the
// cross-field made/attempted invariants. Called on the merged row, so an
// update can never smuggle in an inconsistent shooting split.
func (s *PlayerStats) Validate() error {
	counters := []struct {
		name  string
		value int
	}{
		{"points", s.Points},
		{"assists", s.Assists},
		{"rebounds", s.Rebounds},
		{"steals", s.Steals},
		{"blocks", s.Blocks},
		{"field_goals_made", s.FieldGoalsMade},
		{"field_goals_attempted", s.FieldGoalsAttempted},
		{"three_points_made", s.ThreePointsMade},
		{"three_points_attempted", s.ThreePointsAttempted},
		{"free_throws_made", s.FreeThrowsMade},
		{"free_throws_attempted", s.FreeThrowsAttempted},
		{"turnovers", s.Turnovers},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, c.name)
		}
	}
	if s.MinutesPlayed < 0 || s.MinutesPlayed > 48 {
		return fmt.Errorf("%w: minutes_played must be between 0 and 48", ErrValidation)
	}
	if s.PersonalFouls < 0 || s.PersonalFouls > 6 {
		return fmt.Errorf("%w: personal_fouls must be between 0 and 6", ErrValidation)
	}
	if s.FieldGoalsAttempted < s.FieldGoalsMade {
		return fmt.Errorf("%w: field_goals_attempted must be >= field_goals_made", ErrValidation)
	}
	if s.ThreePointsAttempted < s.ThreePointsMade {
		return fmt.Errorf("%w: three_points_attempted must be >= three_points_made", ErrValidation)
	}
	if s.FreeThrowsAttempted < s.FreeThrowsMade {
		return fmt.Errorf("%w: free_throws_attempted must be >= free_throws_made", ErrValidation)
	}
	return nil
}

// PlayerStatsPatch carries the explicitly supplied fields of a stat-line
// write. Nil means the field was omitted; a non-nil zero value is an
// explicit overwrite. This is what keeps "set points to 0" distinct from
// "leave points alone".
type PlayerStatsPatch struct {
	Points               *int     `json:"points,omitempty"`
	MinutesPlayed        *float64 `json:"minutes_played,omitempty"`
	Assists              *int     `json:"assists,omitempty"`
	Rebounds             *int     `json:"rebounds,omitempty"`
	Steals               *int     `json:"steals,omitempty"`
	Blocks               *int     `json:"blocks,omitempty"`
	FieldGoalsMade       *int     `json:"field_goals_made,omitempty"`
	FieldGoalsAttempted  *int     `json:"field_goals_attempted,omitempty"`
	ThreePointsMade      *int     `json:"three_points_made,omitempty"`
	ThreePointsAttempted *int     `json:"three_points_attempted,omitempty"`
	FreeThrowsMade       *int     `json:"free_throws_made,omitempty"`
	FreeThrowsAttempted  *int     `json:"free_throws_attempted,omitempty"`
	Turnovers            *int     `json:"turnovers,omitempty"`
	PersonalFouls        *int     `json:"personal_fouls,omitempty"`
	PlusMinus            *int     `json:"plus_minus,omitempty"`
}

// Apply overwrites the supplied fields on an existing stat line
func (p *PlayerStatsPatch) Apply(s *PlayerStats) {
	if p.Points != nil {
		s.Points = *p.Points
	}
	if p.MinutesPlayed != nil {
		s.MinutesPlayed = *p.MinutesPlayed
	}
	if p.Assists != nil {
		s.Assists = *p.Assists
	}
	if p.Rebounds != nil {
		s.Rebounds = *p.Rebounds
	}
	if p.Steals != nil {
		s.Steals = *p.Steals
	}
	if p.Blocks != nil {
		s.Blocks = *p.Blocks
	}
	if p.FieldGoalsMade != nil {
		s.FieldGoalsMade = *p.FieldGoalsMade
	}
	if p.FieldGoalsAttempted != nil {
		s.FieldGoalsAttempted = *p.FieldGoalsAttempted
	}
	if p.ThreePointsMade != nil {
		s.ThreePointsMade = *p.ThreePointsMade
	}
	if p.ThreePointsAttempted != nil {
		s.ThreePointsAttempted = *p.ThreePointsAttempted
	}
	if p.FreeThrowsMade != nil {
		s.FreeThrowsMade = *p.FreeThrowsMade
	}
	if p.FreeThrowsAttempted != nil {
		s.FreeThrowsAttempted = *p.FreeThrowsAttempted
	}
	if p.Turnovers != nil {
		s.Turnovers = *p.Turnovers
	}
	if p.PersonalFouls != nil {
		s.PersonalFouls = *p.PersonalFouls
	}
	if p.PlusMinus != nil {
		s.PlusMinus = *p.PlusMinus
	}
}

// NewRow builds a fresh stat line from the natural key plus the supplied
// fields; omitted fields keep their zero defaults.
func (p *PlayerStatsPatch) NewRow(playerID, gameID int64) *PlayerStats {
	row := &PlayerStats{
		PlayerID: playerID,
		GameID:   gameID,
	}
	p.Apply(row)
	return row
}

// GameStats is the team-level stat line for a game. One row per game,
// enforced by a unique constraint on game_id.
type GameStats struct {
	ID             int64      `json:"id"`
	GameID         int64      `json:"game_id"`
	TeamPoints     int        `json:"team_points"`
	OpponentPoints int        `json:"opponent_points"`
	QuarterScores  []int64    `json:"quarter_scores"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// Validate checks field constraints on the team stat line
func (s *GameStats) Validate() error {
	if s.TeamPoints < 0 {
		return fmt.Errorf("%w: team_points must not be negative", ErrValidation)
	}
	if s.OpponentPoints < 0 {
		return fmt.Errorf("%w: opponent_points must not be negative", ErrValidation)
	}
	for _, q := range s.QuarterScores {
		if q < 0 {
			return fmt.Errorf("%w: quarter_scores must not contain negative values", ErrValidation)
		}
	}
	return nil
}

// GameStatsCreate is the payload for the always-insert game stats path
type GameStatsCreate struct {
	GameID         int64   `json:"game_id"`
	TeamPoints     int     `json:"team_points"`
	OpponentPoints int     `json:"opponent_points"`
	QuarterScores  []int64 `json:"quarter_scores"`
}

// ToRow converts the payload into a storable row
func (c *GameStatsCreate) ToRow() *GameStats {
	scores := c.QuarterScores
	if scores == nil {
		scores = []int64{}
	}
	return &GameStats{
		GameID:         c.GameID,
		TeamPoints:     c.TeamPoints,
		OpponentPoints: c.OpponentPoints,
		QuarterScores:  scores,
	}
}

// GameStatsPatch carries the explicitly supplied fields of a team stat
// write; nil means omitted.
type GameStatsPatch struct {
	TeamPoints     *int     `json:"team_points,omitempty"`
	OpponentPoints *int     `json:"opponent_points,omitempty"`
	QuarterScores  *[]int64 `json:"quarter_scores,omitempty"`
}

// Apply overwrites the supplied fields on an existing team stat line
func (p *GameStatsPatch) Apply(s *GameStats) {
	if p.TeamPoints != nil {
		s.TeamPoints = *p.TeamPoints
	}
	if p.OpponentPoints != nil {
		s.OpponentPoints = *p.OpponentPoints
	}
	if p.QuarterScores != nil {
		s.QuarterScores = *p.QuarterScores
	}
}

// NewRow builds a fresh team stat line for a game; omitted fields keep
// their zero defaults and quarter_scores defaults to an empty sequence.
func (p *GameStatsPatch) NewRow(gameID int64) *GameStats {
	row := &GameStats{
		GameID:        gameID,
		QuarterScores: []int64{},
	}
	p.Apply(row)
	return row
}

// PlayerAggregates holds the computed aggregates over a player's stat
// lines. Zero-filled when the player has no matching rows.
type PlayerAggregates struct {
	PlayerID    int64   `json:"player_id"`
	Season      string  `json:"season,omitempty"`
	AvgPoints   float64 `json:"avg_points"`
	MaxPoints   int     `json:"max_points"`
	TotalPoints int     `json:"total_points"`
}

// FullGameStats composes a game with its team stats (absent if never
// written) and the stat lines of every player who appeared in it.
type FullGameStats struct {
	Game         *Game         `json:"game"`
	TeamStats    *GameStats    `json:"team_stats"`
	PlayersStats []PlayerStats `json:"players_stats"`
}

// StatLine is the message format for asynchronous stat-line ingestion
type StatLine struct {
	PlayerID int64 `json:"player_id"`
	GameID   int64 `json:"game_id"`
	PlayerStatsPatch
}
