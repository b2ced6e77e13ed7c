package domain

import (
	"fmt"
	"strings"
	"time"
)

// HomeAway says where a game was played
type HomeAway string

const (
	HomeAwayHome HomeAway = "home"
	HomeAwayAway HomeAway = "away"
)

// Valid reports whether the value is one of the closed set
func (h HomeAway) Valid() bool {
	return h == HomeAwayHome || h == HomeAwayAway
}

// Date is a calendar day serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: game_date must be YYYY-MM-DD", ErrValidation)
	}
	return Date{t}, nil
}

// MarshalJSON renders the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts a "YYYY-MM-DD" string
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Game represents a single match played by the club
type Game struct {
	ID             int64    `json:"id"`
	GameDate       Date     `json:"game_date"`
	Opponent       string   `json:"opponent"`
	HomeAway       HomeAway `json:"home_away"`
	PointsScored   int      `json:"points_scored"`
	PointsConceded int      `json:"points_conceded"`
	Season         string   `json:"season"`
}

// Validate checks field constraints before a game is persisted
func (g *Game) Validate() error {
	if g.GameDate.IsZero() {
		return fmt.Errorf("%w: game_date is required", ErrValidation)
	}
	if g.Opponent == "" {
		return fmt.Errorf("%w: opponent is required", ErrValidation)
	}
	if !g.HomeAway.Valid() {
		return fmt.Errorf("%w: home_away must be %q or %q", ErrValidation, HomeAwayHome, HomeAwayAway)
	}
	if g.PointsScored < 0 {
		return fmt.Errorf("%w: points_scored must not be negative", ErrValidation)
	}
	if g.PointsConceded < 0 {
		return fmt.Errorf("%w: points_conceded must not be negative", ErrValidation)
	}
	if g.Season == "" {
		return fmt.Errorf("%w: season is required", ErrValidation)
	}
	return nil
}

// GamePatch is a partial update for a game. Nil fields are left untouched.
type GamePatch struct {
	GameDate       *Date     `json:"game_date,omitempty"`
	Opponent       *string   `json:"opponent,omitempty"`
	HomeAway       *HomeAway `json:"home_away,omitempty"`
	PointsScored   *int      `json:"points_scored,omitempty"`
	PointsConceded *int      `json:"points_conceded,omitempty"`
	Season         *string   `json:"season,omitempty"`
}

// Apply overwrites the supplied fields on the game
func (p *GamePatch) Apply(game *Game) {
	if p.GameDate != nil {
		game.GameDate = *p.GameDate
	}
	if p.Opponent != nil {
		game.Opponent = *p.Opponent
	}
	if p.HomeAway != nil {
		game.HomeAway = *p.HomeAway
	}
	if p.PointsScored != nil {
		game.PointsScored = *p.PointsScored
	}
	if p.PointsConceded != nil {
		game.PointsConceded = *p.PointsConceded
	}
	if p.Season != nil {
		game.Season = *p.Season
	}
}

// GameListOptions carries filters and pagination for game listing
type GameListOptions struct {
	Season   string
	HomeAway HomeAway
	Offset   int
	Limit    int
}
