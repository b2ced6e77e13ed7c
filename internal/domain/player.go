package domain

import "fmt"

// Player represents a club roster member
type Player struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	JerseyNumber int     `json:"jersey_number"`
	Height       float64 `json:"height"`
	Weight       float64 `json:"weight"`
}

// Validate checks field constraints before a player is persisted
func (p *Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Position == "" {
		return fmt.Errorf("%w: position is required", ErrValidation)
	}
	if p.JerseyNumber < 0 || p.JerseyNumber > 99 {
		return fmt.Errorf("%w: jersey_number must be between 0 and 99", ErrValidation)
	}
	if p.Height <= 0 {
		return fmt.Errorf("%w: height must be greater than 0", ErrValidation)
	}
	if p.Weight <= 0 {
		return fmt.Errorf("%w: weight must be greater than 0", ErrValidation)
	}
	return nil
}

// PlayerPatch is a partial update for a player. Nil fields are left
// untouched; a non-nil zero value overwrites.
type PlayerPatch struct {
	Name         *string  `json:"name,omitempty"`
	Position     *string  `json:"position,omitempty"`
	JerseyNumber *int     `json:"jersey_number,omitempty"`
	Height       *float64 `json:"height,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
}

// Apply overwrites the supplied fields on the player
func (p *PlayerPatch) Apply(player *Player) {
	if p.Name != nil {
		player.Name = *p.Name
	}
	if p.Position != nil {
		player.Position = *p.Position
	}
	if p.JerseyNumber != nil {
		player.JerseyNumber = *p.JerseyNumber
	}
	if p.Height != nil {
		player.Height = *p.Height
	}
	if p.Weight != nil {
		player.Weight = *p.Weight
	}
}

// SortOrder represents the sort direction for listings
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// Player list sort fields accepted by the API
const (
	PlayerSortName   = "name"
	PlayerSortJersey = "jersey_number"
	PlayerSortHeight = "height"
)

// PlayerListOptions carries filters, sorting and pagination for player listing
type PlayerListOptions struct {
	Position  string
	MinHeight float64
	MaxHeight float64
	SortBy    string
	SortOrder SortOrder
	Offset    int
	Limit     int
}
