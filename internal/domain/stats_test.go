package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int            { return &v }
func scoresPtr(v []int64) *[]int64 { return &v }

func TestPlayerStatsPatchApply(t *testing.T) {
	existing := &PlayerStats{
		ID:       1,
		PlayerID: 10,
		GameID:   20,
		Points:   25,
		Assists:  7,
		Rebounds: 11,
	}

	patch := PlayerStatsPatch{
		Points: intPtr(30),
		Steals: intPtr(3),
	}
	patch.Apply(existing)

	assert.Equal(t, 30, existing.Points)
	assert.Equal(t, 3, existing.Steals)
	// Untouched fields keep their stored values
	assert.Equal(t, 7, existing.Assists)
	assert.Equal(t, 11, existing.Rebounds)
}

func TestPlayerStatsPatchExplicitZeroOverwrites(t *testing.T) {
	existing := &PlayerStats{Points: 25, Assists: 7}

	patch := PlayerStatsPatch{Points: intPtr(0)}
	patch.Apply(existing)

	assert.Equal(t, 0, existing.Points)
	assert.Equal(t, 7, existing.Assists)
}

func TestPlayerStatsPatchDecodeDistinguishesOmittedFromZero(t *testing.T) {
	var omitted PlayerStatsPatch
	require.NoError(t, json.Unmarshal([]byte(`{"assists":5}`), &omitted))
	assert.Nil(t, omitted.Points)
	require.NotNil(t, omitted.Assists)
	assert.Equal(t, 5, *omitted.Assists)

	var explicit PlayerStatsPatch
	require.NoError(t, json.Unmarshal([]byte(`{"points":0}`), &explicit))
	require.NotNil(t, explicit.Points)
	assert.Equal(t, 0, *explicit.Points)
}

func TestPlayerStatsPatchNewRowDefaults(t *testing.T) {
	patch := PlayerStatsPatch{Points: intPtr(12)}
	row := patch.NewRow(10, 20)

	assert.Equal(t, int64(10), row.PlayerID)
	assert.Equal(t, int64(20), row.GameID)
	assert.Equal(t, 12, row.Points)
	assert.Equal(t, 0, row.Rebounds)
	assert.Equal(t, float64(0), row.MinutesPlayed)
}

func TestPlayerStatsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PlayerStats)
		wantErr bool
	}{
		{"valid", func(s *PlayerStats) {}, false},
		{"negative points", func(s *PlayerStats) { s.Points = -1 }, true},
		{"negative rebounds", func(s *PlayerStats) { s.Rebounds = -3 }, true},
		{"minutes over regulation", func(s *PlayerStats) { s.MinutesPlayed = 48.5 }, true},
		{"negative minutes", func(s *PlayerStats) { s.MinutesPlayed = -1 }, true},
		{"seven fouls", func(s *PlayerStats) { s.PersonalFouls = 7 }, true},
		{"fg made over attempted", func(s *PlayerStats) {
			s.FieldGoalsMade = 10
			s.FieldGoalsAttempted = 9
		}, true},
		{"3pt made over attempted", func(s *PlayerStats) {
			s.ThreePointsMade = 5
			s.ThreePointsAttempted = 4
		}, true},
		{"ft made over attempted", func(s *PlayerStats) {
			s.FreeThrowsMade = 8
			s.FreeThrowsAttempted = 7
		}, true},
		{"made equals attempted", func(s *PlayerStats) {
			s.FieldGoalsMade = 9
			s.FieldGoalsAttempted = 9
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &PlayerStats{
				PlayerID:      10,
				GameID:        20,
				Points:        22,
				MinutesPlayed: 34.5,
				PersonalFouls: 4,
			}
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGameStatsValidate(t *testing.T) {
	s := &GameStats{GameID: 1, TeamPoints: 102, OpponentPoints: 99, QuarterScores: []int64{25, 28, 24, 25}}
	assert.NoError(t, s.Validate())

	s.QuarterScores = []int64{25, -1}
	assert.ErrorIs(t, s.Validate(), ErrValidation)

	s.QuarterScores = nil
	s.OpponentPoints = -2
	assert.ErrorIs(t, s.Validate(), ErrValidation)
}

func TestGameStatsCreateToRowDefaultsScores(t *testing.T) {
	payload := GameStatsCreate{GameID: 4, TeamPoints: 88}
	row := payload.ToRow()

	require.NotNil(t, row.QuarterScores)
	assert.Empty(t, row.QuarterScores)
	assert.Equal(t, int64(4), row.GameID)
}

func TestGameStatsPatchApply(t *testing.T) {
	existing := &GameStats{GameID: 4, TeamPoints: 88, OpponentPoints: 90, QuarterScores: []int64{22, 22, 22, 22}}

	patch := GameStatsPatch{
		TeamPoints:    intPtr(95),
		QuarterScores: scoresPtr([]int64{25, 23, 24, 23}),
	}
	patch.Apply(existing)

	assert.Equal(t, 95, existing.TeamPoints)
	assert.Equal(t, 90, existing.OpponentPoints)
	assert.Equal(t, []int64{25, 23, 24, 23}, existing.QuarterScores)
}

func TestGameStatsPatchNewRowDefaultsScores(t *testing.T) {
	patch := GameStatsPatch{TeamPoints: intPtr(100)}
	row := patch.NewRow(7)

	require.NotNil(t, row.QuarterScores)
	assert.Empty(t, row.QuarterScores)
	assert.Equal(t, 100, row.TeamPoints)
}

func TestStatLineDecode(t *testing.T) {
	raw := `{"player_id":3,"game_id":9,"points":17,"minutes_played":31.5}`

	var line StatLine
	require.NoError(t, json.Unmarshal([]byte(raw), &line))

	assert.Equal(t, int64(3), line.PlayerID)
	assert.Equal(t, int64(9), line.GameID)
	require.NotNil(t, line.Points)
	assert.Equal(t, 17, *line.Points)
	require.NotNil(t, line.MinutesPlayed)
	assert.Equal(t, 31.5, *line.MinutesPlayed)
	assert.Nil(t, line.Rebounds)
}
