package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGame() *Game {
	date, _ := ParseDate("2025-11-14")
	return &Game{
		GameDate:       date,
		Opponent:       "Riverside Hawks",
		HomeAway:       HomeAwayHome,
		PointsScored:   98,
		PointsConceded: 91,
		Season:         "2025-2026",
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	date, err := ParseDate("2025-11-14")
	require.NoError(t, err)

	data, err := json.Marshal(date)
	require.NoError(t, err)
	assert.Equal(t, `"2025-11-14"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, date.Equal(decoded.Time))
}

func TestParseDateRejectsBadFormat(t *testing.T) {
	_, err := ParseDate("14/11/2025")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseDate("2025-11-14T10:00:00Z")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGameDecodeWithDate(t *testing.T) {
	raw := `{"game_date":"2026-01-03","opponent":"Bayside","home_away":"away","season":"2025-2026"}`

	var game Game
	require.NoError(t, json.Unmarshal([]byte(raw), &game))

	assert.Equal(t, "2026-01-03", game.GameDate.Format("2006-01-02"))
	assert.Equal(t, HomeAwayAway, game.HomeAway)
}

func TestGameValidate(t *testing.T) {
	assert.NoError(t, validGame().Validate())

	g := validGame()
	g.GameDate = Date{}
	assert.ErrorIs(t, g.Validate(), ErrValidation)

	g = validGame()
	g.Opponent = ""
	assert.ErrorIs(t, g.Validate(), ErrValidation)

	g = validGame()
	g.HomeAway = "neutral"
	assert.ErrorIs(t, g.Validate(), ErrValidation)

	g = validGame()
	g.PointsScored = -1
	assert.ErrorIs(t, g.Validate(), ErrValidation)

	g = validGame()
	g.Season = ""
	assert.ErrorIs(t, g.Validate(), ErrValidation)
}

func TestGamePatchApply(t *testing.T) {
	game := validGame()
	newOpponent := "Eastside Royals"
	newPoints := 104

	patch := GamePatch{Opponent: &newOpponent, PointsScored: &newPoints}
	patch.Apply(game)

	assert.Equal(t, "Eastside Royals", game.Opponent)
	assert.Equal(t, 104, game.PointsScored)
	// Unsupplied fields stay put
	assert.Equal(t, HomeAwayHome, game.HomeAway)
	assert.Equal(t, "2025-2026", game.Season)
}

func TestHomeAwayValid(t *testing.T) {
	assert.True(t, HomeAwayHome.Valid())
	assert.True(t, HomeAwayAway.Valid())
	assert.False(t, HomeAway("").Valid())
	assert.False(t, HomeAway("neutral").Valid())
}
