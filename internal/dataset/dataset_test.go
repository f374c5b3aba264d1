package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitchside/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFixtures(t *testing.T) {
	path := writeFile(t, "fixtures.json", `[
		{"id": 1, "league_id": 39, "home_team_id": 10, "away_team_id": 20,
		 "kickoff_time": "2025-02-01T15:00:00Z", "status": "FT",
		 "home_score": 2, "away_score": 1},
		{"id": 2, "league_id": 39, "home_team_id": 20, "away_team_id": 10,
		 "kickoff_time": "2025-02-08T15:00:00Z", "status": "NS"}
	]`)

	fixtures, err := LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	assert.True(t, fixtures[0].IsFinished())
	assert.Equal(t, 3, fixtures[0].TotalGoals())
	assert.False(t, fixtures[1].IsFinished())
}

func TestLoadFixturesErrors(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadFixtures(writeFile(t, "broken.json", "{not json"))
	assert.Error(t, err)
}

func TestLoadQualityProfiles(t *testing.T) {
	path := writeFile(t, "quality.json", `[
		{"team_id": 10, "avg_overall": 82, "avg_pace": 88, "avg_attack": 81,
		 "avg_shooting": 79, "avg_physical": 76, "avg_skill": 3.4,
		 "avg_height_cm": 182.5, "avg_age": 26.1, "star_players": 4},
		{"team_id": 20, "avg_overall": 74}
	]`)

	profiles, err := LoadQualityProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, int64(10), profiles[0].TeamID)
	assert.Equal(t, 3.4, profiles[0].AvgSkill)
	assert.Equal(t, 182.5, profiles[0].AvgHeightCM)
	assert.Equal(t, 4, profiles[0].StarPlayers)
	assert.Zero(t, profiles[1].AvgPace)

	_, err = LoadQualityProfiles(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadOddsGroupsByFixture(t *testing.T) {
	path := writeFile(t, "odds.json", `[
		{"fixture_id": 1, "bookmaker": "a", "market_key": "match_winner",
		 "odds": {"home": 2.1, "draw": 3.4, "away": 3.6}},
		{"fixture_id": 1, "bookmaker": "b", "market_key": "btts",
		 "odds": {"yes": 1.8, "no": 2.0}},
		{"fixture_id": 2, "bookmaker": "a", "market_key": "match_winner",
		 "odds": {"home": 1.5}}
	]`)

	odds, err := LoadOdds(path)
	require.NoError(t, err)
	assert.Len(t, odds[1], 2)
	assert.Len(t, odds[2], 1)
	assert.Equal(t, 2.1, odds[1][0].Odds["home"])
}

func TestLoadPlayersGroupsByTeam(t *testing.T) {
	path := writeFile(t, "players.json", `[
		{"player_id": 1, "name": "Nine", "team_id": 10, "minutes_played": 900, "goals_per_90": 0.7},
		{"player_id": 2, "name": "Ten", "team_id": 10, "minutes_played": 810, "goals_per_90": 0.4},
		{"player_id": 3, "name": "Eleven", "team_id": 20, "minutes_played": 500, "goals_per_90": 0.3}
	]`)

	players, err := LoadPlayers(path)
	require.NoError(t, err)
	assert.Len(t, players[10], 2)
	assert.Len(t, players[20], 1)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")

	in := []*models.TeamStats{{TeamID: 10, MatchesPlayed: 12, GoalsScoredAvg: 1.8}}
	require.NoError(t, WriteJSON(path, in))

	out, err := LoadTeamStats(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(10), out[0].TeamID)
	assert.Equal(t, 1.8, out[0].GoalsScoredAvg)
}
