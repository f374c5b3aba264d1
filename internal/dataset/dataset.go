// Package dataset loads the JSON files the CLIs consume: fixtures, odds
// snapshots, team statistics and player samples.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/pitchside/internal/models"
)

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// LoadFixtures reads a fixture list.
func LoadFixtures(path string) ([]*models.Fixture, error) {
	var fixtures []*models.Fixture
	if err := readJSON(path, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// LoadOdds reads odds snapshots and indexes them by fixture.
func LoadOdds(path string) (map[int64][]*models.OddsSnapshot, error) {
	var snapshots []*models.OddsSnapshot
	if err := readJSON(path, &snapshots); err != nil {
		return nil, err
	}
	byFixture := make(map[int64][]*models.OddsSnapshot)
	for _, s := range snapshots {
		byFixture[s.FixtureID] = append(byFixture[s.FixtureID], s)
	}
	return byFixture, nil
}

// LoadTeamStats reads per-team season statistics.
func LoadTeamStats(path string) ([]*models.TeamStats, error) {
	var stats []*models.TeamStats
	if err := readJSON(path, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// LoadReferees reads referee profiles.
func LoadReferees(path string) ([]*models.RefereeProfile, error) {
	var refs []*models.RefereeProfile
	if err := readJSON(path, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// LoadPlayers reads player samples and groups them by team.
func LoadPlayers(path string) (map[int64][]*models.PlayerStats, error) {
	var players []*models.PlayerStats
	if err := readJSON(path, &players); err != nil {
		return nil, err
	}
	byTeam := make(map[int64][]*models.PlayerStats)
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}
	return byTeam, nil
}

// LoadQualityProfiles reads squad quality profiles.
func LoadQualityProfiles(path string) ([]*models.TeamQualityProfile, error) {
	var profiles []*models.TeamQualityProfile
	if err := readJSON(path, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// WriteJSON writes a result file with indentation for inspection.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
