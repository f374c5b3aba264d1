package models

import "time"

// Fixture statuses as reported upstream.
const (
	StatusScheduled = "NS"
	StatusFinished  = "FT"
	StatusPostponed = "PST"
)

// Fixture represents a single football match, scheduled or completed.
// Statistic fields are pointers because providers frequently omit them.
type Fixture struct {
	ID           int64     `db:"id" json:"id" validate:"required"`
	LeagueID     int64     `db:"league_id" json:"league_id" validate:"required"`
	Season       int       `db:"season" json:"season"`
	HomeTeamID   int64     `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID   int64     `db:"away_team_id" json:"away_team_id" validate:"required"`
	HomeTeamName string    `db:"home_team_name" json:"home_team_name"`
	AwayTeamName string    `db:"away_team_name" json:"away_team_name"`
	KickoffTime  time.Time `db:"kickoff_time" json:"kickoff_time" validate:"required"`
	Status       string    `db:"status" json:"status"`
	Referee      string    `db:"referee" json:"referee,omitempty"`

	HomeScore   *int `db:"home_score" json:"home_score,omitempty"`
	AwayScore   *int `db:"away_score" json:"away_score,omitempty"`
	HTHomeScore *int `db:"ht_home_score" json:"ht_home_score,omitempty"`
	HTAwayScore *int `db:"ht_away_score" json:"ht_away_score,omitempty"`

	HomeCorners       *int `db:"home_corners" json:"home_corners,omitempty"`
	AwayCorners       *int `db:"away_corners" json:"away_corners,omitempty"`
	HomeYellowCards   *int `db:"home_yellow_cards" json:"home_yellow_cards,omitempty"`
	AwayYellowCards   *int `db:"away_yellow_cards" json:"away_yellow_cards,omitempty"`
	HomeShots         *int `db:"home_shots" json:"home_shots,omitempty"`
	AwayShots         *int `db:"away_shots" json:"away_shots,omitempty"`
	HomeShotsOnTarget *int `db:"home_shots_on_target" json:"home_shots_on_target,omitempty"`
	AwayShotsOnTarget *int `db:"away_shots_on_target" json:"away_shots_on_target,omitempty"`
	HomeOffsides      *int `db:"home_offsides" json:"home_offsides,omitempty"`
	AwayOffsides      *int `db:"away_offsides" json:"away_offsides,omitempty"`
}

// IsFinished reports whether the fixture has a final result.
func (f *Fixture) IsFinished() bool {
	return f.Status == StatusFinished && f.HomeScore != nil && f.AwayScore != nil
}

// TotalGoals returns the full-time goal total, or 0 if the match is unplayed.
func (f *Fixture) TotalGoals() int {
	if f.HomeScore == nil || f.AwayScore == nil {
		return 0
	}
	return *f.HomeScore + *f.AwayScore
}

// GoalDiff returns home goals minus away goals.
func (f *Fixture) GoalDiff() int {
	if f.HomeScore == nil || f.AwayScore == nil {
		return 0
	}
	return *f.HomeScore - *f.AwayScore
}

// IntValue dereferences an optional statistic, returning ok=false when absent.
func IntValue(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
