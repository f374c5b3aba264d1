package models

// TeamStats holds rolling per-match averages for one team within a league
// season. Zero values are meaningless; use DefaultTeamStats when a team has
// no history yet.
type TeamStats struct {
	TeamID   int64 `db:"team_id" json:"team_id"`
	LeagueID int64 `db:"league_id" json:"league_id"`

	MatchesPlayed int `db:"matches_played" json:"matches_played"`
	MatchesHome   int `db:"matches_home" json:"matches_home"`
	MatchesAway   int `db:"matches_away" json:"matches_away"`

	GoalsScoredAvg        float64 `db:"goals_scored_avg" json:"goals_scored_avg"`
	GoalsConcededAvg      float64 `db:"goals_conceded_avg" json:"goals_conceded_avg"`
	GoalsScoredHomeAvg    float64 `db:"goals_scored_home_avg" json:"goals_scored_home_avg"`
	GoalsScoredAwayAvg    float64 `db:"goals_scored_away_avg" json:"goals_scored_away_avg"`
	GoalsConcededHomeAvg  float64 `db:"goals_conceded_home_avg" json:"goals_conceded_home_avg"`
	GoalsConcededAwayAvg  float64 `db:"goals_conceded_away_avg" json:"goals_conceded_away_avg"`

	CleanSheetRate   float64 `db:"clean_sheet_rate" json:"clean_sheet_rate"`
	FailedToScoreRate float64 `db:"failed_to_score_rate" json:"failed_to_score_rate"`

	CornersForAvg     float64 `db:"corners_for_avg" json:"corners_for_avg"`
	CornersAgainstAvg float64 `db:"corners_against_avg" json:"corners_against_avg"`
	CardsAvg          float64 `db:"cards_avg" json:"cards_avg"`
	FoulsAvg          float64 `db:"fouls_avg" json:"fouls_avg"`
	ShotsAvg          float64 `db:"shots_avg" json:"shots_avg"`
	ShotsOnTargetAvg  float64 `db:"shots_on_target_avg" json:"shots_on_target_avg"`
	OffsidesAvg       float64 `db:"offsides_avg" json:"offsides_avg"`
	PossessionAvg     float64 `db:"possession_avg" json:"possession_avg"`
}

// DefaultTeamStats returns league-typical averages for a team with no
// recorded matches.
func DefaultTeamStats(teamID, leagueID int64) *TeamStats {
	return &TeamStats{
		TeamID:               teamID,
		LeagueID:             leagueID,
		GoalsScoredAvg:       1.3,
		GoalsConcededAvg:     1.3,
		GoalsScoredHomeAvg:   1.45,
		GoalsScoredAwayAvg:   1.15,
		GoalsConcededHomeAvg: 1.15,
		GoalsConcededAwayAvg: 1.45,
		CleanSheetRate:       0.28,
		FailedToScoreRate:    0.28,
		CornersForAvg:        5.0,
		CornersAgainstAvg:    5.0,
		CardsAvg:             1.9,
		FoulsAvg:             11.5,
		ShotsAvg:             12.0,
		ShotsOnTargetAvg:     4.3,
		OffsidesAvg:          2.25,
		PossessionAvg:        0.5,
	}
}

// RefereeProfile describes a referee's card tendencies.
type RefereeProfile struct {
	Name            string  `db:"name" json:"name"`
	TotalGames      int     `db:"total_games" json:"total_games"`
	AvgYellowPerGame float64 `db:"avg_yellow_per_game" json:"avg_yellow_per_game"`
	AvgRedPerGame   float64 `db:"avg_red_per_game" json:"avg_red_per_game"`
	// Strictness is normalised to [0, 1]; 0.5 is a league-average official.
	Strictness float64 `db:"strictness" json:"strictness"`
	// HomeBias above 1.0 means the referee books away sides more often.
	HomeBias    float64 `db:"home_bias" json:"home_bias"`
	Consistency float64 `db:"consistency" json:"consistency"`
}

// DefaultRefereeProfile covers fixtures where the official is unknown.
func DefaultRefereeProfile() *RefereeProfile {
	return &RefereeProfile{
		Name:             "unknown",
		AvgYellowPerGame: 3.5,
		AvgRedPerGame:    0.15,
		Strictness:       0.5,
		HomeBias:         1.0,
		Consistency:      0.5,
	}
}

// TeamQualityProfile aggregates squad attributes used to tilt market
// expectations for mismatched sides.
type TeamQualityProfile struct {
	TeamID       int64   `db:"team_id" json:"team_id"`
	AvgOverall   float64 `db:"avg_overall" json:"avg_overall"`
	AvgPace      float64 `db:"avg_pace" json:"avg_pace"`
	AvgAttack    float64 `db:"avg_attack" json:"avg_attack"`
	AvgShooting  float64 `db:"avg_shooting" json:"avg_shooting"`
	AvgPhysical  float64 `db:"avg_physical" json:"avg_physical"`
	AvgSkill     float64 `db:"avg_skill" json:"avg_skill"`
	AvgHeightCM  float64 `db:"avg_height_cm" json:"avg_height_cm"`
	AvgAge       float64 `db:"avg_age" json:"avg_age"`
	StarPlayers  int     `db:"star_players" json:"star_players"`
}

// PlayerStats carries the per-90 figures needed for player prop markets.
type PlayerStats struct {
	PlayerID      int64   `db:"player_id" json:"player_id"`
	Name          string  `db:"name" json:"name"`
	TeamID        int64   `db:"team_id" json:"team_id"`
	Position      string  `db:"position" json:"position"`
	MinutesPlayed int     `db:"minutes_played" json:"minutes_played"`
	GoalsPer90    float64 `db:"goals_per_90" json:"goals_per_90"`
	ShotsPer90    float64 `db:"shots_per_90" json:"shots_per_90"`
	AssistsPer90  float64 `db:"assists_per_90" json:"assists_per_90"`
}
