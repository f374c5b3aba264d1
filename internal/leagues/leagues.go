// Package leagues centralises per-competition tuning: baseline Elo tiers,
// home advantage, cup handling and historical model accuracy.
package leagues

// Well-known competition IDs (API-Football numbering).
const (
	PremierLeague  int64 = 39
	LaLiga         int64 = 140
	Bundesliga     int64 = 78
	SerieA         int64 = 135
	Ligue1         int64 = 61
	Eredivisie     int64 = 88
	PrimeiraLiga   int64 = 94
	SuperLig       int64 = 203
	ChampionsLeague int64 = 2
	EuropaLeague   int64 = 3
	ConferenceLeague int64 = 848
	FACup          int64 = 45
	CopaDelRey     int64 = 143
)

// defaultRatings seeds new teams by competition strength.
var defaultRatings = map[int64]float64{
	PremierLeague:    1600,
	LaLiga:           1580,
	Bundesliga:       1560,
	SerieA:           1540,
	Ligue1:           1520,
	PrimeiraLiga:     1450,
	Eredivisie:       1440,
	SuperLig:         1420,
	ChampionsLeague:  1650,
	EuropaLeague:     1550,
	ConferenceLeague: 1480,
}

const baselineRating = 1400

// topTeamBonuses lifts the cold-start rating for established elite squads,
// keyed by team ID.
var topTeamBonuses = map[int64]float64{
	50:  120, // Manchester City
	541: 130, // Real Madrid
	529: 110, // Barcelona
	157: 115, // Bayern Munich
	40:  110, // Liverpool
	42:  95,  // Arsenal
	85:  100, // Paris Saint-Germain
	496: 85,  // Juventus
	505: 90,  // Inter
	489: 80,  // AC Milan
	33:  85,  // Manchester United
	49:  90,  // Chelsea
	47:  75,  // Tottenham
	530: 85,  // Atletico Madrid
	165: 75,  // Borussia Dortmund
	81:  60,  // Marseille
	212: 70,  // Ajax
	211: 75,  // Benfica
	228: 70,  // Sporting CP
	236: 65,  // Porto
	645: 60,  // Galatasaray
	611: 55,  // Fenerbahce
}

// DefaultRating returns the cold-start Elo for a team in a league,
// including any elite-squad bonus.
func DefaultRating(teamID, leagueID int64) float64 {
	rating, ok := defaultRatings[leagueID]
	if !ok {
		rating = baselineRating
	}
	if bonus, ok := topTeamBonuses[teamID]; ok {
		rating += bonus
	}
	return rating
}

// MeanRating is the regression target for inactive teams.
func MeanRating(leagueID int64) float64 {
	if r, ok := defaultRatings[leagueID]; ok {
		return r
	}
	return baselineRating
}

// homeAdvantage holds per-league Dixon-Coles home advantage (log scale).
var homeAdvantage = map[int64]float64{
	PremierLeague:    0.30,
	LaLiga:           0.32,
	Bundesliga:       0.28,
	SerieA:           0.26,
	Ligue1:           0.30,
	Eredivisie:       0.34,
	PrimeiraLiga:     0.31,
	SuperLig:         0.36,
	ChampionsLeague:  0.25,
	EuropaLeague:     0.27,
	ConferenceLeague: 0.29,
}

const defaultHomeAdvantage = 0.30

// HomeAdvantage returns the log-scale home edge for a league.
func HomeAdvantage(leagueID int64) float64 {
	if adv, ok := homeAdvantage[leagueID]; ok {
		return adv
	}
	return defaultHomeAdvantage
}

var cupCompetitions = map[int64]bool{
	ChampionsLeague:  true,
	EuropaLeague:     true,
	ConferenceLeague: true,
	FACup:            true,
	CopaDelRey:       true,
}

var europeanCompetitions = map[int64]bool{
	ChampionsLeague:  true,
	EuropaLeague:     true,
	ConferenceLeague: true,
}

// IsCup reports whether the competition uses knockout dynamics.
func IsCup(leagueID int64) bool {
	return cupCompetitions[leagueID]
}

// IsEuropean reports whether the competition is a continental one, where
// H2H history carries extra weight.
func IsEuropean(leagueID int64) bool {
	return europeanCompetitions[leagueID]
}

// historicalAccuracy holds measured match-winner hit rates by league,
// used as the quality scorer's historical component.
var historicalAccuracy = map[int64]float64{
	PremierLeague: 0.62,
	LaLiga:        0.64,
	Bundesliga:    0.60,
	SerieA:        0.63,
	Ligue1:        0.61,
	Eredivisie:    0.58,
	PrimeiraLiga:  0.59,
	SuperLig:      0.55,
}

const defaultAccuracy = 0.55

// HistoricalAccuracy returns the measured winner accuracy for a league.
func HistoricalAccuracy(leagueID int64) float64 {
	if acc, ok := historicalAccuracy[leagueID]; ok {
		return acc
	}
	return defaultAccuracy
}

// Tier buckets leagues for fallback quality scoring: 1 covers the top five
// leagues, 2 other tracked leagues, 3 everything else.
func Tier(leagueID int64) int {
	switch leagueID {
	case PremierLeague, LaLiga, Bundesliga, SerieA, Ligue1, ChampionsLeague:
		return 1
	case Eredivisie, PrimeiraLiga, SuperLig, EuropaLeague, ConferenceLeague:
		return 2
	default:
		return 3
	}
}
