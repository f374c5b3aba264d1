package markets

import (
	"math"
	"sort"

	"github.com/yourusername/pitchside/internal/dist"
	"github.com/yourusername/pitchside/internal/models"
)

// PlayerProp is a single-player market probability.
type PlayerProp struct {
	PlayerID   int64   `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TeamID     int64   `json:"team_id"`
	Market     string  `json:"market"`
	Probability float64 `json:"probability"`
}

// Enough minutes to trust per-90 rates.
const minPropMinutes = 270

// An elite scorer converts about 1.5 goals per 90 of team output.
const scorerBaseline = 1.5

// predictPlayerProps derives anytime-scorer and shots-on-target
// probabilities for players with a meaningful minutes sample.
func (p *Predictor) predictPlayerProps(req *Request) []PlayerProp {
	props := make([]PlayerProp, 0, 8)
	props = append(props, p.teamProps(req.HomePlayers, req.Goals.HomeXG)...)
	props = append(props, p.teamProps(req.AwayPlayers, req.Goals.AwayXG)...)

	sort.Slice(props, func(i, j int) bool {
		if props[i].Probability != props[j].Probability {
			return props[i].Probability > props[j].Probability
		}
		return props[i].PlayerID < props[j].PlayerID
	})
	return props
}

func (p *Predictor) teamProps(players []*models.PlayerStats, teamXG float64) []PlayerProp {
	props := make([]PlayerProp, 0, len(players)*2)
	for _, pl := range players {
		if pl.MinutesPlayed < minPropMinutes {
			continue
		}

		// Share of the team's expected goals attributable to this
		// player, discounted for substitutions.
		playerXG := teamXG * (pl.GoalsPer90 / scorerBaseline) * 0.85
		playerXG = dist.Clamp(playerXG, 0.05, 2.0)
		props = append(props, PlayerProp{
			PlayerID:    pl.PlayerID,
			PlayerName:  pl.Name,
			TeamID:      pl.TeamID,
			Market:      models.MarketPlayerGoals,
			Probability: 1 - math.Exp(-playerXG),
		})

		if pl.ShotsPer90 > 0 {
			// Roughly 40% of shots hit the target.
			sotRate := pl.ShotsPer90 * 0.4
			props = append(props, PlayerProp{
				PlayerID:    pl.PlayerID,
				PlayerName:  pl.Name,
				TeamID:      pl.TeamID,
				Market:      models.MarketPlayerSOT,
				Probability: 1 - dist.PoissonPMF(0, sotRate),
			})
		}
	}
	return props
}
