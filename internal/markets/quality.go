package markets

import (
	"math"

	"github.com/yourusername/pitchside/internal/models"
)

// qualityAdjustments are additive count boosts derived from squad
// profiles. Zero everywhere when either profile is missing.
type qualityAdjustments struct {
	homeCorners, awayCorners float64
	cards                    float64
	homeShots, awayShots     float64
	homeSOT, awaySOT         float64
	physicalMismatch         float64
}

// deriveQuality turns two squad profiles into per-market boosts. Either
// profile may be nil, in which case every boost stays zero.
func deriveQuality(home, away *models.TeamQualityProfile) qualityAdjustments {
	var adj qualityAdjustments
	if home == nil || away == nil {
		return adj
	}

	// Corners: pace presses high, skill dribbles into the box, and a
	// clearly shorter side crosses more against the taller opponent.
	adj.homeCorners = (home.AvgPace-80)*0.08 + (home.AvgSkill-2.5)*0.4
	adj.awayCorners = (away.AvgPace-80)*0.08 + (away.AvgSkill-2.5)*0.4
	heightGap := home.AvgHeightCM - away.AvgHeightCM
	if heightGap < -3 {
		adj.homeCorners += -heightGap * 0.1
	} else if heightGap > 3 {
		adj.awayCorners += heightGap * 0.1
	}

	// Cards: physical clashes and skill gaps draw fouls; young squads
	// are reckless, veteran squads disciplined.
	adj.physicalMismatch = math.Abs(home.AvgPhysical - away.AvgPhysical)
	if adj.physicalMismatch > 5 {
		adj.cards += adj.physicalMismatch * 0.06
	}
	if gap := math.Abs(home.AvgSkill - away.AvgSkill); gap > 1.5 {
		adj.cards += gap * 0.8
	}
	combinedAge := (home.AvgAge + away.AvgAge) / 2
	switch {
	case combinedAge < 25:
		adj.cards += 0.4
	case combinedAge > 30:
		adj.cards -= 0.3
	}

	// Shots: attack rating and pace raise volume, skill adds attempts,
	// shooting quality lands more of them on target.
	adj.homeShots = (home.AvgAttack-75)*0.25 + (home.AvgPace-80)*0.12 + (home.AvgSkill-2.5)*0.5
	adj.awayShots = (away.AvgAttack-75)*0.25 + (away.AvgPace-80)*0.12 + (away.AvgSkill-2.5)*0.5
	adj.homeSOT = (home.AvgShooting - 75) * 0.15
	adj.awaySOT = (away.AvgShooting - 75) * 0.15

	return adj
}
