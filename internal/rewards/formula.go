// Package rewards turns collected metrics into weighted scores, reward
// tiers, and monetary amounts. Scoring is driven by a Formula value, so
// alternative weight tables coexist without branching in the scorers.
package rewards

import (
	"math"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

// Component is one weighted scoring dimension. A raw value earns
// min(value/Threshold, 1) * MaxPoints, so points saturate at the
// threshold and never exceed MaxPoints.
type Component struct {
	Key       string
	Threshold float64
	MaxPoints float64
}

// Tier couples a named level with its monetary reward.
type Tier struct {
	Level  model.Level
	Reward int
}

// Formula is a complete scoring configuration: component weights for both
// categories, the NEAR/USD conversion rate, and the tier table ordered by
// descending MinScore.
type Formula struct {
	Name         string
	NearPriceUSD float64
	Offchain     []Component
	Onchain      []Component
	Tiers        []Tier

	// OnchainScale rescales an on-chain-only total before tiering, for
	// weight tables where the on-chain cap is below the tier scale.
	OnchainScale float64
}

// CohortFormula is the current scoring model: development activity earns
// up to 80 points, on-chain activity up to 20, and tiers span the
// combined 0..100 scale.
func CohortFormula() *Formula {
	return &Formula{
		Name:         "cohort",
		NearPriceUSD: 5.0,
		Offchain: []Component{
			{Key: "commits", Threshold: 100, MaxPoints: 28},
			{Key: "pullRequests", Threshold: 25, MaxPoints: 22},
			{Key: "reviews", Threshold: 30, MaxPoints: 16},
			{Key: "issues", Threshold: 30, MaxPoints: 14},
		},
		Onchain: []Component{
			{Key: "transactionVolume", Threshold: 10000, MaxPoints: 8},
			{Key: "contractCalls", Threshold: 500, MaxPoints: 8},
			{Key: "uniqueWallets", Threshold: 100, MaxPoints: 4},
		},
		Tiers: []Tier{
			{Level: model.Level{Name: "Diamond", MinScore: 85, MaxScore: 100, Color: "#B9F2FF"}, Reward: 10000},
			{Level: model.Level{Name: "Gold", MinScore: 70, MaxScore: 84, Color: "#FFD700"}, Reward: 6000},
			{Level: model.Level{Name: "Silver", MinScore: 55, MaxScore: 69, Color: "#C0C0C0"}, Reward: 3000},
			{Level: model.Level{Name: "Bronze", MinScore: 40, MaxScore: 54, Color: "#CD7F32"}, Reward: 1000},
			{Level: model.Level{Name: "Contributor", MinScore: 20, MaxScore: 39, Color: "#A4A4A4"}, Reward: 500},
			{Level: model.Level{Name: "Explorer", MinScore: 1, MaxScore: 19, Color: "#808080"}, Reward: 100},
			{Level: model.Level{Name: "No Tier", MinScore: 0, MaxScore: 0, Color: "#000000"}, Reward: 0},
		},
		OnchainScale: 1,
	}
}

// LegacyFormula is the original half-and-half model: each category earns
// up to 50 points, and an on-chain-only total is doubled onto the 0..100
// tier scale.
func LegacyFormula() *Formula {
	return &Formula{
		Name:         "legacy",
		NearPriceUSD: 5.0,
		Offchain: []Component{
			{Key: "commits", Threshold: 100, MaxPoints: 17.5},
			{Key: "pullRequests", Threshold: 20, MaxPoints: 12.5},
			{Key: "reviews", Threshold: 30, MaxPoints: 10},
			{Key: "issues", Threshold: 30, MaxPoints: 10},
		},
		Onchain: []Component{
			{Key: "transactionVolume", Threshold: 10000, MaxPoints: 20},
			{Key: "contractCalls", Threshold: 500, MaxPoints: 20},
			{Key: "uniqueWallets", Threshold: 100, MaxPoints: 10},
		},
		Tiers: []Tier{
			{Level: model.Level{Name: "Diamond", MinScore: 90, MaxScore: 100, Color: "#B9F2FF"}, Reward: 10000},
			{Level: model.Level{Name: "Platinum", MinScore: 80, MaxScore: 89, Color: "#E5E4E2"}, Reward: 8000},
			{Level: model.Level{Name: "Gold", MinScore: 70, MaxScore: 79, Color: "#FFD700"}, Reward: 6000},
			{Level: model.Level{Name: "Silver", MinScore: 60, MaxScore: 69, Color: "#C0C0C0"}, Reward: 4000},
			{Level: model.Level{Name: "Bronze", MinScore: 50, MaxScore: 59, Color: "#CD7F32"}, Reward: 2000},
			{Level: model.Level{Name: "Contributor", MinScore: 25, MaxScore: 49, Color: "#A4A4A4"}, Reward: 1000},
			{Level: model.Level{Name: "Member", MinScore: 0, MaxScore: 24, Color: "#808080"}, Reward: 0},
		},
		OnchainScale: 2,
	}
}

// FormulaByName resolves a formula by its CLI name. Unknown names fall
// back to the cohort formula.
func FormulaByName(name string) *Formula {
	if name == "legacy" {
		return LegacyFormula()
	}
	return CohortFormula()
}

func (f *Formula) tierFor(total float64) (model.Level, int) {
	for _, t := range f.Tiers {
		if total >= t.Level.MinScore {
			return t.Level, t.Reward
		}
	}
	last := f.Tiers[len(f.Tiers)-1]
	return last.Level, last.Reward
}

// componentPoints applies the saturating linear weight to one dimension.
func componentPoints(c Component, value float64) float64 {
	ratio := value / c.Threshold
	if ratio > 1 {
		ratio = 1
	}
	return round2(ratio * c.MaxPoints)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
