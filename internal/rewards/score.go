package rewards

import (
	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

// ScoreOffchain weighs development activity: total commits, merged pull
// requests, review count, and closed issues. Only the score is filled;
// tiering happens in ScoreTotal.
func (f *Formula) ScoreOffchain(m model.CombinedMetrics) model.ScoreResult {
	values := map[string]float64{
		"commits":      float64(m.Commits.Count),
		"pullRequests": float64(m.PullRequests.Merged),
		"reviews":      float64(m.Reviews.Count),
		"issues":       float64(m.Issues.Closed),
	}
	return f.score(f.Offchain, values)
}

// ScoreOnchain weighs account activity: USD-denominated transaction
// volume, unique contract calls, and distinct counterparty wallets.
func (f *Formula) ScoreOnchain(m model.OnchainMetrics) model.ScoreResult {
	usd := m.TransactionVolume.TotalVolumeNear*f.NearPriceUSD + m.TransactionVolume.TotalVolumeUSDC
	values := map[string]float64{
		"transactionVolume": usd,
		"contractCalls":     float64(m.SmartContracts.UniqueContractCalls),
		"uniqueWallets":     float64(m.UniqueWallets.UniqueWallets),
	}
	return f.score(f.Onchain, values)
}

// ScoreTotal combines category results into a tiered, rewarded total.
// A missing category contributes nothing; an on-chain-only total is
// rescaled by OnchainScale before the tier lookup.
func (f *Formula) ScoreTotal(offchain, onchain *model.ScoreResult) model.ScoreResult {
	breakdown := map[string]float64{}
	total := 0.0
	if offchain != nil {
		breakdown["offchain"] = offchain.Score.Total
		total += offchain.Score.Total
	}
	if onchain != nil {
		breakdown["onchain"] = onchain.Score.Total
		total += onchain.Score.Total
	}
	if offchain == nil && onchain != nil && f.OnchainScale != 0 {
		total *= f.OnchainScale
	}
	total = round2(total)

	level, reward := f.tierFor(total)
	return model.ScoreResult{
		Score:       model.Score{Total: total, Breakdown: breakdown},
		Level:       &level,
		TotalReward: reward,
	}
}

func (f *Formula) score(components []Component, values map[string]float64) model.ScoreResult {
	breakdown := make(map[string]float64, len(components))
	total := 0.0
	for _, c := range components {
		pts := componentPoints(c, values[c.Key])
		breakdown[c.Key] = pts
		total += pts
	}
	return model.ScoreResult{
		Score: model.Score{Total: round2(total), Breakdown: breakdown},
	}
}
