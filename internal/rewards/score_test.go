package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

func offchainMetrics(commits, merged, reviews, closedIssues int) model.CombinedMetrics {
	return model.CombinedMetrics{
		Commits:      model.CommitMetrics{Count: commits},
		PullRequests: model.PullRequestMetrics{Merged: merged},
		Reviews:      model.ReviewMetrics{Count: reviews},
		Issues:       model.IssueMetrics{Closed: closedIssues},
	}
}

func onchainMetrics(near, usdc float64, calls, wallets int) model.OnchainMetrics {
	return model.OnchainMetrics{
		TransactionVolume: model.TransactionVolumeMetrics{TotalVolumeNear: near, TotalVolumeUSDC: usdc},
		SmartContracts:    model.SmartContractMetrics{UniqueContractCalls: calls},
		UniqueWallets:     model.UniqueWalletMetrics{UniqueWallets: wallets},
	}
}

func TestCohortOffchainFullMarks(t *testing.T) {
	f := CohortFormula()
	got := f.ScoreOffchain(offchainMetrics(100, 25, 30, 30))

	assert.Equal(t, 80.0, got.Score.Total)
	assert.Equal(t, map[string]float64{
		"commits": 28, "pullRequests": 22, "reviews": 16, "issues": 14,
	}, got.Score.Breakdown)
	assert.Nil(t, got.Level)
}

func TestCohortOffchainSaturates(t *testing.T) {
	f := CohortFormula()
	got := f.ScoreOffchain(offchainMetrics(1000, 500, 300, 300))
	assert.Equal(t, 80.0, got.Score.Total)
}

func TestCohortOffchainPartial(t *testing.T) {
	f := CohortFormula()
	got := f.ScoreOffchain(offchainMetrics(50, 5, 0, 15))

	assert.Equal(t, 14.0, got.Score.Breakdown["commits"])
	assert.Equal(t, 4.4, got.Score.Breakdown["pullRequests"])
	assert.Equal(t, 0.0, got.Score.Breakdown["reviews"])
	assert.Equal(t, 7.0, got.Score.Breakdown["issues"])
	assert.Equal(t, 25.4, got.Score.Total)
}

func TestCohortOnchainVolumeIsUSDDenominated(t *testing.T) {
	f := CohortFormula()

	// 2000 NEAR at $5 is exactly the $10000 threshold.
	got := f.ScoreOnchain(onchainMetrics(2000, 0, 250, 50))
	assert.Equal(t, 8.0, got.Score.Breakdown["transactionVolume"])
	assert.Equal(t, 4.0, got.Score.Breakdown["contractCalls"])
	assert.Equal(t, 2.0, got.Score.Breakdown["uniqueWallets"])
	assert.Equal(t, 14.0, got.Score.Total)

	// USDC adds to the same USD pot.
	got = f.ScoreOnchain(onchainMetrics(1000, 5000, 0, 0))
	assert.Equal(t, 8.0, got.Score.Breakdown["transactionVolume"])
}

func TestCohortTotalTiering(t *testing.T) {
	f := CohortFormula()
	tests := []struct {
		name   string
		total  float64
		level  string
		reward int
	}{
		{"diamond", 92, "Diamond", 10000},
		{"gold lower bound", 70, "Gold", 6000},
		{"silver", 60, "Silver", 3000},
		{"bronze", 41, "Bronze", 1000},
		{"contributor", 25, "Contributor", 500},
		{"explorer", 1, "Explorer", 100},
		{"no tier", 0.5, "No Tier", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := model.ScoreResult{Score: model.Score{Total: tt.total}}
			got := f.ScoreTotal(&off, nil)
			assert.Equal(t, tt.level, got.Level.Name)
			assert.Equal(t, tt.reward, got.TotalReward)
		})
	}
}

func TestCohortTotalCombinesCategories(t *testing.T) {
	f := CohortFormula()
	off := f.ScoreOffchain(offchainMetrics(100, 25, 30, 30))
	on := f.ScoreOnchain(onchainMetrics(2000, 0, 500, 100))

	got := f.ScoreTotal(&off, &on)
	assert.Equal(t, 100.0, got.Score.Total)
	assert.Equal(t, map[string]float64{"offchain": 80, "onchain": 20}, got.Score.Breakdown)
	assert.Equal(t, "Diamond", got.Level.Name)
	assert.Equal(t, 10000, got.TotalReward)
}

func TestLegacyOffchainCapsAtFifty(t *testing.T) {
	f := LegacyFormula()
	got := f.ScoreOffchain(offchainMetrics(100, 20, 30, 30))
	assert.Equal(t, 50.0, got.Score.Total)
	assert.Equal(t, 17.5, got.Score.Breakdown["commits"])
	assert.Equal(t, 12.5, got.Score.Breakdown["pullRequests"])
}

func TestLegacyOnchainOnlyIsRescaled(t *testing.T) {
	f := LegacyFormula()
	on := f.ScoreOnchain(onchainMetrics(2000, 0, 500, 100))
	assert.Equal(t, 50.0, on.Score.Total)

	got := f.ScoreTotal(nil, &on)
	assert.Equal(t, 100.0, got.Score.Total)
	assert.Equal(t, "Diamond", got.Level.Name)
	assert.Equal(t, 10000, got.TotalReward)
}

func TestLegacyTiering(t *testing.T) {
	f := LegacyFormula()
	tests := []struct {
		total  float64
		level  string
		reward int
	}{
		{95, "Diamond", 10000},
		{80, "Platinum", 8000},
		{70, "Gold", 6000},
		{60, "Silver", 4000},
		{50, "Bronze", 2000},
		{25, "Contributor", 1000},
		{10, "Member", 0},
	}
	for _, tt := range tests {
		off := model.ScoreResult{Score: model.Score{Total: tt.total}}
		got := f.ScoreTotal(&off, nil)
		assert.Equal(t, tt.level, got.Level.Name)
		assert.Equal(t, tt.reward, got.TotalReward)
	}
}

func TestZeroMetricsScoreZero(t *testing.T) {
	f := CohortFormula()
	off := f.ScoreOffchain(model.CombinedMetrics{})
	on := f.ScoreOnchain(model.OnchainMetrics{})
	got := f.ScoreTotal(&off, &on)

	assert.Equal(t, 0.0, got.Score.Total)
	assert.Equal(t, "No Tier", got.Level.Name)
	assert.Equal(t, 0, got.TotalReward)
}

func TestScoringIsDeterministic(t *testing.T) {
	f := CohortFormula()
	m := offchainMetrics(73, 11, 7, 19)
	first := f.ScoreOffchain(m)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, f.ScoreOffchain(m))
	}
}
