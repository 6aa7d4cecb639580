// internal/output/markdown.go
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

// WriteMarkdown writes the report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.Report) error {
	fmt.Fprintf(w, "# Protocol Rewards Report\n\n")
	fmt.Fprintf(w, "**Period:** %s\n", report.Period)
	fmt.Fprintf(w, "**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	// Summary totals
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Projects processed | %d |\n", report.Summary.Processed)
	fmt.Fprintf(w, "| Successful | %d |\n", report.Summary.Successful)
	fmt.Fprintf(w, "| Failed | %d |\n\n", report.Summary.Failed)

	// Per project
	fmt.Fprintf(w, "## Projects\n\n")
	fmt.Fprintf(w, "| Project | Off-chain | On-chain | Total | Tier | Reward |\n")
	fmt.Fprintf(w, "|---------|----------:|---------:|------:|------|-------:|\n")
	for _, p := range report.Projects {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			p.Project,
			scoreCell(p.RewardsOffchain),
			scoreCell(p.RewardsOnchain),
			scoreCell(p.RewardsTotal),
			tierCell(p.RewardsTotal),
			rewardCell(p.RewardsTotal))
	}
	fmt.Fprintln(w)

	// Detail sections for projects that carry metrics
	for _, p := range report.Projects {
		if p.MetricsOffchain == nil && p.MetricsOnchain == nil {
			continue
		}
		fmt.Fprintf(w, "### %s\n\n", p.Project)
		if p.MetricsOffchain != nil {
			m := p.MetricsOffchain
			fmt.Fprintf(w, "**Development** (%d repositories): %d commits, %d merged PRs, %d reviews, %d closed issues\n\n",
				m.RepositoriesCount, m.Commits.Count, m.PullRequests.Merged, m.Reviews.Count, m.Issues.Closed)
		}
		if p.MetricsOnchain != nil {
			m := p.MetricsOnchain
			fmt.Fprintf(w, "**On-chain** (`%s`): %.2f NEAR, %.2f USDC, %d transactions, %d contract calls, %d unique wallets\n\n",
				m.AccountID, m.TransactionVolume.TotalVolumeNear, m.TransactionVolume.TotalVolumeUSDC,
				m.TransactionVolume.TransactionCount, m.SmartContracts.UniqueContractCalls, m.UniqueWallets.UniqueWallets)
		}
	}

	// Errors
	failed := make([]model.ProjectRecord, 0)
	for _, p := range report.Projects {
		if p.Error != "" {
			failed = append(failed, p)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "## Errors\n\n")
		for _, p := range failed {
			fmt.Fprintf(w, "- **%s**: %s\n", p.Project, strings.TrimSpace(p.Error))
		}
		fmt.Fprintln(w)
	}

	return nil
}

func scoreCell(r *model.ScoreResult) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", r.Score.Total)
}

func tierCell(r *model.ScoreResult) string {
	if r == nil || r.Level == nil {
		return "-"
	}
	return r.Level.Name
}

func rewardCell(r *model.ScoreResult) string {
	if r == nil || r.Level == nil {
		return "-"
	}
	return fmt.Sprintf("$%d", r.TotalReward)
}
