package offchain

import (
	"context"
	"log"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// CollectPullRequests classifies pull requests created inside the range.
// The API is queried with state=all and filtered locally, because the
// pulls endpoint has no created_at window parameters.
func CollectPullRequests(ctx context.Context, client *provider.GitHub, repo model.RepositoryInfo, dr model.DateRange) (model.PullRequestMetrics, error) {
	pulls, err := client.ListPullRequests(ctx, repo)
	if err != nil {
		if provider.IsFatal(err) {
			return emptyPullRequestMetrics(), err
		}
		log.Printf("offchain: pull request collection failed for %s: %v", repo.FullName, err)
		return emptyPullRequestMetrics(), nil
	}

	since, until := dr.ISOStrings()
	metrics := emptyPullRequestMetrics()
	authors := newStringSet()

	for _, pr := range pulls {
		if !inRange(pr.CreatedAt, since, until) {
			continue
		}
		if pr.User != nil && pr.User.Login != "" {
			authors.add(pr.User.Login)
		}
		switch {
		case pr.State == "open":
			metrics.Open++
		case pr.MergedAt != "":
			metrics.Merged++
		default:
			metrics.Closed++
		}
	}

	metrics.Authors = authors.sorted()
	return metrics, nil
}

// inRange compares ISO-8601 timestamps lexicographically, which is ordered
// because the format is fixed-width, zero-padded, and Z-suffixed.
func inRange(ts, since, until string) bool {
	return ts != "" && since <= ts && ts <= until
}

func emptyPullRequestMetrics() model.PullRequestMetrics {
	return model.PullRequestMetrics{Authors: []string{}}
}
