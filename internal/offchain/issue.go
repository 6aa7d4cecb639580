package offchain

import (
	"context"
	"log"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// CollectIssues counts issues created inside the range. The issues
// endpoint also returns pull requests; those are excluded here.
func CollectIssues(ctx context.Context, client *provider.GitHub, repo model.RepositoryInfo, dr model.DateRange) (model.IssueMetrics, error) {
	issues, err := client.ListIssues(ctx, repo, dr)
	if err != nil {
		if provider.IsFatal(err) {
			return emptyIssueMetrics(), err
		}
		log.Printf("offchain: issue collection failed for %s: %v", repo.FullName, err)
		return emptyIssueMetrics(), nil
	}

	since, until := dr.ISOStrings()
	metrics := emptyIssueMetrics()
	participants := newStringSet()

	for _, issue := range issues {
		if issue.PullRequestRef != nil {
			continue
		}
		if !inRange(issue.CreatedAt, since, until) {
			continue
		}
		if issue.User != nil && issue.User.Login != "" {
			participants.add(issue.User.Login)
		}
		if issue.State == "open" {
			metrics.Open++
		} else {
			metrics.Closed++
		}
	}

	metrics.Participants = participants.sorted()
	return metrics, nil
}

func emptyIssueMetrics() model.IssueMetrics {
	return model.IssueMetrics{Participants: []string{}}
}
