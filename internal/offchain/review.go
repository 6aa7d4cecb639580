package offchain

import (
	"context"
	"log"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// CollectReviews counts reviews submitted inside the range. Reviews can
// land long after their pull request was opened, so every pull request is
// walked regardless of age and the review records themselves are filtered
// by submitted_at.
func CollectReviews(ctx context.Context, client *provider.GitHub, repo model.RepositoryInfo, dr model.DateRange) (model.ReviewMetrics, error) {
	pulls, err := client.ListPullRequests(ctx, repo)
	if err != nil {
		if provider.IsFatal(err) {
			return emptyReviewMetrics(), err
		}
		log.Printf("offchain: review collection failed for %s: %v", repo.FullName, err)
		return emptyReviewMetrics(), nil
	}

	since, until := dr.ISOStrings()
	count := 0
	reviewers := newStringSet()

	for _, pr := range pulls {
		reviews, err := client.ListReviews(ctx, repo, pr.Number)
		if err != nil {
			if provider.IsFatal(err) {
				return emptyReviewMetrics(), err
			}
			log.Printf("offchain: reviews for %s#%d failed: %v", repo.FullName, pr.Number, err)
			continue
		}
		for _, rv := range reviews {
			if !inRange(rv.SubmittedAt, since, until) {
				continue
			}
			count++
			if rv.User != nil && rv.User.Login != "" {
				reviewers.add(rv.User.Login)
			}
		}
	}

	return model.ReviewMetrics{Count: count, Authors: reviewers.sorted()}, nil
}

func emptyReviewMetrics() model.ReviewMetrics {
	return model.ReviewMetrics{Authors: []string{}}
}
