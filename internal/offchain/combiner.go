package offchain

import (
	"sort"
	"time"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

// Combine reduces per-repository metrics into one consolidated dataset.
// Counters are summed; author and participant sets are unioned, with
// commit contribution counts summed per login. Pure function: an empty
// input yields an all-zero result with RepositoriesCount 0.
func Combine(repos []model.RepositoryMetrics, now time.Time) model.CombinedMetrics {
	combined := model.CombinedMetrics{
		Commits:           emptyCommitMetrics(),
		PullRequests:      emptyPullRequestMetrics(),
		Reviews:           emptyReviewMetrics(),
		Issues:            emptyIssueMetrics(),
		RepositoriesCount: len(repos),
		CollectionDate:    now,
	}

	commitAuthors := map[string]int{}
	prAuthors := newStringSet()
	reviewers := newStringSet()
	participants := newStringSet()

	for _, r := range repos {
		combined.Commits.Count += r.Commits.Count
		for _, a := range r.Commits.Authors {
			commitAuthors[a.Login] += a.Count
		}

		combined.PullRequests.Open += r.PullRequests.Open
		combined.PullRequests.Merged += r.PullRequests.Merged
		combined.PullRequests.Closed += r.PullRequests.Closed
		prAuthors.addAll(r.PullRequests.Authors)

		combined.Reviews.Count += r.Reviews.Count
		reviewers.addAll(r.Reviews.Authors)

		combined.Issues.Open += r.Issues.Open
		combined.Issues.Closed += r.Issues.Closed
		participants.addAll(r.Issues.Participants)
	}

	authors := make([]model.CommitAuthor, 0, len(commitAuthors))
	for login, count := range commitAuthors {
		authors = append(authors, model.CommitAuthor{Login: login, Count: count})
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].Login < authors[j].Login })

	combined.Commits.Authors = authors
	combined.PullRequests.Authors = prAuthors.sorted()
	combined.Reviews.Authors = reviewers.sorted()
	combined.Issues.Participants = participants.sorted()
	return combined
}
