// Package offchain collects GitHub development activity and aggregates it
// into per-repository and combined metrics.
package offchain

import (
	"context"
	"log"
	"sort"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// unknownAuthor buckets commits whose author has no resolvable login.
const unknownAuthor = "unknown"

// CollectCommits counts commits in the range and groups them by author.
// Date filtering is delegated to the upstream since/until query. Collection
// failures produce zero metrics; only fatal provider errors propagate.
func CollectCommits(ctx context.Context, client *provider.GitHub, repo model.RepositoryInfo, dr model.DateRange) (model.CommitMetrics, error) {
	commits, err := client.ListCommits(ctx, repo, dr)
	if err != nil {
		if provider.IsFatal(err) {
			return emptyCommitMetrics(), err
		}
		log.Printf("offchain: commit collection failed for %s: %v", repo.FullName, err)
		return emptyCommitMetrics(), nil
	}

	counts := map[string]int{}
	for _, c := range commits {
		login := unknownAuthor
		if c.Author != nil && c.Author.Login != "" {
			login = c.Author.Login
		}
		counts[login]++
	}

	authors := make([]model.CommitAuthor, 0, len(counts))
	for login, count := range counts {
		authors = append(authors, model.CommitAuthor{Login: login, Count: count})
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].Login < authors[j].Login })

	return model.CommitMetrics{Count: len(commits), Authors: authors}, nil
}

func emptyCommitMetrics() model.CommitMetrics {
	return model.CommitMetrics{Authors: []model.CommitAuthor{}}
}
