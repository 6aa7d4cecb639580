package offchain

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// TargetResult records the per-repository outcome of a collection run.
// Failed targets still contribute zero-valued metrics to the combined
// result so one bad repository cannot sink the whole project.
type TargetResult struct {
	Repository string `json:"repository"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// Controller drives off-chain collection across one or more repositories.
type Controller struct {
	client *provider.GitHub
	now    func() time.Time
}

// NewController returns a controller backed by the given GitHub client.
func NewController(client *provider.GitHub) *Controller {
	return &Controller{client: client, now: time.Now}
}

// CollectRepositoryData collects a calendar month of activity for every
// repository and combines the results. Fatal provider errors abort the
// run; any other failure marks its target and yields zero metrics.
func (c *Controller) CollectRepositoryData(ctx context.Context, names []string, year int, month time.Month) (model.CombinedMetrics, []TargetResult, error) {
	return c.CollectRepositoryDataByDateRange(ctx, names, model.MonthRange(year, month))
}

// CollectRepositoryDataByDateRange is CollectRepositoryData over an
// arbitrary window.
func (c *Controller) CollectRepositoryDataByDateRange(ctx context.Context, names []string, dr model.DateRange) (model.CombinedMetrics, []TargetResult, error) {
	metrics := make([]model.RepositoryMetrics, 0, len(names))
	results := make([]TargetResult, 0, len(names))

	for _, name := range names {
		repo, err := c.collectOne(ctx, name, dr)
		if err != nil {
			if provider.IsFatal(err) {
				return model.CombinedMetrics{}, results, err
			}
			log.Printf("offchain: collection failed for %s: %v", name, err)
			results = append(results, TargetResult{Repository: name, Error: err.Error()})
			metrics = append(metrics, zeroRepositoryMetrics(name, c.now()))
			continue
		}
		results = append(results, TargetResult{Repository: name, OK: true})
		metrics = append(metrics, repo)
	}

	return Combine(metrics, c.now()), results, nil
}

// CollectSingleRepositoryData collects a calendar month of activity for
// one repository.
func (c *Controller) CollectSingleRepositoryData(ctx context.Context, name string, year int, month time.Month) (model.RepositoryMetrics, error) {
	return c.collectOne(ctx, name, model.MonthRange(year, month))
}

func (c *Controller) collectOne(ctx context.Context, name string, dr model.DateRange) (model.RepositoryMetrics, error) {
	repo, err := model.ParseRepository(name)
	if err != nil {
		return model.RepositoryMetrics{}, err
	}

	exists, err := c.client.RepositoryExists(ctx, repo)
	if err != nil {
		return model.RepositoryMetrics{}, err
	}
	if !exists {
		return model.RepositoryMetrics{}, fmt.Errorf("repository %s: %w", name, provider.ErrNotFound)
	}

	out := model.RepositoryMetrics{RepositoryName: name, CollectionDate: c.now()}
	if out.Commits, err = CollectCommits(ctx, c.client, repo, dr); err != nil {
		return model.RepositoryMetrics{}, err
	}
	if out.PullRequests, err = CollectPullRequests(ctx, c.client, repo, dr); err != nil {
		return model.RepositoryMetrics{}, err
	}
	if out.Reviews, err = CollectReviews(ctx, c.client, repo, dr); err != nil {
		return model.RepositoryMetrics{}, err
	}
	if out.Issues, err = CollectIssues(ctx, c.client, repo, dr); err != nil {
		return model.RepositoryMetrics{}, err
	}
	return out, nil
}

func zeroRepositoryMetrics(name string, now time.Time) model.RepositoryMetrics {
	return model.RepositoryMetrics{
		RepositoryName: name,
		Commits:        emptyCommitMetrics(),
		PullRequests:   emptyPullRequestMetrics(),
		Reviews:        emptyReviewMetrics(),
		Issues:         emptyIssueMetrics(),
		CollectionDate: now,
	}
}
