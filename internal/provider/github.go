// internal/provider/github.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

const (
	githubAPIBase      = "https://api.github.com"
	githubPageSize     = 100
	githubPageDelay    = 500 * time.Millisecond
	rateLimitBodyToken = "API rate limit exceeded"
)

// GitHub is a paginated client for the GitHub REST API.
type GitHub struct {
	baseURL string
	client  *http.Client

	// PerPage overrides the page size. Defaults to 100, the API maximum.
	PerPage int

	// PageDelay is the fixed pause between pages. Defaults to 500ms.
	PageDelay time.Duration
}

// NewGitHub creates a GitHub client. If baseURL is empty the public API
// endpoint is used. If client is nil, an oauth2 client carrying the token
// as a static bearer credential is constructed.
func NewGitHub(token, baseURL string, client *http.Client) *GitHub {
	if baseURL == "" {
		baseURL = githubAPIBase
	}
	if client == nil {
		if token != "" {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
			client = oauth2.NewClient(context.Background(), src)
		} else {
			client = &http.Client{}
		}
	}
	return &GitHub{
		baseURL:   baseURL,
		client:    client,
		PerPage:   githubPageSize,
		PageDelay: githubPageDelay,
	}
}

// Commit is one raw commit record.
type Commit struct {
	SHA    string `json:"sha"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

// PullRequest is one raw pull request record.
type PullRequest struct {
	Number    int    `json:"number"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	MergedAt  string `json:"merged_at"`
	User      *struct {
		Login string `json:"login"`
	} `json:"user"`
}

// Review is one raw pull request review record.
type Review struct {
	SubmittedAt string `json:"submitted_at"`
	User        *struct {
		Login string `json:"login"`
	} `json:"user"`
}

// Issue is one raw issue record. The issues endpoint conflates pull
// requests and issues; PullRequestRef marks the former.
type Issue struct {
	State          string `json:"state"`
	CreatedAt      string `json:"created_at"`
	PullRequestRef *struct {
		URL string `json:"url"`
	} `json:"pull_request"`
	User *struct {
		Login string `json:"login"`
	} `json:"user"`
}

// ListCommits fetches commits created inside the range. Filtering is done
// upstream via since/until; whatever comes back is trusted as-is.
func (g *GitHub) ListCommits(ctx context.Context, repo model.RepositoryInfo, dr model.DateRange) ([]Commit, error) {
	since, until := dr.ISOStrings()
	url := fmt.Sprintf("%s/repos/%s/%s/commits?since=%s&until=%s", g.baseURL, repo.Owner, repo.Name, since, until)
	return fetchPages[Commit](ctx, g, url)
}

// ListPullRequests fetches every pull request regardless of state or age.
func (g *GitHub) ListPullRequests(ctx context.Context, repo model.RepositoryInfo) ([]PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=all", g.baseURL, repo.Owner, repo.Name)
	return fetchPages[PullRequest](ctx, g, url)
}

// ListReviews fetches all reviews for one pull request.
func (g *GitHub) ListReviews(ctx context.Context, repo model.RepositoryInfo, prNumber int) ([]Review, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews", g.baseURL, repo.Owner, repo.Name, prNumber)
	return fetchPages[Review](ctx, g, url)
}

// ListIssues fetches issues updated since the range start. The caller still
// filters by created_at; since here only trims the result set.
func (g *GitHub) ListIssues(ctx context.Context, repo model.RepositoryInfo, dr model.DateRange) ([]Issue, error) {
	since, _ := dr.ISOStrings()
	url := fmt.Sprintf("%s/repos/%s/%s/issues?state=all&since=%s", g.baseURL, repo.Owner, repo.Name, since)
	return fetchPages[Issue](ctx, g, url)
}

// RepositoryExists performs the lightweight existence check used before
// collecting a repository.
func (g *GitHub) RepositoryExists(ctx context.Context, repo model.RepositoryInfo) (bool, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", g.baseURL, repo.Owner, repo.Name)
	body, err := g.get(ctx, url)
	if err != nil {
		return false, err
	}
	return body != nil, nil
}

// fetchPages walks page=1,2,3... accumulating records until a short page,
// an empty page, or a non-fatal upstream stop.
func fetchPages[T any](ctx context.Context, g *GitHub, baseURL string) ([]T, error) {
	perPage := g.PerPage
	if perPage <= 0 {
		perPage = githubPageSize
	}

	var all []T
	for page := 1; ; page++ {
		sep := "?"
		if strings.Contains(baseURL, "?") {
			sep = "&"
		}
		url := fmt.Sprintf("%s%spage=%d&per_page=%d", baseURL, sep, page, perPage)

		body, err := g.get(ctx, url)
		if err != nil {
			return all, err
		}
		if body == nil {
			break
		}

		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return all, fmt.Errorf("decode github response: %w", err)
		}
		if len(items) == 0 {
			break
		}

		all = append(all, items...)
		if len(items) < perPage {
			break
		}

		// Fixed inter-page delay to stay friendly with the secondary
		// rate limits.
		if g.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(g.PageDelay):
			}
		}
	}
	return all, nil
}

// get performs a single GET and applies the shared error policy: 404 and
// other non-200s are "no data" (nil body, nil error), 403 is fatal.
func (g *GitHub) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read github response: %w", err)
		}
		return body, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, nil

	case resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(resp.Body)
		if strings.Contains(string(body), rateLimitBodyToken) {
			return nil, fmt.Errorf("github: %w", ErrRateLimitExhausted)
		}
		return nil, fmt.Errorf("github: %w: %s", ErrAuthFailed, trimBody(body))

	default:
		// Non-fatal: stop paginating this resource, keep what we have.
		return nil, nil
	}
}

func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
