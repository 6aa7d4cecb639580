// internal/provider/github_test.go
package provider_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

func testRange(t *testing.T) model.DateRange {
	t.Helper()
	return model.MonthRange(2025, time.March)
}

func newTestGitHub(serverURL string) *provider.GitHub {
	g := provider.NewGitHub("test-token", serverURL, nil)
	g.PerPage = 2
	g.PageDelay = 0
	return g
}

func TestGitHubPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `[{"sha":"a","author":{"login":"alice"}},{"sha":"b","author":{"login":"bob"}}]`)
		case "2":
			fmt.Fprint(w, `[{"sha":"c","author":null}]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer server.Close()

	g := newTestGitHub(server.URL)
	repo := model.RepositoryInfo{Owner: "near", Name: "repo", FullName: "near/repo"}

	commits, err := g.ListCommits(context.Background(), repo, testRange(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Page 2 is short, so pagination stops there.
	if len(commits) != 3 {
		t.Errorf("got %d commits, want 3", len(commits))
	}
	if commits[2].Author != nil {
		t.Error("third commit should have a nil author")
	}
}

func TestGitHubNotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	g := newTestGitHub(server.URL)
	repo := model.RepositoryInfo{Owner: "near", Name: "gone", FullName: "near/gone"}

	prs, err := g.ListPullRequests(context.Background(), repo)
	if err != nil {
		t.Fatalf("404 should not be an error, got: %v", err)
	}
	if len(prs) != 0 {
		t.Errorf("got %d PRs, want 0", len(prs))
	}
}

func TestGitHubQuotaExhaustedIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded for installation"}`)
	}))
	defer server.Close()

	g := newTestGitHub(server.URL)
	repo := model.RepositoryInfo{Owner: "near", Name: "repo", FullName: "near/repo"}

	_, err := g.ListCommits(context.Background(), repo, testRange(t))
	if !errors.Is(err, provider.ErrRateLimitExhausted) {
		t.Errorf("want ErrRateLimitExhausted, got %v", err)
	}
	if !provider.IsFatal(err) {
		t.Error("quota exhaustion must be fatal")
	}
}

func TestGitHubForbiddenIsAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer server.Close()

	g := newTestGitHub(server.URL)
	repo := model.RepositoryInfo{Owner: "near", Name: "repo", FullName: "near/repo"}

	_, err := g.ListPullRequests(context.Background(), repo)
	if !errors.Is(err, provider.ErrAuthFailed) {
		t.Errorf("want ErrAuthFailed, got %v", err)
	}
}

func TestGitHubServerErrorReturnsPartial(t *testing.T) {
	var page int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			fmt.Fprint(w, `[{"number":1,"state":"open","created_at":"2025-03-02T00:00:00Z"},{"number":2,"state":"open","created_at":"2025-03-03T00:00:00Z"}]`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := newTestGitHub(server.URL)
	repo := model.RepositoryInfo{Owner: "near", Name: "repo", FullName: "near/repo"}

	prs, err := g.ListPullRequests(context.Background(), repo)
	if err != nil {
		t.Fatalf("server error should be non-fatal, got: %v", err)
	}
	if len(prs) != 2 {
		t.Errorf("got %d PRs, want the 2 collected before the failure", len(prs))
	}
}

func TestGitHubAuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	g := newTestGitHub(server.URL)
	repo := model.RepositoryInfo{Owner: "near", Name: "repo", FullName: "near/repo"}

	if _, err := g.ListPullRequests(context.Background(), repo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestGitHubRepositoryExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/near/exists" {
			fmt.Fprint(w, `{"full_name":"near/exists"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	g := newTestGitHub(server.URL)

	ok, err := g.RepositoryExists(context.Background(), model.RepositoryInfo{Owner: "near", Name: "exists"})
	if err != nil || !ok {
		t.Errorf("exists = %v, err = %v; want true, nil", ok, err)
	}

	ok, err = g.RepositoryExists(context.Background(), model.RepositoryInfo{Owner: "near", Name: "missing"})
	if err != nil || ok {
		t.Errorf("exists = %v, err = %v; want false, nil", ok, err)
	}
}
