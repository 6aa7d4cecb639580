// internal/provider/nearblocks_test.go
package provider_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// noopLimiter removes rate limiting from client tests.
type noopLimiter struct{}

func (noopLimiter) CanMakeRequest() bool { return true }
func (noopLimiter) RecordRequest()       {}
func (noopLimiter) WaitIfNeeded()        {}

func newTestNearBlocks(serverURL string) *provider.NearBlocks {
	n := provider.NewNearBlocks("test-key", serverURL, noopLimiter{}, nil)
	n.PerPage = 2
	n.Cooldown = 10 * time.Millisecond
	return n
}

func TestNearBlocksPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if r.URL.Query().Get("from_timestamp") == "" || r.URL.Query().Get("to_timestamp") == "" {
			t.Error("missing timestamp query parameters")
		}
		switch page {
		case 1:
			fmt.Fprint(w, `{"txns":[{"transaction_hash":"h1","signer_account_id":"a.near"},{"transaction_hash":"h2","signer_account_id":"b.near"}]}`)
		default:
			fmt.Fprint(w, `{"txns":[{"transaction_hash":"h3","signer_account_id":"c.near"}]}`)
		}
	}))
	defer server.Close()

	n := newTestNearBlocks(server.URL)
	txns, err := n.Transactions(context.Background(), "proj.near", model.MonthRange(2025, time.March))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 3 {
		t.Errorf("got %d txns, want 3", len(txns))
	}
}

func TestNearBlocksThrottleRetriesSamePage(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("retried page %s, want 1", got)
		}
		fmt.Fprint(w, `{"txns":[{"transaction_hash":"h1"}]}`)
	}))
	defer server.Close()

	n := newTestNearBlocks(server.URL)
	txns, err := n.Receipts(context.Background(), "proj.near", model.MonthRange(2025, time.March))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("got %d receipts, want 1", len(txns))
	}
	if calls != 2 {
		t.Errorf("got %d calls, want 2 (429 then success)", calls)
	}
}

func TestNearBlocksForbiddenIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := newTestNearBlocks(server.URL)
	_, err := n.Transactions(context.Background(), "proj.near", model.MonthRange(2025, time.March))
	if !errors.Is(err, provider.ErrAuthFailed) {
		t.Errorf("want ErrAuthFailed, got %v", err)
	}
	if !provider.IsFatal(err) {
		t.Error("invalid key must be fatal")
	}
}

func TestNearBlocksNotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	n := newTestNearBlocks(server.URL)
	txns, err := n.Transactions(context.Background(), "missing.near", model.MonthRange(2025, time.March))
	if err != nil {
		t.Fatalf("404 should not be an error, got: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("got %d txns, want 0", len(txns))
	}
}

func TestNearBlocksAccountExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/account/proj.near" {
			fmt.Fprint(w, `{"account":[{"account_id":"proj.near"}]}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	n := newTestNearBlocks(server.URL)

	ok, err := n.AccountExists(context.Background(), "proj.near")
	if err != nil || !ok {
		t.Errorf("exists = %v, err = %v; want true, nil", ok, err)
	}
	ok, err = n.AccountExists(context.Background(), "missing.near")
	if err != nil || ok {
		t.Errorf("exists = %v, err = %v; want false, nil", ok, err)
	}
}
