// internal/provider/nearblocks.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

const (
	nearblocksAPIBase  = "https://api.nearblocks.io/v1"
	nearblocksPageSize = 100

	// Cooldown after a 429 before retrying the same page. One minute for
	// the window to roll over plus a small buffer.
	throttleCooldown = 65 * time.Second
)

// TxnAction is one action inside a transaction or receipt. Deposit is left
// untyped because the API emits it as either a string or a number.
type TxnAction struct {
	Action  string `json:"action"`
	Method  string `json:"method"`
	Deposit any    `json:"deposit"`
	Args    string `json:"args"`
}

// TxnActionsAgg is the aggregated action summary of a transaction.
type TxnActionsAgg struct {
	Deposit any `json:"deposit"`
}

// Txn is one raw transaction or receipt record. The receipts endpoint
// reuses the same envelope.
type Txn struct {
	TransactionHash      string         `json:"transaction_hash"`
	SignerAccountID      string         `json:"signer_account_id"`
	PredecessorAccountID string         `json:"predecessor_account_id"`
	ReceiverAccountID    string         `json:"receiver_account_id"`
	BlockTimestamp       string         `json:"block_timestamp"`
	Actions              []TxnAction    `json:"actions"`
	ActionsAgg           *TxnActionsAgg `json:"actions_agg"`
}

type txnEnvelope struct {
	Txns []Txn `json:"txns"`
}

// NearBlocks is a rate-limited, paginated client for the NearBlocks API.
type NearBlocks struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter Limiter

	// PerPage overrides the page size. Defaults to 100.
	PerPage int

	// Cooldown overrides the 429 retry pause. Defaults to 65s.
	Cooldown time.Duration
}

// NewNearBlocks creates a NearBlocks client. An empty apiKey uses the
// public unauthenticated tier. If limiter is nil a sliding-window limiter
// sized for the matching tier (400/min paid, 60/min free) is installed.
func NewNearBlocks(apiKey, baseURL string, limiter Limiter, client *http.Client) *NearBlocks {
	if baseURL == "" {
		baseURL = nearblocksAPIBase
	}
	if client == nil {
		client = &http.Client{}
	}
	if limiter == nil {
		maxCalls := 60
		if apiKey != "" {
			maxCalls = 400
		}
		limiter = NewRateLimiter(maxCalls)
	}
	return &NearBlocks{
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   client,
		limiter:  limiter,
		PerPage:  nearblocksPageSize,
		Cooldown: throttleCooldown,
	}
}

// Transactions fetches all transactions for an account inside the range.
func (n *NearBlocks) Transactions(ctx context.Context, accountID string, dr model.DateRange) ([]Txn, error) {
	url := fmt.Sprintf("%s/account/%s/txns-only", n.baseURL, accountID)
	return n.fetchAll(ctx, url, dr)
}

// Receipts fetches all receipts for an account inside the range.
func (n *NearBlocks) Receipts(ctx context.Context, accountID string, dr model.DateRange) ([]Txn, error) {
	url := fmt.Sprintf("%s/account/%s/receipts", n.baseURL, accountID)
	return n.fetchAll(ctx, url, dr)
}

// AccountExists performs the lightweight existence check used before
// collecting an account.
func (n *NearBlocks) AccountExists(ctx context.Context, accountID string) (bool, error) {
	url := fmt.Sprintf("%s/account/%s", n.baseURL, accountID)

	n.limiter.WaitIfNeeded()
	resp, err := n.do(ctx, url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

func (n *NearBlocks) fetchAll(ctx context.Context, baseURL string, dr model.DateRange) ([]Txn, error) {
	perPage := n.PerPage
	if perPage <= 0 {
		perPage = nearblocksPageSize
	}
	from, to := dr.UnixNanos()

	var all []Txn
	page := 1
	for {
		url := fmt.Sprintf("%s?page=%d&per_page=%d&from_timestamp=%d&to_timestamp=%d",
			baseURL, page, perPage, from, to)

		n.limiter.WaitIfNeeded()
		resp, err := n.do(ctx, url)
		if err != nil {
			return all, err
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			// fall through below

		case http.StatusNotFound:
			return all, nil

		case http.StatusTooManyRequests:
			// Transient throttling: cool down and retry the same page.
			log.Printf("nearblocks: throttled, waiting %s before retrying page %d", n.Cooldown, page)
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(n.Cooldown):
			}
			continue

		case http.StatusForbidden:
			return all, fmt.Errorf("nearblocks: %w: invalid or missing API key", ErrAuthFailed)

		default:
			// Non-fatal: stop paginating this resource, keep what we have.
			log.Printf("nearblocks: status %d on page %d, returning partial result", resp.StatusCode, page)
			return all, nil
		}

		if readErr != nil {
			return all, fmt.Errorf("read nearblocks response: %w", readErr)
		}

		var env txnEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return all, fmt.Errorf("decode nearblocks response: %w", err)
		}
		if len(env.Txns) == 0 {
			return all, nil
		}

		all = append(all, env.Txns...)
		if len(env.Txns) < perPage {
			return all, nil
		}
		page++
	}
}

func (n *NearBlocks) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NEAR-Protocol-Rewards/1.0")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nearblocks API request: %w", err)
	}
	n.limiter.RecordRequest()
	return resp, nil
}
