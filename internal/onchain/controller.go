package onchain

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// Controller drives on-chain collection for a single NEAR account.
type Controller struct {
	client *provider.NearBlocks
	now    func() time.Time
}

// NewController returns a controller backed by the given NearBlocks client.
func NewController(client *provider.NearBlocks) *Controller {
	return &Controller{client: client, now: time.Now}
}

// CollectAccountData collects a calendar month of activity for the account.
func (c *Controller) CollectAccountData(ctx context.Context, accountID string, year int, month time.Month) (model.OnchainMetrics, error) {
	return c.CollectAccountDataByDateRange(ctx, accountID, model.MonthRange(year, month))
}

// CollectAccountDataByDateRange collects activity over an arbitrary window.
// Transactions and receipts are fetched separately and analyzed as one
// stream. Fatal provider errors propagate; anything else yields whatever
// partial data the client returned.
func (c *Controller) CollectAccountDataByDateRange(ctx context.Context, accountID string, dr model.DateRange) (model.OnchainMetrics, error) {
	if !(model.AccountInfo{AccountID: accountID}).Valid() {
		// Advisory only. Unconventional accounts are still collected.
		log.Printf("onchain: account %s does not match NEAR naming conventions", accountID)
	}

	exists, err := c.client.AccountExists(ctx, accountID)
	if err != nil {
		return model.OnchainMetrics{}, err
	}
	if !exists {
		return model.OnchainMetrics{}, fmt.Errorf("account %s: %w", accountID, provider.ErrNotFound)
	}

	txns, err := c.client.Transactions(ctx, accountID, dr)
	if err != nil {
		if provider.IsFatal(err) {
			return model.OnchainMetrics{}, err
		}
		log.Printf("onchain: transaction collection failed for %s: %v", accountID, err)
		txns = nil
	}
	receipts, err := c.client.Receipts(ctx, accountID, dr)
	if err != nil {
		if provider.IsFatal(err) {
			return model.OnchainMetrics{}, err
		}
		log.Printf("onchain: receipt collection failed for %s: %v", accountID, err)
		receipts = nil
	}

	all := make([]provider.Txn, 0, len(txns)+len(receipts))
	all = append(all, txns...)
	all = append(all, receipts...)

	return model.OnchainMetrics{
		AccountID:         accountID,
		TransactionVolume: TransactionVolume(all),
		SmartContracts:    SmartContracts(all),
		UniqueWallets:     UniqueWallets(accountID, all),
		CollectionDate:    c.now(),
		PeriodStart:       dr.Start,
		PeriodEnd:         dr.End,
	}, nil
}

// ValidateDataStructure probes the API with a 7-day window and checks the
// response can be analyzed end to end. Used as a cheap preflight before a
// full run.
func (c *Controller) ValidateDataStructure(ctx context.Context, accountID string) error {
	end := c.now()
	dr := model.DateRange{Start: end.AddDate(0, 0, -7), End: end}

	metrics, err := c.CollectAccountDataByDateRange(ctx, accountID, dr)
	if err != nil {
		return fmt.Errorf("validate %s: %w", accountID, err)
	}
	if metrics.TransactionVolume.TransactionCount == 0 {
		log.Printf("onchain: no activity for %s in the probe window", accountID)
	}
	return nil
}
