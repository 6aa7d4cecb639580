package onchain

import (
	"sort"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// UniqueWallets collects the distinct counterparties an account touched:
// signers, predecessors, and receivers on every record, plus account IDs
// embedded in function call args. The account itself and known token
// contracts are excluded.
func UniqueWallets(accountID string, txns []provider.Txn) model.UniqueWalletMetrics {
	wallets := map[string]struct{}{}
	add := func(address string) {
		if address == "" || address == accountID {
			return
		}
		if isCounterpartyWallet(address) {
			wallets[address] = struct{}{}
		}
	}

	for _, txn := range txns {
		add(txn.SignerAccountID)
		add(txn.PredecessorAccountID)
		add(txn.ReceiverAccountID)
		for _, action := range txn.Actions {
			for _, w := range argsWallets(action.Args) {
				add(w)
			}
		}
	}

	addresses := make([]string, 0, len(wallets))
	for w := range wallets {
		addresses = append(addresses, w)
	}
	sort.Strings(addresses)

	return model.UniqueWalletMetrics{
		UniqueWallets:   len(addresses),
		WalletAddresses: addresses,
	}
}
