package onchain

import (
	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// TransactionVolume sums token movement over the raw transaction stream.
// NEAR volume comes from deposits, both the per-transaction aggregate and
// every individual action; USDC volume comes from transfer action args.
// The count covers every record regardless of value.
func TransactionVolume(txns []provider.Txn) model.TransactionVolumeMetrics {
	var yocto, usdcRaw float64

	for _, txn := range txns {
		if txn.ActionsAgg != nil {
			yocto += depositValue(txn.ActionsAgg.Deposit)
		}
		for _, action := range txn.Actions {
			yocto += depositValue(action.Deposit)
			if isUSDCTransfer(action, txn.ReceiverAccountID) {
				usdcRaw += extractAmount(action.Args)
			}
		}
	}

	return model.TransactionVolumeMetrics{
		TotalVolumeNear:  yocto / yoctoPerNear,
		TotalVolumeUSDC:  usdcRaw / usdcDecimals,
		TransactionCount: len(txns),
	}
}
