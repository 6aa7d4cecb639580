package onchain

import (
	"sort"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

// SmartContracts counts function call activity over the raw transaction
// stream. Every FUNCTION_CALL action counts toward the total; calls with
// a resolvable method additionally count toward unique contract calls and
// the distinct method list.
func SmartContracts(txns []provider.Txn) model.SmartContractMetrics {
	metrics := model.SmartContractMetrics{UniqueMethods: []string{}}
	methods := map[string]struct{}{}

	for _, txn := range txns {
		for _, action := range txn.Actions {
			if action.Action != "FUNCTION_CALL" {
				continue
			}
			metrics.TotalFunctionCalls++
			if action.Method != "" {
				metrics.UniqueContractCalls++
				methods[action.Method] = struct{}{}
			}
		}
	}

	for m := range methods {
		metrics.UniqueMethods = append(metrics.UniqueMethods, m)
	}
	sort.Strings(metrics.UniqueMethods)
	return metrics
}
