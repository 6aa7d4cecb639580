// Package onchain collects NEAR account activity from NearBlocks and
// derives transaction volume, contract usage, and counterparty wallet
// metrics from the raw transaction stream.
package onchain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
)

const (
	yoctoPerNear = 1e24
	usdcDecimals = 1e6
)

// usdcContracts are the token contracts whose transfers are counted as
// USDC volume. Receivers matching any of these mark a USDC transaction.
var usdcContracts = []string{
	"17208628f84f5d6ad33f0da3bbbeb27ffcb398eac501a31bd6ad2011e36133a1",
	"usdc.fakes.testnet",
}

// amountPattern recovers the amount field from malformed args payloads
// that fail strict JSON decoding.
var amountPattern = regexp.MustCompile(`"amount":\s*"(\d+)"`)

// depositValue normalizes a raw deposit, which the API emits as either a
// JSON number or a numeric string. Unparseable values count as zero.
func depositValue(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// isUSDCTransfer reports whether an action moves USDC: a known transfer
// method, or any USDC contract appearing in the receiver.
func isUSDCTransfer(action provider.TxnAction, receiver string) bool {
	if action.Method == "ft_transfer" || action.Method == "withdrawUsdc" {
		return true
	}
	for _, c := range usdcContracts {
		if strings.Contains(receiver, c) {
			return true
		}
	}
	return false
}

// extractAmount pulls the raw token amount out of an action's args. Args
// are decoded as JSON first; the regex fallback covers truncated or
// double-encoded payloads.
func extractAmount(args string) float64 {
	if args == "" {
		return 0
	}
	var decoded struct {
		Amount any `json:"amount"`
	}
	if err := json.Unmarshal([]byte(args), &decoded); err == nil && decoded.Amount != nil {
		return depositValue(decoded.Amount)
	}
	if m := amountPattern.FindStringSubmatch(args); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// argsWallets pulls counterparty account IDs embedded in an action's args.
func argsWallets(args string) []string {
	if args == "" {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(args), &decoded); err != nil {
		return nil
	}
	var out []string
	for _, field := range []string{"receiver_id", "account_id", "sender_id"} {
		if v, ok := decoded[field].(string); ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}

// isCounterpartyWallet reports whether an address counts as a distinct
// counterparty: a syntactically valid NEAR account that is not a known
// token contract.
func isCounterpartyWallet(address string) bool {
	if !(model.AccountInfo{AccountID: address}).Valid() {
		return false
	}
	for _, c := range usdcContracts {
		if strings.Contains(address, c) {
			return false
		}
	}
	return true
}
