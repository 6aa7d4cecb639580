// internal/model/model.go
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is a closed collection window. Start is always <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MonthRange returns the range covering one calendar month: day 1 00:00:00
// through the last day 23:59:59, in UTC.
func MonthRange(year int, month time.Month) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	lastDay := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
	return DateRange{Start: start, End: lastDay}
}

// ISOStrings encodes the range for the GitHub API: ISO-8601 with a literal
// Z suffix. These strings compare lexicographically in timestamp order.
func (r DateRange) ISOStrings() (since, until string) {
	const layout = "2006-01-02T15:04:05"
	return r.Start.Format(layout) + "Z", r.End.Format(layout) + "Z"
}

// UnixNanos encodes the range for the NearBlocks API, which expects
// nanosecond timestamps.
func (r DateRange) UnixNanos() (from, to int64) {
	return r.Start.UnixNano(), r.End.UnixNano()
}

// RepositoryInfo identifies a GitHub repository.
type RepositoryInfo struct {
	Owner    string
	Name     string
	FullName string
}

// ParseRepository splits an "owner/repo" string on the first slash.
func ParseRepository(fullName string) (RepositoryInfo, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return RepositoryInfo{}, fmt.Errorf("invalid repository name %q, expected owner/repo", fullName)
	}
	return RepositoryInfo{Owner: owner, Name: name, FullName: fullName}, nil
}

// AccountInfo identifies a NEAR account.
type AccountInfo struct {
	AccountID string
}

// Valid reports whether the account ID follows NEAR naming conventions:
// a .near suffix or a 64-character alphanumeric implicit address. Validity
// is advisory; invalid accounts are still collected.
func (a AccountInfo) Valid() bool {
	if strings.HasSuffix(a.AccountID, ".near") {
		return true
	}
	return len(a.AccountID) == 64 && isAlphanumeric(a.AccountID)
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}

// CommitAuthor is one commit author and their contribution count.
type CommitAuthor struct {
	Login string `json:"login"`
	Count int    `json:"count"`
}

// CommitMetrics holds commit activity for a repository.
type CommitMetrics struct {
	Count   int            `json:"count"`
	Authors []CommitAuthor `json:"authors"`
}

// PullRequestMetrics holds pull request activity for a repository.
type PullRequestMetrics struct {
	Open    int      `json:"open"`
	Merged  int      `json:"merged"`
	Closed  int      `json:"closed"`
	Authors []string `json:"authors"`
}

// ReviewMetrics holds code review activity for a repository.
type ReviewMetrics struct {
	Count   int      `json:"count"`
	Authors []string `json:"authors"`
}

// IssueMetrics holds issue activity for a repository.
type IssueMetrics struct {
	Open         int      `json:"open"`
	Closed       int      `json:"closed"`
	Participants []string `json:"participants"`
}

// RepositoryMetrics is the complete off-chain dataset for one repository.
type RepositoryMetrics struct {
	RepositoryName string             `json:"repository_name"`
	Commits        CommitMetrics      `json:"commits"`
	PullRequests   PullRequestMetrics `json:"pull_requests"`
	Reviews        ReviewMetrics      `json:"reviews"`
	Issues         IssueMetrics       `json:"issues"`
	CollectionDate time.Time          `json:"collection_date"`
}

// CombinedMetrics aggregates off-chain metrics across repositories.
type CombinedMetrics struct {
	Commits           CommitMetrics      `json:"commits"`
	PullRequests      PullRequestMetrics `json:"pull_requests"`
	Reviews           ReviewMetrics      `json:"reviews"`
	Issues            IssueMetrics       `json:"issues"`
	RepositoriesCount int                `json:"repositories_count"`
	CollectionDate    time.Time          `json:"collection_date"`
}

// TransactionVolumeMetrics holds token volume moved through an account.
type TransactionVolumeMetrics struct {
	TotalVolumeNear  float64 `json:"total_volume_near"`
	TotalVolumeUSDC  float64 `json:"total_volume_usdc"`
	TransactionCount int     `json:"transaction_count"`
}

// SmartContractMetrics holds contract interaction activity for an account.
type SmartContractMetrics struct {
	UniqueContractCalls int      `json:"unique_contract_calls"`
	TotalFunctionCalls  int      `json:"total_function_calls"`
	UniqueMethods       []string `json:"unique_methods"`
}

// UniqueWalletMetrics holds distinct counterparty wallets for an account.
type UniqueWalletMetrics struct {
	UniqueWallets   int      `json:"unique_wallets"`
	WalletAddresses []string `json:"wallet_addresses"`
}

// OnchainMetrics is the complete on-chain dataset for one account.
type OnchainMetrics struct {
	AccountID         string                   `json:"account_id"`
	TransactionVolume TransactionVolumeMetrics `json:"transaction_volume"`
	SmartContracts    SmartContractMetrics     `json:"smart_contracts"`
	UniqueWallets     UniqueWalletMetrics      `json:"unique_wallets"`
	CollectionDate    time.Time                `json:"collection_date"`
	PeriodStart       time.Time                `json:"period_start"`
	PeriodEnd         time.Time                `json:"period_end"`
}

// Score is a total with its per-component breakdown, all rounded to two
// decimal places.
type Score struct {
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// Level is a named reward tier.
type Level struct {
	Name     string  `json:"name"`
	MinScore float64 `json:"minScore"`
	MaxScore float64 `json:"maxScore"`
	Color    string  `json:"color"`
}

// ScoreResult is the output of a scoring pass. Category scorers fill only
// Score; the total combinator adds the tier and monetary reward.
type ScoreResult struct {
	Score       Score  `json:"score"`
	Level       *Level `json:"level,omitempty"`
	TotalReward int    `json:"total_reward,omitempty"`
}

// ProjectRecord is one project's entry in the batch report. Metrics and
// rewards fields are nil when the corresponding category was not collected.
type ProjectRecord struct {
	Project         string           `json:"project"`
	Wallet          string           `json:"wallet,omitempty"`
	Repositories    []string         `json:"repository,omitempty"`
	Period          string           `json:"period"`
	Timestamp       time.Time        `json:"timestamp"`
	MetricsOnchain  *OnchainMetrics  `json:"metrics_onchain,omitempty"`
	RewardsOnchain  *ScoreResult     `json:"rewards_onchain,omitempty"`
	MetricsOffchain *CombinedMetrics `json:"metrics_offchain,omitempty"`
	RewardsOffchain *ScoreResult     `json:"rewards_offchain,omitempty"`
	RewardsTotal    *ScoreResult     `json:"rewards_total,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Summary counts per-project outcomes for a batch run.
type Summary struct {
	Processed  int `json:"projects_processed"`
	Successful int `json:"successful_projects"`
	Failed     int `json:"failed_projects"`
}

// Report is the top-level batch output.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Period      string          `json:"period"`
	Projects    []ProjectRecord `json:"projects"`
	Summary     Summary         `json:"summary"`
}
