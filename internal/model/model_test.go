// internal/model/model_test.go
package model_test

import (
	"testing"
	"time"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
)

func TestMonthRangeLastDay(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		lastDay int
	}{
		{"january", 2025, time.January, 31},
		{"april", 2025, time.April, 30},
		{"february", 2025, time.February, 28},
		{"february leap year", 2024, time.February, 29},
		{"february century non-leap", 1900, time.February, 28},
		{"february 400-year leap", 2000, time.February, 29},
		{"december", 2025, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.MonthRange(tt.year, tt.month)
			if r.Start.Day() != 1 || r.Start.Hour() != 0 {
				t.Errorf("start = %v, want first day midnight", r.Start)
			}
			if r.End.Day() != tt.lastDay {
				t.Errorf("end day = %d, want %d", r.End.Day(), tt.lastDay)
			}
			if r.End.Hour() != 23 || r.End.Minute() != 59 || r.End.Second() != 59 {
				t.Errorf("end time = %v, want 23:59:59", r.End)
			}
			if r.End.Before(r.Start) {
				t.Errorf("end %v before start %v", r.End, r.Start)
			}
		})
	}
}

func TestDateRangeISOStrings(t *testing.T) {
	r := model.MonthRange(2025, time.March)
	since, until := r.ISOStrings()

	if since != "2025-03-01T00:00:00Z" {
		t.Errorf("since = %q", since)
	}
	if until != "2025-03-31T23:59:59Z" {
		t.Errorf("until = %q", until)
	}
	if !(since <= until) {
		t.Error("expected since <= until lexicographically")
	}
}

func TestDateRangeUnixNanos(t *testing.T) {
	r := model.MonthRange(2025, time.January)
	from, to := r.UnixNanos()

	if from != r.Start.Unix()*1e9 {
		t.Errorf("from = %d, want %d", from, r.Start.Unix()*1e9)
	}
	if to <= from {
		t.Errorf("to %d not after from %d", to, from)
	}
}

func TestParseRepository(t *testing.T) {
	repo, err := model.ParseRepository("near/near-api-js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Owner != "near" || repo.Name != "near-api-js" {
		t.Errorf("got %+v", repo)
	}

	// Only the first slash splits.
	repo, err = model.ParseRepository("owner/repo/extra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Name != "repo/extra" {
		t.Errorf("name = %q, want repo/extra", repo.Name)
	}

	for _, bad := range []string{"", "noslash", "/repo", "owner/"} {
		if _, err := model.ParseRepository(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestAccountValid(t *testing.T) {
	tests := []struct {
		account string
		valid   bool
	}{
		{"example.near", true},
		{"sub.example.near", true},
		{"17208628f84f5d6ad33f0da3bbbeb27ffcb398eac501a31bd6ad2011e36133a1", true},
		{"example.testnet", false},
		{"short", false},
		{"", false},
	}

	for _, tt := range tests {
		got := model.AccountInfo{AccountID: tt.account}.Valid()
		if got != tt.valid {
			t.Errorf("Valid(%q) = %v, want %v", tt.account, got, tt.valid)
		}
	}
}
