// Package batch runs collection and scoring across a roster of projects
// and assembles the per-project records into a single report.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/offchain"
	"github.com/near-horizon/near-protocol-rewards/internal/onchain"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
	"github.com/near-horizon/near-protocol-rewards/internal/rewards"
)

// Project is one roster entry. Either side may be absent: a project with
// no wallet is scored off-chain only, and vice versa.
type Project struct {
	Name         string   `json:"project"`
	Wallet       string   `json:"wallet,omitempty"`
	Repositories []string `json:"repositories,omitempty"`
}

// LoadProjects reads a project roster from a JSON file.
func LoadProjects(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read projects file: %w", err)
	}
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parse projects file: %w", err)
	}
	for i, p := range projects {
		if p.Name == "" {
			return nil, fmt.Errorf("project %d has no name", i)
		}
	}
	return projects, nil
}

const (
	defaultCooldownEvery = 3
	defaultCooldown      = 2 * time.Minute
)

// Runner executes a batch of projects against both collection pipelines.
type Runner struct {
	Offchain *offchain.Controller
	Onchain  *onchain.Controller
	Formula  *rewards.Formula

	// CooldownEvery inserts a pause after every N projects to spread API
	// pressure. Cooldown is the pause length.
	CooldownEvery int
	Cooldown      time.Duration

	// OnProject, when set, is called before each project is processed.
	OnProject func(index, total int, name string)

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner wires a runner with production pacing defaults.
func NewRunner(off *offchain.Controller, on *onchain.Controller, formula *rewards.Formula) *Runner {
	return &Runner{
		Offchain:      off,
		Onchain:       on,
		Formula:       formula,
		CooldownEvery: defaultCooldownEvery,
		Cooldown:      defaultCooldown,
		now:           time.Now,
		sleep:         sleepCtx,
	}
}

// Run processes every project for one calendar month. Per-project failures
// are recorded in the report and do not stop the run; a fatal provider
// error (exhausted quota, bad credentials) aborts immediately with the
// partial report.
func (r *Runner) Run(ctx context.Context, projects []Project, year int, month time.Month) (*model.Report, error) {
	period := fmt.Sprintf("%04d-%02d", year, int(month))
	report := &model.Report{
		GeneratedAt: r.now(),
		Period:      period,
		Projects:    make([]model.ProjectRecord, 0, len(projects)),
	}

	var errs *multierror.Error
	for i, project := range projects {
		if r.OnProject != nil {
			r.OnProject(i, len(projects), project.Name)
		}

		record, err := r.runOne(ctx, project, year, month, period)
		report.Projects = append(report.Projects, record)
		report.Summary.Processed++
		if record.Error == "" {
			report.Summary.Successful++
		} else {
			report.Summary.Failed++
			errs = multierror.Append(errs, fmt.Errorf("%s: %s", project.Name, record.Error))
		}
		if err != nil {
			// Fatal. Nothing downstream can succeed either.
			report.Summary.Failed += len(projects) - i - 1
			return report, err
		}

		if r.CooldownEvery > 0 && (i+1)%r.CooldownEvery == 0 && i+1 < len(projects) {
			log.Printf("batch: cooling down %s after %d projects", r.Cooldown, i+1)
			if err := r.sleep(ctx, r.Cooldown); err != nil {
				return report, err
			}
		}
	}

	if merr := errs.ErrorOrNil(); merr != nil {
		log.Printf("batch: %d of %d projects failed: %v", report.Summary.Failed, report.Summary.Processed, merr)
	}
	return report, nil
}

// runOne builds the record for a single project. The returned error is
// non-nil only for fatal provider failures.
func (r *Runner) runOne(ctx context.Context, project Project, year int, month time.Month, period string) (model.ProjectRecord, error) {
	record := model.ProjectRecord{
		Project:      project.Name,
		Wallet:       project.Wallet,
		Repositories: project.Repositories,
		Period:       period,
		Timestamp:    r.now(),
	}

	if len(project.Repositories) > 0 {
		combined, targets, err := r.Offchain.CollectRepositoryData(ctx, project.Repositories, year, month)
		if err != nil {
			record.Error = err.Error()
			return record, err
		}
		for _, t := range targets {
			if !t.OK {
				log.Printf("batch: %s: repository %s failed: %s", project.Name, t.Repository, t.Error)
			}
		}
		score := r.Formula.ScoreOffchain(combined)
		record.MetricsOffchain = &combined
		record.RewardsOffchain = &score
	}

	if project.Wallet != "" {
		metrics, err := r.Onchain.CollectAccountData(ctx, project.Wallet, year, month)
		if err != nil {
			if provider.IsFatal(err) {
				record.Error = err.Error()
				return record, err
			}
			// Missing or broken account: score what we have.
			log.Printf("batch: %s: on-chain collection failed: %v", project.Name, err)
			record.Error = err.Error()
		} else {
			score := r.Formula.ScoreOnchain(metrics)
			record.MetricsOnchain = &metrics
			record.RewardsOnchain = &score
		}
	}

	if record.RewardsOffchain != nil || record.RewardsOnchain != nil {
		total := r.Formula.ScoreTotal(record.RewardsOffchain, record.RewardsOnchain)
		record.RewardsTotal = &total
	} else if record.Error == "" {
		record.Error = "no repositories or wallet configured"
	}
	return record, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
