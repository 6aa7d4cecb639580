package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/near-horizon/near-protocol-rewards/internal/batch"
	"github.com/near-horizon/near-protocol-rewards/internal/config"
	"github.com/near-horizon/near-protocol-rewards/internal/model"
	"github.com/near-horizon/near-protocol-rewards/internal/offchain"
	"github.com/near-horizon/near-protocol-rewards/internal/onchain"
	"github.com/near-horizon/near-protocol-rewards/internal/output"
	"github.com/near-horizon/near-protocol-rewards/internal/provider"
	"github.com/near-horizon/near-protocol-rewards/internal/rewards"
	"github.com/near-horizon/near-protocol-rewards/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "rewards",
		Short: "Score NEAR ecosystem projects and calculate protocol rewards",
	}

	root.AddCommand(newCollectCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// pipeline bundles everything a command needs to collect and score.
type pipeline struct {
	cfg      *config.Config
	offchain *offchain.Controller
	onchain  *onchain.Controller
	formula  *rewards.Formula
}

func newPipeline(formulaName string) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	gh := provider.NewGitHub(cfg.GithubToken, cfg.GithubBaseURL, nil)

	var limiter provider.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = provider.NewRateLimiter(cfg.RateLimitPerMinute)
	}
	nb := provider.NewNearBlocks(cfg.NearblocksAPIKey, cfg.NearblocksBaseURL, limiter, nil)

	formula := rewards.FormulaByName(formulaName)
	formula.NearPriceUSD = cfg.NearPriceUSD

	return &pipeline{
		cfg:      cfg,
		offchain: offchain.NewController(gh),
		onchain:  onchain.NewController(nb),
		formula:  formula,
	}, nil
}

func addPeriodFlags(cmd *cobra.Command) {
	now := time.Now().UTC()
	cmd.Flags().Int("year", now.Year(), "Collection year")
	cmd.Flags().Int("month", int(now.Month()), "Collection month (1-12)")
}

func periodFromFlags(cmd *cobra.Command) (int, time.Month, error) {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %d", month)
	}
	return year, time.Month(month), nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "json", "Output format (json, markdown)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("formula", "cohort", "Scoring formula (cohort, legacy)")
}

func writeReport(cmd *cobra.Command, report model.Report) error {
	format, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("output")

	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return output.WriteJSON(w, report)
	case "markdown":
		return output.WriteMarkdown(w, report)
	default:
		return fmt.Errorf("unsupported format: %s (use json or markdown)", format)
	}
}

func newCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect and score a single project",
		RunE:  runCollect,
	}
	cmd.Flags().StringSlice("repo", nil, "Repository to collect (owner/name), repeatable")
	cmd.Flags().String("wallet", "", "NEAR account to collect")
	cmd.Flags().String("project", "", "Project name for the report (defaults to the wallet or first repo)")
	addPeriodFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	repos, _ := cmd.Flags().GetStringSlice("repo")
	wallet, _ := cmd.Flags().GetString("wallet")
	name, _ := cmd.Flags().GetString("project")
	if len(repos) == 0 && wallet == "" {
		return fmt.Errorf("provide at least one --repo or a --wallet")
	}
	if name == "" {
		if wallet != "" {
			name = wallet
		} else {
			name = repos[0]
		}
	}

	year, month, err := periodFromFlags(cmd)
	if err != nil {
		return err
	}
	formulaName, _ := cmd.Flags().GetString("formula")
	p, err := newPipeline(formulaName)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(p.offchain, p.onchain, p.formula)
	project := batch.Project{Name: name, Wallet: wallet, Repositories: repos}
	report, err := runner.Run(cmd.Context(), []batch.Project{project}, year, month)
	if err != nil {
		return err
	}
	return writeReport(cmd, *report)
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Collect and score a roster of projects from a JSON file",
		RunE:  runBatch,
	}
	cmd.Flags().String("projects", "", "Path to the projects JSON file")
	cmd.MarkFlagRequired("projects")
	addPeriodFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("projects")
	projects, err := batch.LoadProjects(path)
	if err != nil {
		return err
	}

	year, month, err := periodFromFlags(cmd)
	if err != nil {
		return err
	}
	formulaName, _ := cmd.Flags().GetString("formula")
	p, err := newPipeline(formulaName)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(p.offchain, p.onchain, p.formula)
	finish := attachProgress(runner, len(projects))

	report, runErr := runner.Run(cmd.Context(), projects, year, month)
	finish()
	if runErr != nil {
		// Partial results are still worth writing before failing.
		if report != nil {
			if werr := writeReport(cmd, *report); werr != nil {
				return werr
			}
		}
		return runErr
	}
	return writeReport(cmd, *report)
}

// attachProgress hooks a progress display onto the runner and returns a
// function that finalizes the display once the run ends.
func attachProgress(runner *batch.Runner, total int) func() {
	if !ui.IsTTY() {
		plain := ui.NewPlainProgress(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})
		runner.OnProject = func(index, _ int, name string) {
			plain.Update(index+1, total, name)
		}
		return func() { plain.Done(total) }
	}

	prog := ui.RunTUI(total)
	done := make(chan struct{})
	go func() {
		defer close(done)
		prog.Run()
	}()
	runner.OnProject = func(index, _ int, name string) {
		prog.Send(ui.ProgressMsg{Completed: index, Total: total, ProjectName: name})
	}
	return func() {
		prog.Send(ui.ProgressMsg{Completed: total, Total: total})
		prog.Send(ui.DoneMsg{})
		<-done
	}
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Probe the NearBlocks API and verify account data can be analyzed",
		RunE:  runValidate,
	}
	cmd.Flags().String("wallet", "", "NEAR account to probe")
	cmd.MarkFlagRequired("wallet")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	wallet, _ := cmd.Flags().GetString("wallet")

	p, err := newPipeline("")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	if err := p.onchain.ValidateDataStructure(ctx, wallet); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Account %s validated: API responses can be analyzed.\n", wallet)
	return nil
}
