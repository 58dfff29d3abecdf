package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"inventory-tracker/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sweepOwner  string
	sweepDryRun bool
	yesConfirm  bool
)

// sweepCmd runs the expiry sweep outside the server.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark products past their expiry date as expired",
	Long: `Plans the expiry sweep for one owner (or every owner), prints the report and
writes the status changes after confirmation.

Examples:
  # Report only
  sweep --dry-run

  # Sweep one owner with interactive confirmation
  sweep --owner user-1

  # Sweep everyone without prompting
  sweep --yes`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepOwner, "owner", "", "Only sweep this owner")
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "Print the plan without writing")
	sweepCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes (non-interactive)")

	RootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()
	l := env.logger

	owners := []string{sweepOwner}
	if sweepOwner == "" {
		if owners, err = env.store.Owners(ctx); err != nil {
			return fmt.Errorf("failed to list owners: %w", err)
		}
	}
	if len(owners) == 0 {
		l.Info("No owners found. Nothing to sweep.")
		return nil
	}

	// Step 1: Plan (always runs)
	l.Info("Planning expiry sweep...", zap.Int("owners", len(owners)))
	pending := 0
	for _, owner := range owners {
		res, err := env.inventory.Sweep(ctx, owner, reconcile.Options{DryRun: true})
		if err != nil {
			return fmt.Errorf("failed to plan sweep for %s: %w", owner, err)
		}
		printSweepReport(l, res.Plan)
		pending += res.Plan.Summary.ToExpire
	}

	if sweepDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if pending == 0 {
		l.Info("No products need to be expired.")
		return nil
	}

	// Step 2: Apply (if confirmed)
	if !confirmAction(fmt.Sprintf("expire %d products", pending)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	written := 0
	for _, owner := range owners {
		res, err := env.inventory.Sweep(ctx, owner, reconcile.Options{Confirmed: true})
		if err != nil {
			return fmt.Errorf("failed to apply sweep for %s: %w", owner, err)
		}
		written += res.Written
	}

	l.Info("Successfully expired products", zap.Int("count", written))
	return nil
}

// printSweepReport logs the summary and a sample of the planned updates.
func printSweepReport(l *zap.Logger, plan *reconcile.SweepPlan) {
	s := plan.Summary

	l.Info("Sweep report",
		zap.String("user_id", plan.Owner),
		zap.Int("total_items", s.TotalItems),
		zap.Int("to_expire", s.ToExpire),
		zap.Int("skipped_no_id", s.SkippedNoID),
		zap.Int("expiring_soon", s.ExpiringSoon),
		zap.Int("invalid_dates", s.InvalidDates),
	)

	maxShow := min(5, len(plan.Evaluation.Transitioned))
	for _, p := range plan.Evaluation.Transitioned[:maxShow] {
		l.Info("Will expire",
			zap.String("id", p.ID),
			zap.String("product", p.ProductName),
			zap.String("expiry", p.ExpiryDate),
		)
	}
	if extra := len(plan.Evaluation.Transitioned) - maxShow; extra > 0 {
		l.Info("Additional products not shown", zap.Int("count", extra))
	}
}

// confirmAction prompts the user for confirmation or uses the --yes flag.
func confirmAction(what string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to %s: ", what)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
