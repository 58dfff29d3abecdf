package reconcile

import (
	"context"
	"fmt"
	"time"
)

// BatchWriter persists a set of partial updates for one owner atomically.
type BatchWriter interface {
	BatchUpdate(ctx context.Context, owner string, updates []Update) error
}

// BuildPlan normalizes an owner's stored records and evaluates the expiry sweep.
// It does NOT write anything; use ApplyPlan for that.
func BuildPlan(owner string, records []Record, now time.Time) *SweepPlan {
	products := NormalizeAll(records, now)
	ev := Evaluate(products, now)

	return &SweepPlan{
		Owner:      owner,
		Evaluation: ev,
		Summary: SweepSummary{
			TotalItems:   len(ev.Products),
			ToExpire:     len(ev.Updates),
			SkippedNoID:  len(ev.Transitioned) - len(ev.Updates),
			ExpiringSoon: len(ev.ExpiringSoon),
			InvalidDates: ev.InvalidDates,
		},
		Planned: now,
	}
}

// ApplyPlan writes the plan's transitions as one batch.
// Returns the number of products written and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually write.
func ApplyPlan(ctx context.Context, writer BatchWriter, plan *SweepPlan, opts Options) (int, error) {
	// Safety check: do not write if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	if plan == nil || len(plan.Evaluation.Updates) == 0 {
		return 0, nil
	}

	if err := writer.BatchUpdate(ctx, plan.Owner, plan.Evaluation.Updates); err != nil {
		return 0, fmt.Errorf("failed to apply expiry sweep for %s: %w", plan.Owner, err)
	}
	return len(plan.Evaluation.Updates), nil
}
