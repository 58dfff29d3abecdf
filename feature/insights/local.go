package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-tracker/core/reconcile"

	"github.com/montanaflynn/stats"
)

// LocalGenerator builds the insight document from fixed rules, without a model.
type LocalGenerator struct{}

// NewLocalGenerator creates a local generator.
func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

// Generate lists products expiring within 30 days and products with quantity 5
// or less, then summarizes stock levels.
func (g *LocalGenerator) Generate(_ context.Context, products []reconcile.Product, today time.Time) (string, error) {
	start := reconcile.StartOfDay(today)

	var expiring, low []string
	var quantities, daysLeft stats.Float64Data
	counts := map[string]int{}

	for _, p := range products {
		counts[p.Status]++
		quantities = append(quantities, float64(p.Quantity))

		if p.Quantity <= LowStockQuantity {
			low = append(low, fmt.Sprintf("- %s: %d left", p.ProductName, p.Quantity))
		}

		if p.Status == reconcile.StatusUsed {
			continue
		}
		expiry, ok := reconcile.ParseDate(p.ExpiryDate, today.Location())
		if !ok {
			continue
		}
		days := reconcile.DaysUntil(expiry, start)
		if days >= 0 {
			daysLeft = append(daysLeft, float64(days))
		}
		if days >= 0 && days <= ExpiryHorizonDays {
			expiring = append(expiring, fmt.Sprintf("- %s: expires %s", p.ProductName, expiry.Format("2006-01-02")))
		}
	}

	var b strings.Builder
	b.WriteString("### Expiring Soon\n")
	writeList(&b, expiring, "No items are expiring soon.")
	b.WriteString("\n### Low Stock\n")
	writeList(&b, low, "No items are low in stock.")
	b.WriteString("\n### Overall Summary\n")
	b.WriteString(summary(len(products), counts, quantities, daysLeft))
	b.WriteString("\n")
	return b.String(), nil
}

func writeList(b *strings.Builder, lines []string, empty string) {
	if len(lines) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
}

func summary(total int, counts map[string]int, quantities, daysLeft stats.Float64Data) string {
	s := fmt.Sprintf("You track %d products: %d in use, %d used and %d expired.",
		total, counts[reconcile.StatusInUse], counts[reconcile.StatusUsed], counts[reconcile.StatusExpired])

	if sum, err := quantities.Sum(); err == nil {
		mean, _ := quantities.Mean()
		s += fmt.Sprintf(" There are %.0f units in stock, %.1f per product on average.", sum, mean)
	}
	if median, err := daysLeft.Median(); err == nil {
		s += fmt.Sprintf(" Half of the unexpired products expire within %.0f days.", median)
	}
	return s
}
