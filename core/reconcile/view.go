package reconcile

import (
	"sort"
	"strings"
	"time"
)

// Project filters and orders products for display. It never modifies its input.
//
// A blank search matches everything, otherwise the lowercased search must be a
// substring of the lowercased name. Results are ordered by expiry ascending;
// unparsable expiry dates sort as the Unix epoch. Equal keys keep input order.
func Project(products []Product, q Query, loc *time.Location) []Product {
	search := strings.ToLower(q.Search)
	matchAll := strings.TrimSpace(q.Search) == ""
	status := q.Status
	if status == "" {
		status = StatusAll
	}

	type keyed struct {
		p   Product
		key int64
	}

	rows := make([]keyed, 0, len(products))
	for _, p := range products {
		if !matchAll && !strings.Contains(strings.ToLower(p.ProductName), search) {
			continue
		}
		if status != StatusAll && p.Status != status {
			continue
		}

		var key int64
		if t, ok := ParseDate(p.ExpiryDate, loc); ok {
			key = t.UnixMilli()
		}
		rows = append(rows, keyed{p: p.Clone(), key: key})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].key < rows[j].key
	})

	out := make([]Product, len(rows))
	for i, r := range rows {
		out[i] = r.p
	}
	return out
}
