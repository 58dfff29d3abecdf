package reconcile

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ExpiringSoonDays is the inclusive upper bound of the expiring-soon window.
const ExpiringSoonDays = 2

// ParseDate parses a stored date string in loc. Date-only values resolve to
// midnight in loc; values carrying an offset or a Z suffix keep it.
// RFC 3339 timestamps (including ISOLayout) are parsed strictly first, since
// dateparse reads fractional-second UTC values as local to loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the number of full days from today to expiry, truncated
// toward zero. Both are compared in today's location.
func DaysUntil(expiry, today time.Time) int {
	expiry = expiry.In(today.Location())

	sign := expiry.Compare(today)
	if sign == 0 {
		return 0
	}

	diff := calendarDays(expiry, today)
	if diff < 0 {
		diff = -diff
	}

	// Step back by whole calendar days and check whether the last day is complete.
	shifted := expiry.AddDate(0, 0, -sign*diff)
	if shifted.Compare(today) == -sign {
		diff--
	}
	return sign * diff
}

func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(da.Sub(db).Hours() / 24)
}

// Evaluate applies the automatic expiry transition to every product and
// computes the expiring-soon set. today may be any instant of the current day;
// its location decides where the day starts.
//
// Only products in StatusInUse whose expiry falls strictly before the start of
// today move to StatusExpired. Products with unparsable expiry dates are left
// alone. The input slice is not modified.
func Evaluate(products []Product, today time.Time) Evaluation {
	start := StartOfDay(today)
	loc := today.Location()

	ev := Evaluation{
		Products:     make([]Product, 0, len(products)),
		Transitioned: []Product{},
		Updates:      []Update{},
		ExpiringSoon: []Product{},
	}

	for _, in := range products {
		p := in.Clone()

		expiry, ok := ParseDate(p.ExpiryDate, loc)
		if !ok {
			ev.InvalidDates++
			ev.Products = append(ev.Products, p)
			continue
		}

		if p.Status == StatusInUse && expiry.Before(start) {
			p.Status = StatusExpired
			ev.Transitioned = append(ev.Transitioned, p)
			if p.ID != "" {
				ev.Updates = append(ev.Updates, Update{
					ID:     p.ID,
					Fields: map[string]any{FieldStatus: StatusExpired},
				})
			}
		}

		if p.Status != StatusUsed && p.Status != StatusExpired {
			if days := DaysUntil(expiry, start); days >= 0 && days <= ExpiringSoonDays {
				ev.ExpiringSoon = append(ev.ExpiringSoon, p)
			}
		}

		ev.Products = append(ev.Products, p)
	}

	return ev
}

// ExpiryBadge grades a product by days until expiry. It returns false for used
// products and unparsable dates.
func ExpiryBadge(p Product, today time.Time) (Badge, bool) {
	if p.Status == StatusUsed {
		return Badge{}, false
	}
	expiry, ok := ParseDate(p.ExpiryDate, today.Location())
	if !ok {
		return Badge{}, false
	}

	days := DaysUntil(expiry, StartOfDay(today))
	switch {
	case days < 0:
		return Badge{Level: BadgeExpired, Days: days}, true
	case days <= 7:
		return Badge{Level: BadgeCritical, Days: days}, true
	case days <= 30:
		return Badge{Level: BadgeWarning, Days: days}, true
	default:
		return Badge{Level: BadgeOK, Days: days}, true
	}
}
