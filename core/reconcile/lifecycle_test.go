package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_LegacyScenario(t *testing.T) {
	products := NormalizeAll([]Record{
		{"id": "doc-1", "productname": "Milk", "expairy_date": "2024-01-01", "quantity": 2},
	}, fixedNow)

	ev := Evaluate(products, fixedNow)

	require.Len(t, ev.Products, 1)
	assert.Equal(t, StatusExpired, ev.Products[0].Status)
	assert.Equal(t, []Update{{ID: "doc-1", Fields: map[string]any{FieldStatus: StatusExpired}}}, ev.Updates)
	assert.Len(t, ev.Transitioned, 1)

	// The input is not modified
	assert.Equal(t, StatusInUse, products[0].Status)
}

func TestEvaluate_Transitions(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	products := []Product{
		{ID: "a", ProductName: "Past in use", ExpiryDate: "2024-06-09", Status: StatusInUse},
		{ID: "b", ProductName: "Past used", ExpiryDate: "2024-06-01", Status: StatusUsed},
		{ID: "c", ProductName: "Past expired", ExpiryDate: "2024-06-01", Status: StatusExpired},
		{ID: "d", ProductName: "Today", ExpiryDate: "2024-06-10", Status: StatusInUse},
		{ID: "e", ProductName: "Broken", ExpiryDate: "not a date", Status: StatusInUse},
		{ProductName: "No id", ExpiryDate: "2024-01-01", Status: StatusInUse},
		{ID: "f", ProductName: "Custom status", ExpiryDate: "2024-01-01", Status: "opened"},
	}

	ev := Evaluate(products, today)

	statuses := map[string]string{}
	for _, p := range ev.Products {
		statuses[p.ProductName] = p.Status
	}
	assert.Equal(t, StatusExpired, statuses["Past in use"])
	assert.Equal(t, StatusUsed, statuses["Past used"])
	assert.Equal(t, StatusExpired, statuses["Past expired"])
	assert.Equal(t, StatusInUse, statuses["Today"])
	assert.Equal(t, StatusInUse, statuses["Broken"])
	assert.Equal(t, StatusExpired, statuses["No id"])
	assert.Equal(t, "opened", statuses["Custom status"])

	// Only products with an id are persisted, and already-final products are never re-flagged
	require.Len(t, ev.Updates, 1)
	assert.Equal(t, "a", ev.Updates[0].ID)
	assert.Len(t, ev.Transitioned, 2)
	assert.Equal(t, 1, ev.InvalidDates)
}

func TestEvaluate_ExpiringSoonWindow(t *testing.T) {
	today := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	products := []Product{
		{ID: "0", ProductName: "today", ExpiryDate: "2024-06-10", Status: StatusInUse},
		{ID: "1", ProductName: "tomorrow", ExpiryDate: "2024-06-11", Status: StatusInUse},
		{ID: "2", ProductName: "two days", ExpiryDate: "2024-06-12T23:59:00Z", Status: StatusInUse},
		{ID: "3", ProductName: "three days", ExpiryDate: "2024-06-13", Status: StatusInUse},
		{ID: "4", ProductName: "used", ExpiryDate: "2024-06-11", Status: StatusUsed},
		{ID: "5", ProductName: "custom", ExpiryDate: "2024-06-11", Status: "opened"},
		{ID: "6", ProductName: "gone", ExpiryDate: "2024-06-01", Status: StatusInUse},
	}

	ev := Evaluate(products, today)

	var names []string
	for _, p := range ev.ExpiringSoon {
		names = append(names, p.ProductName)
	}
	assert.Equal(t, []string{"today", "tomorrow", "two days", "custom"}, names)

	// Idempotent on the same date
	again := Evaluate(ev.Products, today)
	assert.Equal(t, ev.ExpiringSoon, again.ExpiringSoon)
	assert.Empty(t, again.Updates)
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"Same instant", today, 0},
		{"Later today", today.Add(10 * time.Hour), 0},
		{"Two days and change", time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC), 2},
		{"Exactly two days", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 2},
		{"Partial day before", time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC), 0},
		{"Full day before", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), -1},
		{"Month ahead", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.expiry, today))
		})
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	d, ok := ParseDate("2024-03-01", loc)
	require.True(t, ok)
	assert.True(t, d.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)))

	d, ok = ParseDate("2030-01-01T00:00:00.000Z", loc)
	require.True(t, ok)
	assert.True(t, d.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, ok = ParseDate("", loc)
	assert.False(t, ok)
	_, ok = ParseDate("definitely not a date", loc)
	assert.False(t, ok)
}

func TestExpiryBadge(t *testing.T) {
	today := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		p      Product
		want   Badge
		wantOK bool
	}{
		{"Expired", Product{ExpiryDate: "2023-12-25", Status: StatusInUse}, Badge{Level: BadgeExpired, Days: -7}, true},
		{"Critical", Product{ExpiryDate: "2024-01-08", Status: StatusInUse}, Badge{Level: BadgeCritical, Days: 7}, true},
		{"Warning", Product{ExpiryDate: "2024-01-31", Status: StatusInUse}, Badge{Level: BadgeWarning, Days: 30}, true},
		{"OK", Product{ExpiryDate: "2024-02-01", Status: StatusExpired}, Badge{Level: BadgeOK, Days: 31}, true},
		{"Used", Product{ExpiryDate: "2024-01-02", Status: StatusUsed}, Badge{}, false},
		{"Unparsable", Product{ExpiryDate: "soon", Status: StatusInUse}, Badge{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExpiryBadge(tt.p, today)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_KeepsUTCSuffixInAnyZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	want := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{"2030-01-01T00:00:00.000Z", "2030-01-01T00:00:00Z", "2030-01-01T09:00:00.000+09:00"} {
		got, ok := ParseDate(s, ny)
		require.True(t, ok, s)
		assert.True(t, got.Equal(want), "%s parsed as %s", s, got)
	}
}

func TestLifecycle_NonUTCZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	p, err := BuildManual(ManualEntry{ProductName: "Miso", Quantity: 1, ExpiryDate: "2030-01-01"}, "user-1", tokyo)
	require.NoError(t, err)
	assert.Equal(t, "2029-12-31T15:00:00.000Z", p.ExpiryDate)
	p.ID = "doc-1"

	t.Run("NotExpiredOnExpiryDay", func(t *testing.T) {
		ev := Evaluate([]Product{p}, time.Date(2030, 1, 1, 10, 0, 0, 0, tokyo))
		assert.Equal(t, StatusInUse, ev.Products[0].Status)
		assert.Empty(t, ev.Updates)
		assert.Len(t, ev.ExpiringSoon, 1)
	})

	t.Run("ExpiredNextDay", func(t *testing.T) {
		ev := Evaluate([]Product{p}, time.Date(2030, 1, 2, 0, 30, 0, 0, tokyo))
		assert.Equal(t, StatusExpired, ev.Products[0].Status)
		assert.Len(t, ev.Updates, 1)
	})

	t.Run("BadgeDayBefore", func(t *testing.T) {
		b, ok := ExpiryBadge(p, time.Date(2029, 12, 31, 12, 0, 0, 0, tokyo))
		require.True(t, ok)
		assert.Equal(t, Badge{Level: BadgeCritical, Days: 1}, b)
	})

	t.Run("DefaultedExpiryIsNotExpired", func(t *testing.T) {
		now := time.Date(2030, 1, 1, 8, 0, 0, 0, tokyo)
		defaulted := Normalize(Record{"id": "doc-2", "productName": "No date"}, now)

		ev := Evaluate([]Product{defaulted}, now)
		assert.Equal(t, StatusInUse, ev.Products[0].Status)
		assert.Empty(t, ev.Updates)
	})
}
