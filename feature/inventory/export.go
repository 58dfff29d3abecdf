package inventory

import (
	"context"
	"fmt"
	"strconv"

	"inventory-tracker/core/reconcile"

	"github.com/gocarina/gocsv"
)

// exportRow is one CSV line of an inventory export.
type exportRow struct {
	ID              string `csv:"id"`
	QRID            string `csv:"qr_id"`
	ProductName     string `csv:"product_name"`
	ExpiryDate      string `csv:"expiry_date"`
	ManufactureDate string `csv:"manufacture_date"`
	Ingredient      string `csv:"ingredient"`
	Note            string `csv:"note"`
	Quantity        int    `csv:"quantity"`
	Status          string `csv:"status"`
	Badge           string `csv:"badge"`
	DaysLeft        string `csv:"days_left"`
}

// Export renders the owner's view as CSV.
func (s *Service) Export(ctx context.Context, owner string, q reconcile.Query) ([]byte, error) {
	rows, err := s.View(ctx, owner, q)
	if err != nil {
		return nil, err
	}

	out := make([]*exportRow, 0, len(rows))
	for _, r := range rows {
		row := &exportRow{
			ID:              r.ID,
			QRID:            r.QRValue(),
			ProductName:     r.ProductName,
			ExpiryDate:      r.ExpiryDate,
			ManufactureDate: deref(r.ManufactureDate),
			Ingredient:      deref(r.Ingredient),
			Note:            deref(r.Note),
			Quantity:        r.Quantity,
			Status:          r.Status,
		}
		if r.Badge != nil {
			row.Badge = string(r.Badge.Level)
			row.DaysLeft = strconv.Itoa(r.Badge.Days)
		}
		out = append(out, row)
	}

	data, err := gocsv.MarshalBytes(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
