package reconcile

import (
	"strings"
	"time"

	"inventory-tracker/core/utils"

	"github.com/mitchellh/mapstructure"
)

// rawRecord lists every key the normalizer understands, canonical and legacy.
// Values stay untyped so that one malformed field cannot spoil the others.
type rawRecord struct {
	ID                any `mapstructure:"id"`
	QRID              any `mapstructure:"qrId"`
	ProductName       any `mapstructure:"productName"`
	LegacyName        any `mapstructure:"productname"`
	ExpiryDate        any `mapstructure:"expiryDate"`
	LegacyExpiry      any `mapstructure:"expairy_date"`
	ManufactureDate   any `mapstructure:"manufactureDate"`
	LegacyManufacture any `mapstructure:"manufacture_date"`
	ManufacturingDate any `mapstructure:"manufacturingDate"`
	Ingredient        any `mapstructure:"ingredient"`
	Ingredients       any `mapstructure:"ingredients"`
	Note              any `mapstructure:"note"`
	Notes             any `mapstructure:"notes"`
	Quantity          any `mapstructure:"quantity"`
	Status            any `mapstructure:"status"`
	UserID            any `mapstructure:"userId"`
}

// Normalize turns a stored record into a canonical product. It never fails:
// each field that cannot be recovered falls back to its own default.
//
// Canonical names win over legacy aliases when both carry a value. Defaults are
// DefaultProductName, now (as an ISO timestamp) for a missing expiry, quantity 0
// and StatusInUse. Unknown keys are kept in Product.Extra.
func Normalize(record Record, now time.Time) Product {
	var raw rawRecord
	var md mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   &raw,
		TagName:  "mapstructure",
		// Legacy keys differ from canonical ones only by case, so matching must be exact.
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err == nil && record != nil {
		if decodeErr := decoder.Decode(record); decodeErr != nil {
			raw = rawRecord{}
			md = mapstructure.Metadata{}
		}
	}

	p := Product{
		ProductName: DefaultProductName,
		Status:      StatusInUse,
	}

	if id, ok := nonEmptyString(raw.ID); ok {
		p.ID = id
	}
	if qr, ok := nonEmptyString(raw.QRID); ok {
		p.QRID = strPtr(qr)
	}
	if name, ok := firstNonBlank(raw.ProductName, raw.LegacyName); ok {
		p.ProductName = name
	}
	if expiry, ok := firstDate(raw.ExpiryDate, raw.LegacyExpiry); ok {
		p.ExpiryDate = expiry
	} else {
		p.ExpiryDate = now.UTC().Format(ISOLayout)
	}
	if mfg, ok := firstDate(raw.ManufactureDate, raw.LegacyManufacture, raw.ManufacturingDate); ok {
		p.ManufactureDate = strPtr(mfg)
	}
	if ingredient, ok := firstNonBlank(raw.Ingredient, raw.Ingredients); ok {
		p.Ingredient = strPtr(ingredient)
	}
	if note, ok := firstNonBlank(raw.Note, raw.Notes); ok {
		p.Note = strPtr(note)
	}
	p.Quantity = utils.ToNonNegativeInt(raw.Quantity)
	if status, ok := nonEmptyString(raw.Status); ok {
		p.Status = status
	}
	if owner, ok := nonEmptyString(raw.UserID); ok {
		p.UserID = owner
	}

	if len(md.Unused) > 0 {
		p.Extra = make(map[string]any, len(md.Unused))
		for _, key := range md.Unused {
			p.Extra[key] = record[key]
		}
	}

	return p
}

// NormalizeAll normalizes every record of a snapshot, preserving order.
func NormalizeAll(records []Record, now time.Time) []Product {
	out := make([]Product, 0, len(records))
	for _, r := range records {
		out = append(out, Normalize(r, now))
	}
	return out
}

func nonEmptyString(v any) (string, bool) {
	s, ok := utils.ToString(v)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func firstNonBlank(values ...any) (string, bool) {
	for _, v := range values {
		if s, ok := nonEmptyString(v); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// firstDate returns the first usable date value. Strings are kept verbatim so
// unparsable dates survive for display; time values are rendered as ISO timestamps.
func firstDate(values ...any) (string, bool) {
	for _, v := range values {
		switch d := v.(type) {
		case time.Time:
			if !d.IsZero() {
				return d.UTC().Format(ISOLayout), true
			}
		case string:
			if strings.TrimSpace(d) != "" {
				return d, true
			}
		}
	}
	return "", false
}
