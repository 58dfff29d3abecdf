package reconcile

import (
	"sort"
	"strings"
	"time"

	"inventory-tracker/core/utils"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ScanPayload is the decoded content of a product QR code. Every field is optional.
type ScanPayload struct {
	QRID              *string `json:"qrId,omitempty"`
	ProductName       *string `json:"productName,omitempty"`
	ExpiryDate        *string `json:"expiryDate,omitempty"`
	Ingredients       *string `json:"ingredients,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	ManufacturingDate *string `json:"manufacturingDate,omitempty"`
	ManufactureDate   *string `json:"manufactureDate,omitempty"`
}

// ParseScanPayload decodes QR text. Anything but a JSON object is ErrInvalidPayload.
// Scalar field values of other JSON types are converted to strings; empty
// values are treated as absent.
func ParseScanPayload(text string) (ScanPayload, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &fields); err != nil || fields == nil {
		return ScanPayload{}, ErrInvalidPayload
	}

	pick := func(key string) *string {
		s, ok := utils.ToString(fields[key])
		if !ok || s == "" {
			return nil
		}
		return &s
	}

	return ScanPayload{
		QRID:              pick("qrId"),
		ProductName:       pick("productName"),
		ExpiryDate:        pick("expiryDate"),
		Ingredients:       pick("ingredients"),
		Notes:             pick("notes"),
		ManufacturingDate: pick("manufacturingDate"),
		ManufactureDate:   pick("manufactureDate"),
	}, nil
}

// Operation is the kind of write a merge decision asks for.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
)

// Decision is the write produced by Resolve.
type Decision struct {
	Op Operation `json:"op"`
	// Update holds the partial fields for OpUpdate.
	Update Update `json:"update,omitempty"`
	// Record holds the full document for OpInsert.
	Record Record `json:"record,omitempty"`
	// Product is the product as it will look after the write.
	Product Product `json:"product"`
	// Anomaly is set when several products of the owner share the scanned qrId.
	Anomaly bool `json:"anomaly"`
	// Matches is the number of candidate products considered.
	Matches int `json:"matches"`
}

// Resolve decides how a scan is merged into the owner's inventory.
//
// matches are the owner's products looked up by the payload's qrId. With a
// match, the decision is an update adding delta to the quantity and forcing
// StatusInUse; nothing else changes. Without one, it is an insert built from the
// payload with quantity delta. When several products match, the one with the
// smallest id is picked and Anomaly is set.
func Resolve(payload ScanPayload, delta int, matches []Product, owner string, now time.Time) (Decision, error) {
	if delta < 1 {
		return Decision{}, ErrInvalidQuantity
	}
	if owner == "" {
		return Decision{}, ErrMissingOwner
	}

	candidates := make([]Product, 0, len(matches))
	if payload.QRID != nil {
		for _, m := range matches {
			if m.ID == "" || m.QRValue() != *payload.QRID {
				continue
			}
			if m.UserID != "" && m.UserID != owner {
				continue
			}
			candidates = append(candidates, m)
		}
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].ID < candidates[j].ID
		})
		target := candidates[0].Clone()
		target.Quantity += delta
		target.Status = StatusInUse

		return Decision{
			Op: OpUpdate,
			Update: Update{
				ID: target.ID,
				Fields: map[string]any{
					FieldQuantity: target.Quantity,
					FieldStatus:   StatusInUse,
				},
			},
			Product: target,
			Anomaly: len(candidates) > 1,
			Matches: len(candidates),
		}, nil
	}

	p := Product{
		QRID:            cloneString(payload.QRID),
		ProductName:     DefaultProductName,
		ExpiryDate:      SafeDate(payload.ExpiryDate, now),
		ManufactureDate: strPtr(SafeDate(firstPtr(payload.ManufacturingDate, payload.ManufactureDate), now)),
		Ingredient:      cloneString(payload.Ingredients),
		Note:            cloneString(payload.Notes),
		Quantity:        delta,
		Status:          StatusInUse,
		UserID:          owner,
	}
	if payload.ProductName != nil && strings.TrimSpace(*payload.ProductName) != "" {
		p.ProductName = *payload.ProductName
	}

	return Decision{
		Op:      OpInsert,
		Record:  p.Record(),
		Product: p,
	}, nil
}

// SafeDate renders a payload date as an ISO timestamp in UTC. Missing or
// unparsable values become now.
func SafeDate(s *string, now time.Time) string {
	if s != nil {
		if t, ok := ParseDate(*s, time.UTC); ok {
			return t.UTC().Format(ISOLayout)
		}
	}
	return now.UTC().Format(ISOLayout)
}

// ManualEntry is a product typed in by hand.
type ManualEntry struct {
	ProductName     string `json:"productName"`
	Quantity        int    `json:"quantity"`
	ExpiryDate      string `json:"expiryDate"`
	ManufactureDate string `json:"manufactureDate,omitempty"`
	Ingredient      string `json:"ingredient,omitempty"`
	Note            string `json:"note,omitempty"`
}

// BuildManual validates a manual entry and returns the product to insert.
// Manual products never carry a qrId.
func BuildManual(entry ManualEntry, owner string, loc *time.Location) (Product, error) {
	if owner == "" {
		return Product{}, ErrMissingOwner
	}
	name := strings.TrimSpace(entry.ProductName)
	if len([]rune(name)) < 2 {
		return Product{}, ErrInvalidName
	}
	if entry.Quantity < 1 {
		return Product{}, ErrInvalidQuantity
	}
	expiry, ok := ParseDate(entry.ExpiryDate, loc)
	if !ok {
		return Product{}, ErrInvalidExpiry
	}

	p := Product{
		ProductName: name,
		ExpiryDate:  expiry.UTC().Format(ISOLayout),
		Quantity:    entry.Quantity,
		Status:      StatusInUse,
		UserID:      owner,
	}
	if mfg, ok := ParseDate(entry.ManufactureDate, loc); ok {
		p.ManufactureDate = strPtr(mfg.UTC().Format(ISOLayout))
	}
	if s := strings.TrimSpace(entry.Ingredient); s != "" {
		p.Ingredient = strPtr(s)
	}
	if s := strings.TrimSpace(entry.Note); s != "" {
		p.Note = strPtr(s)
	}
	return p, nil
}

func firstPtr(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
