package reconcile

import (
	"errors"
	"time"
)

// Product statuses recognized by the lifecycle rules. Other values are carried
// through untouched.
const (
	StatusInUse   = "in use"
	StatusUsed    = "used"
	StatusExpired = "expired"
)

// StatusAll is the view filter that matches every status.
const StatusAll = "all"

// DefaultProductName is used whenever a record has no usable name.
const DefaultProductName = "Unnamed Product"

// ISOLayout is the timestamp format written for generated dates (millisecond precision, UTC).
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Canonical document field names.
const (
	FieldID              = "id"
	FieldQRID            = "qrId"
	FieldProductName     = "productName"
	FieldExpiryDate      = "expiryDate"
	FieldManufactureDate = "manufactureDate"
	FieldIngredient      = "ingredient"
	FieldNote            = "note"
	FieldQuantity        = "quantity"
	FieldStatus          = "status"
	FieldUserID          = "userId"
)

var (
	// ErrInvalidQuantity is returned when a write asks for fewer than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidPayload is returned for scan payloads that are not a JSON object.
	ErrInvalidPayload = errors.New("invalid scan payload")
	// ErrMissingOwner is returned for writes without an owner.
	ErrMissingOwner = errors.New("owner is required")
	// ErrInvalidName is returned for manual entries with a name shorter than two characters.
	ErrInvalidName = errors.New("product name must be at least 2 characters")
	// ErrInvalidExpiry is returned for manual entries without a parseable expiry date.
	ErrInvalidExpiry = errors.New("a valid expiry date is required")
)

// Record is a loosely typed stored document.
type Record = map[string]any

// Product is the canonical inventory item.
type Product struct {
	ID              string  `json:"id,omitempty"`
	QRID            *string `json:"qrId"`
	ProductName     string  `json:"productName"`
	ExpiryDate      string  `json:"expiryDate"`
	ManufactureDate *string `json:"manufactureDate"`
	Ingredient      *string `json:"ingredient"`
	Note            *string `json:"note"`
	Quantity        int     `json:"quantity"`
	Status          string  `json:"status"`
	UserID          string  `json:"userId,omitempty"`

	// Extra holds stored fields this version does not know about.
	Extra map[string]any `json:"-"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Product) Clone() Product {
	c := p
	c.QRID = cloneString(p.QRID)
	c.ManufactureDate = cloneString(p.ManufactureDate)
	c.Ingredient = cloneString(p.Ingredient)
	c.Note = cloneString(p.Note)
	if p.Extra != nil {
		c.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Record renders the product as a storage document. The id is not part of the
// document body; unknown fields are written back unchanged.
func (p Product) Record() Record {
	r := make(Record, len(p.Extra)+9)
	for k, v := range p.Extra {
		r[k] = v
	}
	r[FieldQRID] = stringOrNil(p.QRID)
	r[FieldProductName] = p.ProductName
	r[FieldExpiryDate] = p.ExpiryDate
	r[FieldManufactureDate] = stringOrNil(p.ManufactureDate)
	r[FieldIngredient] = stringOrNil(p.Ingredient)
	r[FieldNote] = stringOrNil(p.Note)
	r[FieldQuantity] = p.Quantity
	r[FieldStatus] = p.Status
	r[FieldUserID] = p.UserID
	return r
}

// QRValue returns the QR identifier or "".
func (p Product) QRValue() string {
	if p.QRID == nil {
		return ""
	}
	return *p.QRID
}

// Update is a partial field update for one stored document.
type Update struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Evaluation is the outcome of a lifecycle pass over an inventory.
type Evaluation struct {
	// Products is the full set with automatic transitions applied.
	Products []Product `json:"products"`
	// Transitioned lists products moved to expired in this pass, with or without an id.
	Transitioned []Product `json:"transitioned"`
	// Updates is the persistence batch for transitioned products that have an id.
	Updates []Update `json:"updates"`
	// ExpiringSoon lists products expiring within the alert window.
	ExpiringSoon []Product `json:"expiring_soon"`
	// InvalidDates counts products whose expiry could not be parsed.
	InvalidDates int `json:"invalid_dates"`
}

// Query selects and filters a view of the inventory.
type Query struct {
	// Search is matched case-insensitively against the product name.
	Search string
	// Status is StatusAll (or empty) or an exact status.
	Status string
}

// BadgeLevel grades how close a product is to its expiry.
type BadgeLevel string

const (
	BadgeExpired  BadgeLevel = "expired"
	BadgeCritical BadgeLevel = "critical"
	BadgeWarning  BadgeLevel = "warning"
	BadgeOK       BadgeLevel = "ok"
)

// Badge is the expiry indicator shown next to a product.
type Badge struct {
	Level BadgeLevel `json:"level"`
	Days  int        `json:"days"`
}

// SweepPlan is the planned expiry sweep for one owner.
type SweepPlan struct {
	Owner      string       `json:"owner"`
	Evaluation Evaluation   `json:"evaluation"`
	Summary    SweepSummary `json:"summary"`
	Planned    time.Time    `json:"planned"`
}

// SweepSummary provides aggregate counts for a sweep plan.
type SweepSummary struct {
	// TotalItems is the number of products evaluated.
	TotalItems int `json:"total_items"`
	// ToExpire counts products that will be persisted as expired.
	ToExpire int `json:"to_expire"`
	// SkippedNoID counts transitions that cannot be persisted because the product has no id.
	SkippedNoID int `json:"skipped_no_id"`
	// ExpiringSoon counts products inside the alert window.
	ExpiringSoon int `json:"expiring_soon"`
	// InvalidDates counts products with unparsable expiry dates.
	InvalidDates int `json:"invalid_dates"`
}

// Options controls whether a sweep plan is written.
type Options struct {
	// DryRun prevents any write if true.
	DryRun bool

	// Confirmed indicates the caller accepted the plan.
	// If false, nothing is written regardless of DryRun.
	Confirmed bool
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
