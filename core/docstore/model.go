package docstore

import "time"

// IndexOwnerQR is the unique index that keeps qrId values unique per owner.
// NULL qr_id values (manual products) are not constrained.
const IndexOwnerQR = "idx_products_owner_qr"

// Document is one stored product. The product fields live in Data as a JSON
// object so that records written by older clients keep their original shape.
type Document struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID    string    `gorm:"column:user_id;type:varchar(128);not null;uniqueIndex:idx_products_owner_qr,priority:1"`
	QRID      *string   `gorm:"column:qr_id;type:varchar(255);uniqueIndex:idx_products_owner_qr,priority:2"`
	Data      string    `gorm:"column:data;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name used by Document to `products`.
func (Document) TableName() string {
	return "products"
}
