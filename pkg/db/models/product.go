package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one tracked inventory item, always owned by exactly one user.
type Product struct {
	ID       uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID  uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index"`
	Name     string          `gorm:"column:name;not null"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity int             `gorm:"column:quantity;not null;default:0"`
	ImageURL string          `gorm:"column:image_url;not null"`
	// Version backs the compare-and-swap on quantity writes; every
	// successful update increments it.
	Version   int       `gorm:"column:version;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
