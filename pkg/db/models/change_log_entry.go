package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// ChangeLogEntry is an append-only record of an inventory-affecting event.
// Rows are never updated; they are deleted only in bulk per owner.
// ItemName is a snapshot, not a live reference, so entries survive product
// deletion. ProductID is nullable because early schema versions omit it.
type ChangeLogEntry struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID          uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index"`
	ProductID        *uuid.UUID         `gorm:"column:product_id;type:uuid"`
	ItemName         string             `gorm:"column:item_name;not null"`
	PreviousQuantity int                `gorm:"column:previous_quantity;not null"`
	NewQuantity      int                `gorm:"column:new_quantity;not null"`
	Action           enums.ChangeAction `gorm:"column:action;not null"`
	OldValue         *string            `gorm:"column:old_value"`
	NewValue         *string            `gorm:"column:new_value"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
}
