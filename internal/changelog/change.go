package changelog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// Change is one inventory-affecting event. Each variant carries only the
// fields that are meaningful for its action; the shared row shape with its
// filler quantity pair exists only at the storage boundary, produced by
// Flatten.
type Change interface {
	Action() enums.ChangeAction
	// Flatten produces the persisted row for this change. ItemName is the
	// product name at the time of the event; the row keeps it as a snapshot
	// so history survives deletion.
	Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry
}

// strPtr gives the nullable value columns an address to a fresh copy.
func strPtr(s string) *string { return &s }

// Created records the initial quantity of a new product.
type Created struct {
	NewQuantity int
}

func (c Created) Action() enums.ChangeAction { return enums.ChangeActionCreated }

func (c Created) Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        productID,
		ItemName:         itemName,
		PreviousQuantity: 0,
		NewQuantity:      c.NewQuantity,
		Action:           c.Action(),
	}
}

// Restocked records a quantity increase.
type Restocked struct {
	From int
	To   int
}

func (c Restocked) Action() enums.ChangeAction { return enums.ChangeActionRestocked }

func (c Restocked) Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        productID,
		ItemName:         itemName,
		PreviousQuantity: c.From,
		NewQuantity:      c.To,
		Action:           c.Action(),
	}
}

// Sold records a quantity decrease. A decrease to zero is still Sold; only
// explicit deletion produces Deleted.
type Sold struct {
	From int
	To   int
}

func (c Sold) Action() enums.ChangeAction { return enums.ChangeActionSold }

func (c Sold) Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        productID,
		ItemName:         itemName,
		PreviousQuantity: c.From,
		NewQuantity:      c.To,
		Action:           c.Action(),
	}
}

// Deleted records removal of a product and the quantity it held.
type Deleted struct {
	From int
}

func (c Deleted) Action() enums.ChangeAction { return enums.ChangeActionDeleted }

func (c Deleted) Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        productID,
		ItemName:         itemName,
		PreviousQuantity: c.From,
		NewQuantity:      0,
		Action:           c.Action(),
	}
}

// Renamed records a name change. Quantity is the product's quantity at the
// time of the rename; the row shape requires a quantity pair, so Flatten
// writes it to both columns.
type Renamed struct {
	From     string
	To       string
	Quantity int
}

func (c Renamed) Action() enums.ChangeAction { return enums.ChangeActionRenamed }

func (c Renamed) Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        productID,
		ItemName:         itemName,
		PreviousQuantity: c.Quantity,
		NewQuantity:      c.Quantity,
		Action:           c.Action(),
		OldValue:         strPtr(c.From),
		NewValue:         strPtr(c.To),
	}
}

// Repriced records a price change.
type Repriced struct {
	From     decimal.Decimal
	To       decimal.Decimal
	Quantity int
}

func (c Repriced) Action() enums.ChangeAction { return enums.ChangeActionNewPrice }

func (c Repriced) Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        productID,
		ItemName:         itemName,
		PreviousQuantity: c.Quantity,
		NewQuantity:      c.Quantity,
		Action:           c.Action(),
		OldValue:         strPtr(c.From.String()),
		NewValue:         strPtr(c.To.String()),
	}
}

// ImageChanged records an image swap. Only produced when image auditing is
// enabled.
type ImageChanged struct {
	From     string
	To       string
	Quantity int
}

func (c ImageChanged) Action() enums.ChangeAction { return enums.ChangeActionImageChanged }

func (c ImageChanged) Flatten(ownerID uuid.UUID, productID *uuid.UUID, itemName string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        productID,
		ItemName:         itemName,
		PreviousQuantity: c.Quantity,
		NewQuantity:      c.Quantity,
		Action:           c.Action(),
		OldValue:         strPtr(c.From),
		NewValue:         strPtr(c.To),
	}
}
