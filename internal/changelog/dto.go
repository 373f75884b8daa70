package changelog

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// EntryDTO is the wire shape of one change log entry. The quantity pair is
// always present; for renames and reprices it carries the product's quantity
// at the time of the event in both fields.
type EntryDTO struct {
	ID               uuid.UUID  `json:"id"`
	ProductID        *uuid.UUID `json:"productId,omitempty"`
	ItemName         string     `json:"itemName"`
	PreviousQuantity int        `json:"previousQuantity"`
	NewQuantity      int        `json:"newQuantity"`
	Action           string     `json:"action"`
	OldValue         *string    `json:"oldValue,omitempty"`
	NewValue         *string    `json:"newValue,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func FromModel(e *models.ChangeLogEntry) *EntryDTO {
	if e == nil {
		return nil
	}
	return &EntryDTO{
		ID:               e.ID,
		ProductID:        e.ProductID,
		ItemName:         e.ItemName,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		Action:           e.Action.String(),
		OldValue:         e.OldValue,
		NewValue:         e.NewValue,
		CreatedAt:        e.CreatedAt,
	}
}

func FromModels(entries []models.ChangeLogEntry) []EntryDTO {
	out := make([]EntryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, *FromModel(&entries[i]))
	}
	return out
}
