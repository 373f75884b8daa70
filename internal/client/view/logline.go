package view

import (
	"fmt"

	"github.com/stockroomhq/stockroom-backend/internal/changelog"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// FormatLogLine renders one history entry for display. The engine's action
// is authoritative: a quantity drop to zero renders as a sale, never as a
// deletion.
func FormatLogLine(entry changelog.EntryDTO, currency string) string {
	switch entry.Action {
	case enums.ChangeActionCreated.String():
		return fmt.Sprintf("Added %s with %d in stock", entry.ItemName, entry.NewQuantity)
	case enums.ChangeActionRestocked.String():
		return fmt.Sprintf("Restocked %s from %d to %d", entry.ItemName, entry.PreviousQuantity, entry.NewQuantity)
	case enums.ChangeActionSold.String():
		return fmt.Sprintf("Sold %s down from %d to %d", entry.ItemName, entry.PreviousQuantity, entry.NewQuantity)
	case enums.ChangeActionDeleted.String():
		return fmt.Sprintf("Deleted %s (had %d in stock)", entry.ItemName, entry.PreviousQuantity)
	case enums.ChangeActionRenamed.String():
		return fmt.Sprintf("Renamed %s to %s", deref(entry.OldValue), deref(entry.NewValue))
	case enums.ChangeActionNewPrice.String():
		return fmt.Sprintf("%s price changed from %s to %s %s",
			entry.ItemName, deref(entry.OldValue), deref(entry.NewValue), currency)
	case enums.ChangeActionImageChanged.String():
		return fmt.Sprintf("Updated image for %s", entry.ItemName)
	default:
		return fmt.Sprintf("%s: %s", entry.Action, entry.ItemName)
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
