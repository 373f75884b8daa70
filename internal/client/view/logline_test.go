package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockroomhq/stockroom-backend/internal/changelog"
)

func strptr(s string) *string { return &s }

func TestFormatLogLine(t *testing.T) {
	cases := []struct {
		name  string
		entry changelog.EntryDTO
		want  string
	}{
		{
			name:  "created",
			entry: changelog.EntryDTO{Action: "created", ItemName: "Potion", NewQuantity: 10},
			want:  "Added Potion with 10 in stock",
		},
		{
			name:  "restocked",
			entry: changelog.EntryDTO{Action: "restocked", ItemName: "Potion", PreviousQuantity: 3, NewQuantity: 20},
			want:  "Restocked Potion from 3 to 20",
		},
		{
			name:  "sold",
			entry: changelog.EntryDTO{Action: "sold", ItemName: "Potion", PreviousQuantity: 10, NewQuantity: 3},
			want:  "Sold Potion down from 10 to 3",
		},
		{
			// the action decides the wording, not the remaining quantity
			name:  "sold out",
			entry: changelog.EntryDTO{Action: "sold", ItemName: "Potion", PreviousQuantity: 2, NewQuantity: 0},
			want:  "Sold Potion down from 2 to 0",
		},
		{
			name:  "deleted",
			entry: changelog.EntryDTO{Action: "deleted", ItemName: "Potion", PreviousQuantity: 20},
			want:  "Deleted Potion (had 20 in stock)",
		},
		{
			name:  "renamed",
			entry: changelog.EntryDTO{Action: "renamed", OldValue: strptr("Potion"), NewValue: strptr("Elixir")},
			want:  "Renamed Potion to Elixir",
		},
		{
			name:  "repriced",
			entry: changelog.EntryDTO{Action: "new price", ItemName: "Potion", OldValue: strptr("15"), NewValue: strptr("20")},
			want:  "Potion price changed from 15 to 20 gold",
		},
		{
			name:  "image changed",
			entry: changelog.EntryDTO{Action: "image changed", ItemName: "Potion"},
			want:  "Updated image for Potion",
		},
		{
			name:  "unknown action falls back",
			entry: changelog.EntryDTO{Action: "audited", ItemName: "Potion"},
			want:  "audited: Potion",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatLogLine(tc.entry, "gold"))
		})
	}
}
