package enums

import "fmt"

// ChangeAction classifies a changelog entry.
type ChangeAction string

const (
	ChangeActionCreated      ChangeAction = "created"
	ChangeActionRestocked    ChangeAction = "restocked"
	ChangeActionSold         ChangeAction = "sold"
	ChangeActionDeleted      ChangeAction = "deleted"
	ChangeActionRenamed      ChangeAction = "renamed"
	ChangeActionNewPrice     ChangeAction = "new price"
	ChangeActionImageChanged ChangeAction = "image changed"
)

var validChangeActions = []ChangeAction{
	ChangeActionCreated,
	ChangeActionRestocked,
	ChangeActionSold,
	ChangeActionDeleted,
	ChangeActionRenamed,
	ChangeActionNewPrice,
	ChangeActionImageChanged,
}

// String implements fmt.Stringer.
func (a ChangeAction) String() string {
	return string(a)
}

// IsValid reports whether the action is recognized.
func (a ChangeAction) IsValid() bool {
	for _, candidate := range validChangeActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseChangeAction converts a raw string into a ChangeAction.
func ParseChangeAction(value string) (ChangeAction, error) {
	for _, candidate := range validChangeActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid change action %q", value)
}
