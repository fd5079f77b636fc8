package enums

import "fmt"

// ActionType describes the allowed values for the `action` column in actions.
type ActionType string

const (
	ActionTypeBorrow ActionType = "borrow"
	ActionTypeReturn ActionType = "return"
)

var validActionTypes = []ActionType{
	ActionTypeBorrow,
	ActionTypeReturn,
}

// IsValid reports whether the value matches the canonical action type enum.
func (a ActionType) IsValid() bool {
	for _, candidate := range validActionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActionType converts the raw string to ActionType.
func ParseActionType(value string) (ActionType, error) {
	for _, candidate := range validActionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action type %q", value)
}

// Opposite returns the action that undoes this one.
func (a ActionType) Opposite() ActionType {
	if a == ActionTypeBorrow {
		return ActionTypeReturn
	}
	return ActionTypeBorrow
}
