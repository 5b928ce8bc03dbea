package pricing

import "errors"

var (
	// ErrInvalidInput is returned when a structurally required field is missing
	ErrInvalidInput = errors.New("invalid pricing input")

	// ErrDuplicateRuleID is returned when creating a rule whose id is already active
	ErrDuplicateRuleID = errors.New("cost rule id already exists")

	// ErrRuleNotFound is returned by store mutations on an unknown rule id
	ErrRuleNotFound = errors.New("cost rule not found")

	// ErrProtectedRule is returned when removing a rule that must always exist
	ErrProtectedRule = errors.New("cost rule is protected and cannot be deleted")

	// ErrUnknownPolicy is returned when a pricing policy version is not registered
	ErrUnknownPolicy = errors.New("unknown pricing policy")
)
