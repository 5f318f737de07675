// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert so callers can react without matching messages.
type Kind uint8

const (
	Validation Kind = iota + 1
	Capacity
	Timing
	State
	Permission
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Capacity:
		return "capacity"
	case Timing:
		return "timing"
	case State:
		return "state"
	case Permission:
		return "permission"
	default:
		return "unknown"
	}
}

// Error is a business rule violation. Engine calls that return one leave no state behind.
type Error struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *Error {
	return &Error{
		kind:    kind,
		message: message,
	}
}

func NewValidation(message string) *Error { return New(Validation, message) }
func NewCapacity(message string) *Error   { return New(Capacity, message) }
func NewTiming(message string) *Error     { return New(Timing, message) }
func NewState(message string) *Error      { return New(State, message) }
func NewPermission(message string) *Error { return New(Permission, message) }

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

var (
	// ErrOverflow is returned when amount or time arithmetic leaves its range.
	ErrOverflow = NewValidation("arithmetic overflow")
	// ErrUnauthorized is returned when the caller is not the operator.
	ErrUnauthorized = NewPermission("caller is not the operator")
)

// KindOf returns the kind of the revert wrapped in err, 0 if there is none.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) && re != nil {
		return re.kind
	}
	return 0
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var re *Error
	if errors.As(e, &re) {
		return re != nil
	}
	return false
}
