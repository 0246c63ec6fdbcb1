package metadata

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrUnknownType        = errors.New("metadata: unknown type")
	ErrUnknownField       = errors.New("metadata: unknown field")
	ErrDuplicateType      = errors.New("metadata: type already registered")
	ErrDuplicateSignature = errors.New("metadata: duplicate signature")
)

// RegistrationError reports a constructor or method that cannot be
// registered for a type.
type RegistrationError struct {
	Type   reflect.Type
	Member string
	Reason error
}

func (e *RegistrationError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("invalid registration of %v: %v", e.Type, e.Reason)
	}
	return fmt.Sprintf("invalid registration of %v.%s: %v", e.Type, e.Member, e.Reason)
}

func (e *RegistrationError) Unwrap() error { return e.Reason }

// ConversionError reports an argument that cannot be passed to the Go
// parameter it was resolved against, or a value that cannot be stored in a
// field. Position is -1 for the receiver and unused when Field is set.
type ConversionError struct {
	Callable string
	Position int
	Field    string
	Value    any
	Want     reflect.Type
}

func (e *ConversionError) Error() string {
	what := fmt.Sprintf("argument %d", e.Position)
	switch {
	case e.Field != "":
		what = "field " + e.Field
	case e.Position < 0:
		what = "receiver"
	}
	if DynamicType(e.Value) == nil {
		if name, found := primitiveKinds[e.Want.Kind()]; found {
			return fmt.Sprintf("%s: %s: null cannot be passed as %v, a %s kind", e.Callable, what, e.Want, name)
		}
		return fmt.Sprintf("%s: %s: null cannot be passed as %v", e.Callable, what, e.Want)
	}
	return fmt.Sprintf("%s: %s: %T cannot be passed as %v", e.Callable, what, e.Value, e.Want)
}
