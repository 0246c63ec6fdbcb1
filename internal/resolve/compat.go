// Package resolve selects one overload out of a candidate set for a list of
// runtime arguments.
//
// Resolution runs in two steps. Filter keeps the candidates whose arity
// matches and whose every parameter accepts the argument at the same
// position. SelectBestMatch then folds Compare over the survivors, left to
// right, to find the most specific one or report ambiguity.
package resolve

import (
	"godispatch/pkg/metadata"
)

// Argument is the resolution view of one runtime argument: the descriptor
// of its dynamic type, or no descriptor for null.
type Argument struct {
	Type *metadata.Type
}

// Null is the argument for an absent value.
func Null() Argument {
	return Argument{}
}

// ArgumentOf describes the runtime value v.
func ArgumentOf(v any) Argument {
	return Argument{Type: metadata.DynamicType(v)}
}

func (a Argument) IsNull() bool {
	return a.Type == nil
}

func (a Argument) String() string {
	if a.IsNull() {
		return "nil"
	}
	return a.Type.Name()
}

// IsCompatible reports whether arg may be bound to a parameter of type
// param. Null never binds to a primitive; primitives are compared in their
// boxed form.
func IsCompatible(arg Argument, param *metadata.Type) bool {
	if param.IsPrimitive() {
		if arg.IsNull() {
			return false
		}
		param = param.Boxed()
	}
	if arg.IsNull() {
		return true
	}
	return param.AssignableFrom(arg.Type)
}
