package resolve

import (
	"godispatch/pkg/metadata"
)

// Candidate is anything with a declared signature, typically a
// *metadata.Callable.
type Candidate interface {
	Signature() metadata.Signature
}

// Filter returns the candidates whose arity equals len(args) and whose
// every parameter is compatible with the argument at the same position.
// Input order is preserved. Variadic parameters get no special treatment.
func Filter[C Candidate](candidates []C, args []Argument) []C {
	var matches []C
	for _, candidate := range candidates {
		if accepts(candidate.Signature(), args) {
			matches = append(matches, candidate)
		}
	}
	return matches
}

func accepts(signature metadata.Signature, args []Argument) bool {
	if signature.Arity() != len(args) {
		return false
	}
	for i, param := range signature {
		if !IsCompatible(args[i], param) {
			return false
		}
	}
	return true
}
