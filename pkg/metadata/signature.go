package metadata

import (
	"reflect"
	"strings"
)

// Signature is the ordered list of declared parameter types of one
// constructor or method overload, receiver excluded.
type Signature []*Type

// SignatureOf builds the signature of the function type fn, skipping its
// first skip parameters.
func SignatureOf(fn reflect.Type, skip int) Signature {
	signature := make(Signature, 0, fn.NumIn()-skip)
	for i := skip; i < fn.NumIn(); i++ {
		signature = append(signature, Describe(fn.In(i)))
	}
	return signature
}

// SignatureFor builds a signature from the given Go types.
func SignatureFor(types ...reflect.Type) Signature {
	signature := make(Signature, len(types))
	for i, t := range types {
		signature[i] = Describe(t)
	}
	return signature
}

func (s Signature) Arity() int {
	return len(s)
}

// Equal reports whether s and other have the same arity and the same type
// at every position.
func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.Name()
	}
	return "(" + strings.Join(names, ", ") + ")"
}
