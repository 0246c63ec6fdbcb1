package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoMatch   = errors.New("dispatch: no compatible signature")
	ErrAmbiguous = errors.New("dispatch: ambiguous call")
)

type ResolutionKind int

const (
	NoMatch ResolutionKind = iota
	Ambiguous
)

// ResolutionError reports a call that could not be bound to exactly one
// callable. It unwraps to ErrNoMatch or ErrAmbiguous.
type ResolutionError struct {
	Kind  ResolutionKind
	Class string
	// Member is the method name, empty for constructors.
	Member string
	// Arguments are the dynamic type names of the arguments, "nil" for null.
	Arguments []string
	// Candidates is the number of compatible signatures for Ambiguous, and
	// the number of declared signatures for NoMatch.
	Candidates int
}

func (e *ResolutionError) Error() string {
	target := "constructor " + e.Class
	if e.Member != "" {
		target = "method " + e.Class + "." + e.Member
	}
	call := fmt.Sprintf("%s(%s)", target, strings.Join(e.Arguments, ", "))
	if e.Kind == Ambiguous {
		return fmt.Sprintf("could not determine %s: %v among %d signatures", call, ErrAmbiguous, e.Candidates)
	}
	return fmt.Sprintf("could not determine %s: %v among %d signatures", call, ErrNoMatch, e.Candidates)
}

func (e *ResolutionError) Unwrap() error {
	if e.Kind == Ambiguous {
		return ErrAmbiguous
	}
	return ErrNoMatch
}
