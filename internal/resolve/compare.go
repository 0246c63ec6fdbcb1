package resolve

import (
	"fmt"

	"godispatch/pkg/metadata"
)

// Specificity is the outcome of comparing two signatures.
type Specificity int

const (
	// Equal means neither signature is strictly more specific.
	Equal Specificity = iota
	MoreSpecific
	LessSpecific
)

func (s Specificity) String() string {
	switch s {
	case Equal:
		return "equal"
	case MoreSpecific:
		return "more specific"
	case LessSpecific:
		return "less specific"
	}
	return fmt.Sprintf("Specificity(%d)", int(s))
}

// Compare orders a against b by the assignability of their parameter types.
//
// Each position where the boxed types differ votes for the side whose type
// is assignable to the other. Positions with identical or mutually
// assignable types abstain. A position where neither type is assignable to
// the other makes the pair incomparable. a is MoreSpecific when every vote
// is for a and there is at least one vote, which includes the case of a
// single differing position. Split votes, no votes, a different arity or an
// incomparable position give Equal.
func Compare(a, b metadata.Signature) Specificity {
	if a.Arity() != b.Arity() {
		return Equal
	}

	var votesA, votesB int
	for i := range a {
		x, y := a[i].Boxed(), b[i].Boxed()
		if x.Equal(y) {
			continue
		}
		xFromY, yFromX := x.AssignableFrom(y), y.AssignableFrom(x)
		switch {
		case xFromY && yFromX:
		case xFromY:
			votesB++
		case yFromX:
			votesA++
		default:
			return Equal
		}
	}

	switch {
	case votesA > 0 && votesB == 0:
		return MoreSpecific
	case votesB > 0 && votesA == 0:
		return LessSpecific
	}
	return Equal
}
