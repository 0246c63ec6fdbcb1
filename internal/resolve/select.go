package resolve

import "fmt"

type Outcome int

const (
	NoMatch Outcome = iota
	Found
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no match"
	case Found:
		return "found"
	case Ambiguous:
		return "ambiguous"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MatchResult is the outcome of a selection. Best is set only when Outcome
// is Found. Candidates is the number of candidates the selection ran over.
type MatchResult[C Candidate] struct {
	Outcome    Outcome
	Best       C
	Candidates int
}

// SelectBestMatch picks the most specific of candidates, all of which are
// assumed to have passed Filter for the same arguments.
//
// The selection is a single left fold: each candidate is compared with the
// current best only. A strictly more specific candidate replaces the best
// and clears ambiguity, an Equal comparison marks the result ambiguous.
// Compare is not transitive in general, so with three or more candidates
// the outcome can depend on their order.
func SelectBestMatch[C Candidate](candidates []C) MatchResult[C] {
	result := MatchResult[C]{Candidates: len(candidates)}
	switch len(candidates) {
	case 0:
		result.Outcome = NoMatch
		return result
	case 1:
		result.Outcome = Found
		result.Best = candidates[0]
		return result
	}

	best := candidates[0]
	ambiguous := false
	for _, candidate := range candidates[1:] {
		switch Compare(candidate.Signature(), best.Signature()) {
		case MoreSpecific:
			best = candidate
			ambiguous = false
		case Equal:
			ambiguous = true
		}
	}

	if ambiguous {
		result.Outcome = Ambiguous
		return result
	}
	result.Outcome = Found
	result.Best = best
	return result
}

// Resolve filters candidates against args and selects the best match.
func Resolve[C Candidate](candidates []C, args []Argument) MatchResult[C] {
	return SelectBestMatch(Filter(candidates, args))
}
