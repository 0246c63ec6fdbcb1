package resolve

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godispatch/pkg/metadata"
)

type celsius float64

func (c celsius) String() string { return fmt.Sprintf("%.1fC", float64(c)) }

// namedStringer is strictly narrower than fmt.Stringer.
type namedStringer interface {
	fmt.Stringer
	Name() string
}

// stringer has the same method set as fmt.Stringer.
type stringer interface {
	String() string
}

type overload struct {
	name      string
	signature metadata.Signature
}

func (o overload) Signature() metadata.Signature { return o.signature }

func sig(types ...reflect.Type) metadata.Signature {
	return metadata.SignatureFor(types...)
}

func ov(name string, types ...reflect.Type) overload {
	return overload{name: name, signature: sig(types...)}
}

func names(overloads []overload) []string {
	var out []string
	for _, o := range overloads {
		out = append(out, o.name)
	}
	return out
}

func args(values ...any) []Argument {
	out := make([]Argument, len(values))
	for i, v := range values {
		out[i] = ArgumentOf(v)
	}
	return out
}

var (
	tInt           = reflect.TypeFor[int]()
	tInt64         = reflect.TypeFor[int64]()
	tIntPtr        = reflect.TypeFor[*int]()
	tString        = reflect.TypeFor[string]()
	tStringPtr     = reflect.TypeFor[*string]()
	tAny           = reflect.TypeFor[any]()
	tStringer      = reflect.TypeFor[fmt.Stringer]()
	tLocalStringer = reflect.TypeFor[stringer]()
	tNamedStringer = reflect.TypeFor[namedStringer]()
	tError         = reflect.TypeFor[error]()
	tCelsius       = reflect.TypeFor[celsius]()
	tInts          = reflect.TypeFor[[]int]()
)

func TestIsCompatible(t *testing.T) {
	x := 5
	cases := []struct {
		name  string
		arg   Argument
		param reflect.Type
		want  bool
	}{
		{"null to primitive", Null(), tInt, false},
		{"null to struct", Null(), reflect.TypeFor[struct{}](), false},
		{"null to pointer", Null(), tIntPtr, true},
		{"null to interface", Null(), tAny, true},
		{"null to slice", Null(), tInts, true},
		{"int to int", ArgumentOf(5), tInt, true},
		{"int to *int", ArgumentOf(5), tIntPtr, true},
		{"int to any", ArgumentOf(5), tAny, true},
		{"int to int64", ArgumentOf(5), tInt64, false},
		{"int to string", ArgumentOf(5), tString, false},
		{"*int to int", ArgumentOf(&x), tInt, true},
		{"string to string", ArgumentOf("hello"), tString, true},
		{"string to *string", ArgumentOf("hello"), tStringPtr, true},
		{"celsius to Stringer", ArgumentOf(celsius(21)), tStringer, true},
		{"celsius to error", ArgumentOf(celsius(21)), tError, false},
		{"celsius to float64", ArgumentOf(celsius(21)), reflect.TypeFor[float64](), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, IsCompatible(c.arg, metadata.Describe(c.param)))
		})
	}
}

func TestIsCompatible_NullNeverBindsToPrimitives(t *testing.T) {
	for _, param := range []reflect.Type{tInt, tInt64, tString, tCelsius, reflect.TypeFor[bool](), reflect.TypeFor[[3]byte]()} {
		assert.False(t, IsCompatible(Null(), metadata.Describe(param)), param.String())
		assert.True(t, IsCompatible(Null(), metadata.Describe(reflect.PointerTo(param))), param.String())
	}
}

func TestFilter(t *testing.T) {
	candidates := []overload{
		ov("process(int, string)", tInt, tString),
		ov("process(any)", tAny),
		ov("process()"),
		ov("process(string)", tString),
		ov("process(*int, any)", tIntPtr, tAny),
	}

	cases := []struct {
		name string
		args []Argument
		want []string
	}{
		{"no arguments", args(), []string{"process()"}},
		{"one string", args("a"), []string{"process(any)", "process(string)"}},
		{"one null", args(nil), []string{"process(any)"}},
		{"int and string", args(1, "a"), []string{"process(int, string)", "process(*int, any)"}},
		{"null and string", args(nil, "a"), []string{"process(*int, any)"}},
		{"too many", args(1, 2, 3), nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Filter(candidates, c.args)
			if diff := cmp.Diff(c.want, names(got)); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
			for _, o := range got {
				assert.Equal(t, len(c.args), o.Signature().Arity())
			}
		})
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b metadata.Signature
		want Specificity
	}{
		{"single narrower position", sig(tString), sig(tAny), MoreSpecific},
		{"single wider position", sig(tAny), sig(tString), LessSpecific},
		{"primitive and its box", sig(tInt), sig(tIntPtr), Equal},
		{"identical", sig(tInt, tString), sig(tInt, tString), Equal},
		{"no parameters", sig(), sig(), Equal},
		{"unanimous over two positions", sig(tString, tIntPtr), sig(tAny, tAny), MoreSpecific},
		{"one vote and one abstention", sig(tString, tInt), sig(tAny, tInt), MoreSpecific},
		{"split votes", sig(tString, tAny), sig(tAny, tString), Equal},
		{"incomparable position", sig(tInt, tAny), sig(tString, tAny), Equal},
		{"incomparable beats a vote", sig(tString, tInt), sig(tAny, tString), Equal},
		{"interface above its implementation", sig(tCelsius), sig(tStringer), MoreSpecific},
		{"narrower interface", sig(tNamedStringer), sig(tStringer), MoreSpecific},
		{"equivalent interfaces abstain", sig(tLocalStringer, tString), sig(tStringer, tAny), MoreSpecific},
		{"different arity", sig(tString), sig(tString, tString), Equal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Compare(c.a, c.b))
		})
	}
}

func TestCompare_IsAntisymmetric(t *testing.T) {
	pairs := [][2]metadata.Signature{
		{sig(tString), sig(tAny)},
		{sig(tCelsius, tIntPtr), sig(tStringer, tAny)},
		{sig(tInt), sig(tIntPtr)},
		{sig(tString, tAny), sig(tAny, tString)},
	}
	opposite := map[Specificity]Specificity{MoreSpecific: LessSpecific, LessSpecific: MoreSpecific, Equal: Equal}
	for _, p := range pairs {
		assert.Equal(t, opposite[Compare(p[0], p[1])], Compare(p[1], p[0]), "%s vs %s", p[0], p[1])
	}
}

func TestSelectBestMatch(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		result := SelectBestMatch[overload](nil)
		assert.Equal(t, NoMatch, result.Outcome)
	})

	t.Run("single candidate", func(t *testing.T) {
		result := SelectBestMatch([]overload{ov("only", tAny)})
		require.Equal(t, Found, result.Outcome)
		assert.Equal(t, "only", result.Best.name)
	})

	t.Run("identical signatures", func(t *testing.T) {
		result := SelectBestMatch([]overload{ov("first", tString), ov("second", tString)})
		assert.Equal(t, Ambiguous, result.Outcome)
		assert.Equal(t, 2, result.Candidates)
		assert.Empty(t, result.Best.name)
	})

	t.Run("most specific wins in either order", func(t *testing.T) {
		for _, order := range [][]overload{
			{ov("any", tAny), ov("string", tString)},
			{ov("string", tString), ov("any", tAny)},
		} {
			result := SelectBestMatch(order)
			require.Equal(t, Found, result.Outcome)
			assert.Equal(t, "string", result.Best.name)
		}
	})

	t.Run("later winner clears ambiguity", func(t *testing.T) {
		result := SelectBestMatch([]overload{
			ov("(string, any)", tString, tAny),
			ov("(any, string)", tAny, tString),
			ov("(string, string)", tString, tString),
		})
		require.Equal(t, Found, result.Outcome)
		assert.Equal(t, "(string, string)", result.Best.name)
	})

	t.Run("primitive and box are ambiguous", func(t *testing.T) {
		result := SelectBestMatch([]overload{ov("int", tInt), ov("*int", tIntPtr)})
		assert.Equal(t, Ambiguous, result.Outcome)
	})
}

// The fold compares each candidate with the current best only, so a
// non-transitive set resolves differently depending on order.
func TestSelectBestMatch_OrderDependence(t *testing.T) {
	stringerFirst := SelectBestMatch([]overload{
		ov("Stringer", tStringer),
		ov("error", tError),
		ov("namedStringer", tNamedStringer),
	})
	require.Equal(t, Found, stringerFirst.Outcome)
	assert.Equal(t, "namedStringer", stringerFirst.Best.name)

	errorFirst := SelectBestMatch([]overload{
		ov("error", tError),
		ov("Stringer", tStringer),
		ov("namedStringer", tNamedStringer),
	})
	assert.Equal(t, Ambiguous, errorFirst.Outcome)
}

func TestResolve(t *testing.T) {
	constructors := []overload{ov("any", tAny), ov("string", tString)}
	result := Resolve(constructors, args("hello"))
	require.Equal(t, Found, result.Outcome)
	assert.Equal(t, "string", result.Best.name)

	counters := []overload{ov("int", tInt), ov("*int", tIntPtr)}
	assert.Equal(t, Ambiguous, Resolve(counters, args(5)).Outcome)

	process := []overload{ov("process", tInt, tString)}
	assert.Equal(t, NoMatch, Resolve(process, args(1)).Outcome)
}
