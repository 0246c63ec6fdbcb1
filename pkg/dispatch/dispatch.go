// Package dispatch constructs values and calls methods of registered types
// by picking, at run time, the overload that best matches the arguments.
//
// A Dispatcher asks its Provider for the candidate constructors or method
// overloads on every call, resolves them against the dynamic types of the
// arguments and invokes the single best match:
//
//	reg := metadata.NewRegistry()
//	class, _ := reg.Register(reflect.TypeFor[Account](),
//		metadata.WithConstructor(NewAccount),
//		metadata.WithConstructor(NewAccountWithOwner),
//	)
//	d := dispatch.New(reg)
//	account, err := d.ResolveConstructor(class, "alice", 100)
//	balance, err := d.ResolveMethod(class, "Balance", account)
//
// Resolution failures are *ResolutionError values matching ErrNoMatch or
// ErrAmbiguous. Errors returned by the invoked function are passed through
// unchanged.
package dispatch

import (
	"fmt"
	"log/slog"

	"godispatch/internal/resolve"
	"godispatch/pkg/metadata"
)

// Provider exposes the metadata of registered types and invokes their
// callables. *metadata.Registry is the standard implementation.
type Provider interface {
	Constructors(class *metadata.Class) ([]*metadata.Callable, error)
	Methods(class *metadata.Class, name string) ([]*metadata.Callable, error)
	// TypeOf returns the dynamic type of v, or nil if v is null.
	TypeOf(v any) *metadata.Type
	Invoke(c *metadata.Callable, target any, args []any) (any, error)
	Field(class *metadata.Class, name string, target any) (any, error)
	SetField(class *metadata.Class, name string, target any, value any) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger resolution decisions are reported to at
// debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// Dispatcher resolves and invokes constructors and methods. It keeps no
// state between calls.
type Dispatcher struct {
	provider Provider
	logger   *slog.Logger
}

func New(provider Provider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ResolveConstructor constructs a value of class with the constructor that
// best matches args.
func (d *Dispatcher) ResolveConstructor(class *metadata.Class, args ...any) (any, error) {
	candidates, err := d.provider.Constructors(class)
	if err != nil {
		return nil, fmt.Errorf("listing constructors: %w", err)
	}
	chosen, err := d.choose(class, "", candidates, args)
	if err != nil {
		return nil, err
	}
	return d.provider.Invoke(chosen, nil, args)
}

// ResolveMethod calls the overload of the method name that best matches
// args on target.
func (d *Dispatcher) ResolveMethod(class *metadata.Class, name string, target any, args ...any) (any, error) {
	candidates, err := d.provider.Methods(class, name)
	if err != nil {
		return nil, fmt.Errorf("listing methods: %w", err)
	}
	chosen, err := d.choose(class, name, candidates, args)
	if err != nil {
		return nil, err
	}
	return d.provider.Invoke(chosen, target, args)
}

// Field reads the field name of target.
func (d *Dispatcher) Field(class *metadata.Class, name string, target any) (any, error) {
	return d.provider.Field(class, name, target)
}

// SetField writes the field name of target.
func (d *Dispatcher) SetField(class *metadata.Class, name string, target any, value any) error {
	return d.provider.SetField(class, name, target, value)
}

func (d *Dispatcher) choose(class *metadata.Class, member string, candidates []*metadata.Callable, args []any) (*metadata.Callable, error) {
	arguments := make([]resolve.Argument, len(args))
	for i, arg := range args {
		arguments[i] = resolve.Argument{Type: d.provider.TypeOf(arg)}
	}

	result := resolve.Resolve(candidates, arguments)
	switch result.Outcome {
	case resolve.Found:
		d.logger.Debug("resolved call",
			"class", class.Name(),
			"member", member,
			"signature", result.Best.Signature().String(),
			"declared", len(candidates))
		return result.Best, nil
	case resolve.Ambiguous:
		d.logger.Debug("ambiguous call",
			"class", class.Name(),
			"member", member,
			"matches", result.Candidates)
		return nil, newResolutionError(Ambiguous, class, member, arguments, result.Candidates)
	}
	return nil, newResolutionError(NoMatch, class, member, arguments, len(candidates))
}

func newResolutionError(kind ResolutionKind, class *metadata.Class, member string, args []resolve.Argument, candidates int) *ResolutionError {
	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = arg.String()
	}
	return &ResolutionError{
		Kind:       kind,
		Class:      class.Name(),
		Member:     member,
		Arguments:  names,
		Candidates: candidates,
	}
}
