package metadata

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var errorType = reflect.TypeFor[error]()

// Class is the registered handle of a Go type: its constructors, its
// method overload sets and, for structs, its fields.
type Class struct {
	name         string
	goType       reflect.Type
	constructors []reflect.Value
	methodNames  []string
	methods      map[string][]reflect.Value
}

func (c *Class) Name() string {
	return c.name
}

// GoType returns the registered type. It is never a pointer type.
func (c *Class) GoType() reflect.Type {
	return c.goType
}

// MethodNames returns the names of the method overload sets in
// registration order.
func (c *Class) MethodNames() []string {
	return append([]string(nil), c.methodNames...)
}

func (c *Class) String() string {
	return c.name
}

func (c *Class) isReceiver(t reflect.Type) bool {
	return t == c.goType || t == reflect.PointerTo(c.goType)
}

func (c *Class) addConstructor(fn reflect.Value) error {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return &RegistrationError{Type: c.goType, Reason: errors.New("constructor must be a non-nil function")}
	}
	fnType := fn.Type()
	switch {
	case fnType.NumOut() == 0 || fnType.NumOut() > 2:
		return &RegistrationError{Type: c.goType, Reason: fmt.Errorf("constructor %v must return T, *T, (T, error) or (*T, error)", fnType)}
	case !c.isReceiver(fnType.Out(0)):
		return &RegistrationError{Type: c.goType, Reason: fmt.Errorf("constructor %v returns %v", fnType, fnType.Out(0))}
	case fnType.NumOut() == 2 && fnType.Out(1) != errorType:
		return &RegistrationError{Type: c.goType, Reason: fmt.Errorf("constructor %v must return error as its second result", fnType)}
	}

	signature := SignatureOf(fnType, 0)
	for _, existing := range c.constructors {
		if SignatureOf(existing.Type(), 0).Equal(signature) {
			return &RegistrationError{Type: c.goType, Reason: fmt.Errorf("%w: constructor %s", ErrDuplicateSignature, signature)}
		}
	}
	c.constructors = append(c.constructors, fn)
	return nil
}

func (c *Class) addMethod(name string, fn reflect.Value) error {
	if name == "" {
		return &RegistrationError{Type: c.goType, Reason: errors.New("method name is empty")}
	}
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return &RegistrationError{Type: c.goType, Member: name, Reason: errors.New("method must be a non-nil function")}
	}
	fnType := fn.Type()
	if fnType.NumIn() == 0 || !c.isReceiver(fnType.In(0)) {
		return &RegistrationError{Type: c.goType, Member: name, Reason: fmt.Errorf("%v does not take %v or *%v as its first parameter", fnType, c.goType, c.goType)}
	}

	signature := SignatureOf(fnType, 1)
	overloads, found := c.methods[name]
	for _, existing := range overloads {
		if SignatureOf(existing.Type(), 1).Equal(signature) {
			return &RegistrationError{Type: c.goType, Member: name, Reason: fmt.Errorf("%w: %s", ErrDuplicateSignature, signature)}
		}
	}
	if !found {
		c.methodNames = append(c.methodNames, name)
	}
	c.methods[name] = append(overloads, fn)
	return nil
}

// OverloadName returns the overload set a Go function or method name
// belongs to: Deposit__0 and Deposit__1 both belong to Deposit.
func OverloadName(name string) string {
	idx := strings.LastIndex(name, "__")
	if idx <= 0 || idx+2 == len(name) {
		return name
	}
	for _, r := range name[idx+2:] {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:idx]
}

type namedFunc struct {
	name string
	fn   reflect.Value
}

type classSpec struct {
	name         string
	constructors []reflect.Value
	methods      []namedFunc
	skipExported bool
}

// Option configures the registration of a type.
type Option func(*classSpec)

// WithName registers the type under name instead of its Go type string.
func WithName(name string) Option {
	return func(s *classSpec) {
		s.name = name
	}
}

// WithConstructor adds a constructor. fn must return T or *T, optionally
// followed by an error.
func WithConstructor(fn any) Option {
	return func(s *classSpec) {
		s.constructors = append(s.constructors, reflect.ValueOf(fn))
	}
}

// WithMethod adds fn to the overload set name. fn takes the receiver as its
// first parameter, as a method expression such as (*Account).applyFee
// does, so unexported methods can be registered from inside their package.
func WithMethod(name string, fn any) Option {
	return func(s *classSpec) {
		s.methods = append(s.methods, namedFunc{name: name, fn: reflect.ValueOf(fn)})
	}
}

// WithoutExportedMethods disables the discovery of the exported methods of
// *T; only methods added with WithMethod are registered.
func WithoutExportedMethods() Option {
	return func(s *classSpec) {
		s.skipExported = true
	}
}

// Registry holds registered types. It implements the reflection provider
// used by the dispatch package and is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
	byType  map[reflect.Type]*Class
	order   []*Class
}

func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
		byType:  make(map[reflect.Type]*Class),
	}
}

// Register adds the type t (or the type t points to) to the registry.
//
// Unless WithoutExportedMethods is given, the exported methods of *T are
// registered, grouped into overload sets by OverloadName. A type registered
// without constructors gets a zero-arity constructor returning new(T).
func (r *Registry) Register(t reflect.Type, opts ...Option) (*Class, error) {
	if t == nil {
		return nil, &RegistrationError{Reason: errors.New("type is nil")}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Interface {
		return nil, &RegistrationError{Type: t, Reason: errors.New("interface types have no constructors or fields")}
	}

	spec := classSpec{name: t.String()}
	for _, opt := range opts {
		opt(&spec)
	}

	class := &Class{
		name:    spec.name,
		goType:  t,
		methods: make(map[string][]reflect.Value),
	}
	for _, fn := range spec.constructors {
		if err := class.addConstructor(fn); err != nil {
			return nil, err
		}
	}
	if len(class.constructors) == 0 {
		class.constructors = append(class.constructors, defaultConstructor(t))
	}
	if !spec.skipExported {
		ptr := reflect.PointerTo(t)
		for i := 0; i < ptr.NumMethod(); i++ {
			method := ptr.Method(i)
			if err := class.addMethod(OverloadName(method.Name), method.Func); err != nil {
				return nil, err
			}
		}
	}
	for _, method := range spec.methods {
		if err := class.addMethod(method.name, method.fn); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.classes[class.name]; found {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateType, class.name)
	}
	if _, found := r.byType[t]; found {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateType, t)
	}
	r.classes[class.name] = class
	r.byType[t] = class
	r.order = append(r.order, class)
	return class, nil
}

func defaultConstructor(t reflect.Type) reflect.Value {
	fnType := reflect.FuncOf(nil, []reflect.Type{reflect.PointerTo(t)}, false)
	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(t)}
	})
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	class, found := r.classes[name]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return class, nil
}

// LookupType returns the class registered for t or the type t points to.
func (r *Registry) LookupType(t reflect.Type) (*Class, error) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	class, found := r.byType[t]
	if !found {
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	return class, nil
}

// Classes returns the registered classes in registration order.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Class(nil), r.order...)
}

// Constructors materializes the constructors of class.
func (r *Registry) Constructors(class *Class) ([]*Callable, error) {
	if class == nil {
		return nil, fmt.Errorf("%w: nil class", ErrUnknownType)
	}
	callables := make([]*Callable, len(class.constructors))
	for i, fn := range class.constructors {
		callables[i] = newCallable(class, class.name, Constructor, fn)
	}
	return callables, nil
}

// Methods materializes the overloads of the method name. An unknown name
// yields no callables and no error.
func (r *Registry) Methods(class *Class, name string) ([]*Callable, error) {
	if class == nil {
		return nil, fmt.Errorf("%w: nil class", ErrUnknownType)
	}
	overloads := class.methods[name]
	callables := make([]*Callable, len(overloads))
	for i, fn := range overloads {
		callables[i] = newCallable(class, name, Method, fn)
	}
	return callables, nil
}

// TypeOf returns the dynamic type of v, or nil if v is null.
func (r *Registry) TypeOf(v any) *Type {
	return DynamicType(v)
}
