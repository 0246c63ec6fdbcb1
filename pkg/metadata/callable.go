package metadata

import (
	"fmt"
	"reflect"
)

type CallableKind int

const (
	Constructor CallableKind = iota
	Method
)

func (k CallableKind) String() string {
	switch k {
	case Constructor:
		return "constructor"
	case Method:
		return "method"
	}
	return fmt.Sprintf("CallableKind(%d)", int(k))
}

// Callable is one constructor or method overload of a registered type.
type Callable struct {
	Name  string
	Kind  CallableKind
	Owner *Class

	fn        reflect.Value
	signature Signature
}

func newCallable(owner *Class, name string, kind CallableKind, fn reflect.Value) *Callable {
	skip := 0
	if kind == Method {
		skip = 1
	}
	return &Callable{
		Name:      name,
		Kind:      kind,
		Owner:     owner,
		fn:        fn,
		signature: SignatureOf(fn.Type(), skip),
	}
}

func (c *Callable) Signature() Signature {
	return c.signature
}

// Func returns the underlying function. Methods take their receiver as the
// first argument.
func (c *Callable) Func() reflect.Value {
	return c.fn
}

func (c *Callable) String() string {
	if c.Kind == Constructor {
		return c.Owner.Name() + c.signature.String()
	}
	return c.Owner.Name() + "." + c.Name + c.signature.String()
}
