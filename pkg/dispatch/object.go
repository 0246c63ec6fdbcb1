package dispatch

import (
	"godispatch/pkg/metadata"
)

// Object pairs a class with a value of it, so that a test harness can
// construct, call and inspect the value by name.
type Object struct {
	dispatcher *Dispatcher
	class      *metadata.Class
	value      any
}

// Object wraps value, which may be nil until New or SetValue is called.
func (d *Dispatcher) Object(class *metadata.Class, value any) *Object {
	return &Object{dispatcher: d, class: class, value: value}
}

func (o *Object) Class() *metadata.Class {
	return o.class
}

func (o *Object) Value() any {
	return o.value
}

func (o *Object) SetValue(value any) {
	o.value = value
}

// New returns a new Object of the same class holding the value built by
// the constructor that best matches args.
func (o *Object) New(args ...any) (*Object, error) {
	value, err := o.dispatcher.ResolveConstructor(o.class, args...)
	if err != nil {
		return nil, err
	}
	return o.dispatcher.Object(o.class, value), nil
}

// Call calls the method name on the held value.
func (o *Object) Call(name string, args ...any) (any, error) {
	return o.dispatcher.ResolveMethod(o.class, name, o.value, args...)
}

// Get reads a field of the held value, exported or not.
func (o *Object) Get(field string) (any, error) {
	return o.dispatcher.Field(o.class, field, o.value)
}

// Set writes a field of the held value, exported or not.
func (o *Object) Set(field string, value any) error {
	return o.dispatcher.SetField(o.class, field, o.value, value)
}
