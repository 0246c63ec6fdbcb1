package metadata

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Invoke calls c with args. Methods are called on target; target is
// ignored for constructors.
//
// An error returned by the callable is returned as is. Panics are not
// recovered. A constructor returning T has its result boxed to *T so that
// the instance is addressable.
func (r *Registry) Invoke(c *Callable, target any, args []any) (any, error) {
	fnType := c.fn.Type()
	offset := 0
	if c.Kind == Method {
		offset = 1
	}
	if len(args)+offset != fnType.NumIn() {
		return nil, fmt.Errorf("%s: got %d arguments, want %d", c, len(args), fnType.NumIn()-offset)
	}

	in := make([]reflect.Value, 0, fnType.NumIn())
	if c.Kind == Method {
		receiver, ok := convert(target, fnType.In(0))
		if !ok {
			return nil, &ConversionError{Callable: c.String(), Position: -1, Value: target, Want: fnType.In(0)}
		}
		in = append(in, receiver)
	}
	for i, arg := range args {
		value, ok := convert(arg, fnType.In(i+offset))
		if !ok {
			return nil, &ConversionError{Callable: c.String(), Position: i, Value: arg, Want: fnType.In(i + offset)}
		}
		in = append(in, value)
	}

	var out []reflect.Value
	if fnType.IsVariadic() {
		out = c.fn.CallSlice(in)
	} else {
		out = c.fn.Call(in)
	}

	if n := len(out); n > 0 && fnType.Out(n-1) == errorType {
		if errValue := out[n-1]; !errValue.IsNil() {
			return nil, errValue.Interface().(error)
		}
		out = out[:n-1]
	}
	if c.Kind == Constructor && len(out) == 1 && out[0].Kind() != reflect.Pointer {
		out[0] = box(out[0])
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	results := make([]any, len(out))
	for i, value := range out {
		results[i] = value.Interface()
	}
	return results, nil
}

// convert adapts v to the Go type want, boxing and unboxing primitives the
// way the compatibility test allows.
func convert(v any, want reflect.Type) (reflect.Value, bool) {
	if v == nil {
		if !isNillable(want) {
			return reflect.Value{}, false
		}
		return reflect.Zero(want), true
	}

	value := reflect.ValueOf(v)
	if value.Type().AssignableTo(want) {
		return value, true
	}
	if DynamicType(v) == nil {
		if !isNillable(want) {
			return reflect.Value{}, false
		}
		return reflect.Zero(want), true
	}

	switch {
	case want.Kind() == reflect.Pointer && value.Type().AssignableTo(want.Elem()):
		boxed := reflect.New(want.Elem())
		boxed.Elem().Set(value)
		return boxed, true
	case value.Kind() == reflect.Pointer && value.Type().Elem().AssignableTo(want):
		return value.Elem(), true
	case value.Kind() != reflect.Pointer && reflect.PointerTo(value.Type()).AssignableTo(want):
		return box(value), true
	}
	return reflect.Value{}, false
}

func box(value reflect.Value) reflect.Value {
	boxed := reflect.New(value.Type())
	boxed.Elem().Set(value)
	return boxed
}

// Field returns the value of the field name of target, which must be a T
// or a *T of class. Unexported fields are readable.
func (r *Registry) Field(class *Class, name string, target any) (any, error) {
	structValue, err := structOf(class, target)
	if err != nil {
		return nil, err
	}
	if !structValue.CanAddr() {
		structValue = box(structValue).Elem()
	}
	field, err := fieldOf(class, structValue, name)
	if err != nil {
		return nil, err
	}
	return exposed(field).Interface(), nil
}

// SetField sets the field name of target, which must be a non-nil *T of
// class. Unexported fields are writable.
func (r *Registry) SetField(class *Class, name string, target any, value any) error {
	structValue, err := structOf(class, target)
	if err != nil {
		return err
	}
	if !structValue.CanAddr() {
		return fmt.Errorf("%s.%s: target %T is not addressable, pass a pointer", class.name, name, target)
	}
	field, err := fieldOf(class, structValue, name)
	if err != nil {
		return err
	}
	converted, ok := convert(value, field.Type())
	if !ok {
		return &ConversionError{Callable: class.name, Field: name, Value: value, Want: field.Type()}
	}
	exposed(field).Set(converted)
	return nil
}

// fieldOf resolves name on structValue, failing instead of panicking when
// the field is promoted through a nil embedded pointer.
func fieldOf(class *Class, structValue reflect.Value, name string) (reflect.Value, error) {
	sf, found := class.goType.FieldByName(name)
	if !found {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, class.name, name)
	}
	field, err := structValue.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%s.%s: %w", class.name, name, err)
	}
	return field, nil
}

func structOf(class *Class, target any) (reflect.Value, error) {
	if class == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil class", ErrUnknownType)
	}
	if class.goType.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s is not a struct", ErrUnknownField, class.name)
	}
	value := reflect.ValueOf(target)
	for value.IsValid() && value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("%s: target is a nil %v", class.name, value.Type())
		}
		value = value.Elem()
	}
	if !value.IsValid() || value.Type() != class.goType {
		return reflect.Value{}, fmt.Errorf("%s: target %T is not a %v", class.name, target, class.goType)
	}
	return value, nil
}

// exposed returns an addressable view of field that ignores the export
// restriction on unexported fields.
func exposed(field reflect.Value) reflect.Value {
	if field.CanInterface() && field.CanSet() {
		return field
	}
	return reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
}
