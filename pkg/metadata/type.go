// Package metadata describes Go types as overload candidates: type
// descriptors, signatures, callables, and the Registry that holds the
// constructors and methods of registered types and invokes them.
package metadata

import (
	"reflect"
)

// The kinds whose values can never be nil. A type of one of these kinds is
// primitive, and its boxed equivalent is a pointer to it.
var primitiveKinds map[reflect.Kind]string = map[reflect.Kind]string{
	reflect.Bool:       "bool",
	reflect.Int:        "int",
	reflect.Int8:       "int8",
	reflect.Int16:      "int16",
	reflect.Int32:      "int32",
	reflect.Int64:      "int64",
	reflect.Uint:       "uint",
	reflect.Uint8:      "uint8",
	reflect.Uint16:     "uint16",
	reflect.Uint32:     "uint32",
	reflect.Uint64:     "uint64",
	reflect.Uintptr:    "uintptr",
	reflect.Float32:    "float32",
	reflect.Float64:    "float64",
	reflect.Complex64:  "complex64",
	reflect.Complex128: "complex128",
	reflect.String:     "string",
	reflect.Struct:     "struct",
	reflect.Array:      "array",
}

// Type is the descriptor of a declared parameter, field or runtime value type.
type Type struct {
	goType reflect.Type
}

// Describe returns the descriptor of t, or nil if t is nil.
func Describe(t reflect.Type) *Type {
	if t == nil {
		return nil
	}
	return &Type{goType: t}
}

// DescribeFor returns the descriptor of T.
func DescribeFor[T any]() *Type {
	return Describe(reflect.TypeFor[T]())
}

// DynamicType returns the descriptor of the dynamic type of v as seen by
// overload resolution, or nil when v is null.
//
// A nil interface and any nil pointer, map, slice, func, chan or interface
// value is null. Non-nil values of a primitive type are reported in their
// boxed form, so the dynamic type of 5 is *int.
func DynamicType(v any) *Type {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if isNillable(rv.Type()) && rv.IsNil() {
		return nil
	}
	return Describe(rv.Type()).Boxed()
}

func (t *Type) GoType() reflect.Type {
	return t.goType
}

func (t *Type) Name() string {
	return t.goType.String()
}

func (t *Type) String() string {
	return t.Name()
}

// IsPrimitive reports whether values of t can never be nil.
func (t *Type) IsPrimitive() bool {
	_, found := primitiveKinds[t.goType.Kind()]
	return found
}

// Boxed returns the boxed equivalent of a primitive type, and t itself for
// reference types.
func (t *Type) Boxed() *Type {
	if !t.IsPrimitive() {
		return t
	}
	return &Type{goType: reflect.PointerTo(t.goType)}
}

// Equal reports whether t and other describe the same Go type.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.goType == other.goType
}

// AssignableFrom reports whether a value of type other may be bound to t.
func (t *Type) AssignableFrom(other *Type) bool {
	return other.goType.AssignableTo(t.goType)
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}
