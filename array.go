package pic

import (
	"fmt"
	"reflect"
)

// Array is a stored numeric dataset, flattened in row-major order (the last
// index changes fastest). A scalar has an empty Shape and one element.
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray returns an Array with the given data and shape. If no shape is
// given, the array is one-dimensional.
func NewArray(data []float64, shape ...int) (*Array, error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	if n := prod(shape); n != len(data) {
		return nil, NewError(ErrFormat, "", "NewArray", "shape %v needs %d elements, %d given", shape, n, len(data))
	}
	return &Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Len returns the number of elements in the array.
func (A *Array) Len() int { return len(A.Data) }

// Dims returns the number of dimensions of the array.
func (A *Array) Dims() int { return len(A.Shape) }

func (A *Array) String() string {
	return fmt.Sprintf("Array%v", A.Shape)
}

func prod(shape []int) int {
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

// AsArray converts a raw stored value into an *Array. Numeric scalars
// become zero-dimensional arrays; nested slices of any numeric type are
// flattened row-major, and must not be ragged.
func AsArray(v interface{}) (*Array, error) {
	switch t := v.(type) {
	case *Array:
		return t, nil
	case Array:
		return &t, nil
	case []float64:
		return &Array{Shape: []int{len(t)}, Data: t}, nil
	case float64:
		return &Array{Shape: []int{}, Data: []float64{t}}, nil
	case string, []string, nil:
		return nil, NewError(ErrFormat, "", "AsArray", "%T is not numeric", v)
	}
	rv := reflect.ValueOf(v)
	shape := []int{}
	for k := rv; ; k = k.Index(0) {
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if k.Kind() != reflect.Slice && k.Kind() != reflect.Array {
			break
		}
		shape = append(shape, k.Len())
		if k.Len() == 0 {
			break
		}
	}
	data := make([]float64, 0, prod(shape))
	data, err := flatten(rv, shape, data)
	if err != nil {
		return nil, err
	}
	return &Array{Shape: shape, Data: data}, nil
}

func flatten(rv reflect.Value, shape []int, dst []float64) ([]float64, error) {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, NewError(ErrFormat, "", "AsArray", "nil element")
	}
	if len(shape) == 0 {
		f, ok := toFloat(rv)
		if !ok {
			return nil, NewError(ErrFormat, "", "AsArray", "%s is not numeric", rv.Type())
		}
		return append(dst, f), nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, NewError(ErrFormat, "", "AsArray", "ragged array")
	}
	if rv.Len() != shape[0] {
		return nil, NewError(ErrFormat, "", "AsArray", "ragged array: %d elements where %d expected", rv.Len(), shape[0])
	}
	var err error
	for i := 0; i < rv.Len(); i++ {
		dst, err = flatten(rv.Index(i), shape[1:], dst)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func toFloat(rv reflect.Value) (float64, bool) {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsFloat converts a raw scalar value (or a one-element array) to float64.
func AsFloat(v interface{}) (float64, error) {
	a, err := AsArray(v)
	if err != nil {
		return 0, err
	}
	if a.Len() != 1 {
		return 0, NewError(ErrFormat, "", "AsFloat", "expected a scalar, got %d values", a.Len())
	}
	return a.Data[0], nil
}

// AsString converts a raw value to a string. Byte slices are accepted,
// and a one-element string slice is unpacked.
func AsString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case []string:
		if len(t) == 1 {
			return t[0], nil
		}
	}
	return "", NewError(ErrFormat, "", "AsString", "%T is not a string", v)
}
