package pic

import (
	"errors"
	"reflect"
	"testing"
)

func TestAsArray(Te *testing.T) {
	cases := []struct {
		in    interface{}
		shape []int
		data  []float64
	}{
		{[]float64{1, 2}, []int{2}, []float64{1, 2}},
		{[]int32{1, 2, 3}, []int{3}, []float64{1, 2, 3}},
		{[][]float32{{1, 2}, {3, 4}, {5, 6}}, []int{3, 2}, []float64{1, 2, 3, 4, 5, 6}},
		{[]interface{}{int64(4), float64(5)}, []int{2}, []float64{4, 5}},
		{int64(7), []int{}, []float64{7}},
		{uint8(3), []int{}, []float64{3}},
	}
	for _, c := range cases {
		a, err := AsArray(c.in)
		if err != nil {
			Te.Errorf("%T: %v", c.in, err)
			continue
		}
		if !reflect.DeepEqual(a.Shape, c.shape) || !reflect.DeepEqual(a.Data, c.data) {
			Te.Errorf("%T: got %v %v, want %v %v", c.in, a.Shape, a.Data, c.shape, c.data)
		}
	}
	for _, bad := range []interface{}{"Epoch2d", [][]float64{{1, 2}, {3}}, []string{"a"}, nil} {
		if _, err := AsArray(bad); !errors.Is(err, ErrFormat) {
			Te.Errorf("%v: expected ErrFormat, got %v", bad, err)
		}
	}
}

func TestNewArray(Te *testing.T) {
	a, err := NewArray([]float64{1, 2, 3, 4}, 2, 2)
	if err != nil || a.Dims() != 2 || a.Len() != 4 {
		Te.Errorf("NewArray: %v %v", a, err)
	}
	b, _ := NewArray([]float64{1, 2, 3})
	if !reflect.DeepEqual(b.Shape, []int{3}) {
		Te.Errorf("default shape %v", b.Shape)
	}
	if _, err := NewArray([]float64{1, 2, 3}, 2, 2); !errors.Is(err, ErrFormat) {
		Te.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestAsScalars(Te *testing.T) {
	if f, err := AsFloat(float32(0.5)); err != nil || f != 0.5 {
		Te.Errorf("AsFloat: %v %v", f, err)
	}
	if f, err := AsFloat([]int64{3}); err != nil || f != 3 {
		Te.Errorf("AsFloat of a one-element slice: %v %v", f, err)
	}
	if _, err := AsFloat([]float64{1, 2}); !errors.Is(err, ErrFormat) {
		Te.Errorf("AsFloat of a slice: expected ErrFormat, got %v", err)
	}
	if s, err := AsString([]byte("Epoch3d")); err != nil || s != "Epoch3d" {
		Te.Errorf("AsString: %v %v", s, err)
	}
	if _, err := AsString(3.0); !errors.Is(err, ErrFormat) {
		Te.Errorf("AsString of a number: expected ErrFormat, got %v", err)
	}
}
