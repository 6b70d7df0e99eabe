package collection

import (
	"cmp"
	"fmt"
	"reflect"
)

// Comparator returns a negative number when a sorts before b, zero when they
// are equivalent and a positive number otherwise.
type Comparator[T any] func(a, b T) int

// Comparer is implemented by items that carry their own natural ordering.
type Comparer[T any] interface {
	Compare(other T) int
}

// Equaler is implemented by items whose equality is not plain ==.
type Equaler[T any] interface {
	Equal(other T) bool
}

func equal[T comparable](a, b T) bool {
	if e, ok := any(a).(Equaler[T]); ok {
		return e.Equal(b)
	}
	return a == b
}

// compareFunc resolves the ordering used by sorted variants: the injected
// comparator when present, natural ordering otherwise.
func compareFunc[T any](comparator Comparator[T]) func(a, b T) (int, error) {
	if comparator != nil {
		return func(a, b T) (int, error) {
			return comparator(a, b), nil
		}
	}
	return naturalCompare[T]
}

func naturalCompare[T any](a, b T) (int, error) {

	if c, ok := any(a).(Comparer[T]); ok {
		return c.Compare(b), nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Kind() != vb.Kind() {
		return 0, fmt.Errorf("%w: %T has no natural ordering", ErrTypeMismatch, a)
	}

	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(va.Uint(), vb.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(va.Float(), vb.Float()), nil
	case reflect.String:
		return cmp.Compare(va.String(), vb.String()), nil
	}

	return 0, fmt.Errorf("%w: %T has no natural ordering", ErrTypeMismatch, a)
}
