package reactive

import (
	"math"
	"reflect"
)

// sameValue reports whether a write of b over a is a no-op, so no trigger
// should fire. The comparison is identity-like: scalars compare by value
// (with NaN considered equal to NaN, so repeated NaN writes don't re-run
// effects), reference kinds compare by referent, and everything else falls
// back to == when the type supports it. Two distinct containers with equal
// contents are a real change.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch av := a.(type) {
	case float64:
		bv := b.(float64)
		if math.IsNaN(av) && math.IsNaN(bv) {
			return true
		}
		return av == bv
	case float32:
		bv := b.(float32)
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}
		return av == bv
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		string, bool:
		return a == b
	}

	ra := reflect.ValueOf(a)
	switch ra.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		rb := reflect.ValueOf(b)
		if ra.Kind() == reflect.Slice {
			// Slices are not comparable; same backing array start and
			// length is as close to identity as Go offers.
			return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
		}
		return ra.Pointer() == rb.Pointer()
	}

	if ta.Comparable() {
		return a == b
	}
	return false
}
