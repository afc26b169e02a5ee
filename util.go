package jmespath

import "reflect"

// isSliceType reports whether v is a JSON array as the evaluator
// represents it: the common []interface{} shape produced by
// encoding/json, or any other slice/array kind reachable via reflection
// (grounded on object.go's reflect-based object support, extended to
// arrays so structs-of-structs round-trip the same way maps do).
func isSliceType(v interface{}) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]interface{}); ok {
		return true
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

// toArrayNum converts v to a []float64 iff v is an array and every
// element is a number; used by the "array-number" argument type and by
// avg/max/min/sort's number path.
func toArrayNum(v interface{}) ([]float64, bool) {
	items, ok := toInterfaceSlice(v)
	if !ok {
		return nil, false
	}
	result := make([]float64, len(items))
	for i, item := range items {
		n, ok := item.(float64)
		if !ok {
			return nil, false
		}
		result[i] = n
	}
	return result, true
}

// toArrayStr converts v to a []string iff v is an array and every
// element is a string.
func toArrayStr(v interface{}) ([]string, bool) {
	items, ok := toInterfaceSlice(v)
	if !ok {
		return nil, false
	}
	result := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		result[i] = s
	}
	return result, true
}

func toInterfaceSlice(v interface{}) ([]interface{}, bool) {
	if items, ok := v.([]interface{}); ok {
		return items, true
	}
	if !isSliceType(v) {
		return nil, false
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// objsEqual reports structural equality between two resolved JSON
// values, grounded on jmespath/jputil/util.go's ObjsEqual.
func objsEqual(left, right interface{}) bool {
	if left == nil || right == nil {
		return left == right
	}
	return reflect.DeepEqual(left, right)
}

// sliceSequence implements Python-style [start:stop:step] slicing over a
// resolved array, grounded on jmespath/jputil/util.go's Slice/
// computeSliceParams/capSlice. step defaults to 1 and may not be 0;
// start/stop default based on step's sign and are clamped into range.
func sliceSequence(items []interface{}, parts []*int) ([]interface{}, error) {
	step := 1
	if parts[2] != nil {
		step = *parts[2]
	}
	if step == 0 {
		return nil, &SliceError{Msg: "invalid slice, step cannot be 0"}
	}
	length := len(items)
	start := sliceDefaultStart(parts[0], step, length)
	stop := sliceDefaultStop(parts[1], step, length)

	result := make([]interface{}, 0)
	if step > 0 {
		for i := start; i < stop; i += step {
			if i >= 0 && i < length {
				result = append(result, items[i])
			}
		}
	} else {
		for i := start; i > stop; i += step {
			if i >= 0 && i < length {
				result = append(result, items[i])
			}
		}
	}
	return result, nil
}

func sliceDefaultStart(given *int, step, length int) int {
	if given != nil {
		return capSlice(length, *given, step)
	}
	if step < 0 {
		return length - 1
	}
	return 0
}

func sliceDefaultStop(given *int, step, length int) int {
	if given != nil {
		return capSlice(length, *given, step)
	}
	if step < 0 {
		return -1
	}
	return length
}

// capSlice clamps an out-of-range start/stop index into a value usable by
// sliceSequence's loop, branching on step's sign the way Python slicing
// does: an index still below zero after adding length clamps to -1 on a
// negative step but to 0 on a positive step; an index at or above length
// clamps to length-1 on a negative step but to length on a positive step.
func capSlice(length, actual, step int) int {
	if actual < 0 {
		actual += length
		if actual < 0 {
			if step < 0 {
				actual = -1
			} else {
				actual = 0
			}
		}
	} else if actual >= length {
		if step < 0 {
			actual = length - 1
		} else {
			actual = length
		}
	}
	return actual
}

// isFalsy implements spec §4.6's truthiness predicate: Null, false, "",
// [], and {} are falsy; everything else, including numeric 0, is truthy.
func isFalsy(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case bool:
		return !v
	case string:
		return len(v) == 0
	}
	if isSliceType(value) {
		items, _ := toInterfaceSlice(value)
		return len(items) == 0
	}
	if isObject(value) {
		return len(toObject(value)) == 0
	}
	return false
}
