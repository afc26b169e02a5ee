package jmespath

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

type jpFunction func(arguments []interface{}) (interface{}, error)

type jpType string

const (
	jpNumber      jpType = "number"
	jpString      jpType = "string"
	jpArray       jpType = "array"
	jpObject      jpType = "object"
	jpBoolean     jpType = "boolean"
	jpNull        jpType = "null"
	jpArrayNumber jpType = "array-number"
	jpArrayString jpType = "array-string"
	jpExpref      jpType = "expref"
	jpAny         jpType = "any"
)

// functionEntry is the runtime representation of a built-in's signature
// (spec §4.7): an ordered argSpec list plus a variadic flag, bound to a
// Go handler. hasExpRef marks the higher-order functions (map, sort_by,
// max_by, min_by) whose handler needs access to the tree interpreter to
// evaluate an expression-reference argument per element.
type functionEntry struct {
	name      string
	arguments []argSpec
	handler   jpFunction
	hasExpRef bool
}

// argSpec is spec §4.7's (resolve, types) pair, plus the bookkeeping Go
// needs to zip a variable argv against a fixed signature.
type argSpec struct {
	types    []jpType
	variadic bool
	optional bool
	resolve  bool
}

type functionCaller struct {
	functionTable map[string]functionEntry
}

func newFunctionCaller() *functionCaller {
	return &functionCaller{functionTable: defaultFunctionTable()}
}

// clone returns a copy of the caller with an independent function table,
// so that RegisterFunction/WithFunction on one compiled expression never
// mutates another's (spec §5: no global mutable state).
func (f *functionCaller) clone() *functionCaller {
	table := make(map[string]functionEntry, len(f.functionTable))
	for k, v := range f.functionTable {
		table[k] = v
	}
	return &functionCaller{functionTable: table}
}

func defaultFunctionTable() map[string]functionEntry {
	return map[string]functionEntry{
		"not_null": {
			name:      "not_null",
			arguments: []argSpec{{types: []jpType{jpAny}, variadic: true, resolve: true}},
			handler:   jpfNotNull,
		},
		"abs": {
			name:      "abs",
			arguments: []argSpec{{types: []jpType{jpNumber}, resolve: true}},
			handler:   jpfAbs,
		},
		"avg": {
			name:      "avg",
			arguments: []argSpec{{types: []jpType{jpArrayNumber}, resolve: true}},
			handler:   jpfAvg,
		},
		"ceil": {
			name:      "ceil",
			arguments: []argSpec{{types: []jpType{jpNumber}, resolve: true}},
			handler:   jpfCeil,
		},
		"floor": {
			name:      "floor",
			arguments: []argSpec{{types: []jpType{jpNumber}, resolve: true}},
			handler:   jpfFloor,
		},
		"contains": {
			name: "contains",
			arguments: []argSpec{
				{types: []jpType{jpArray, jpString}, resolve: true},
				{types: []jpType{jpAny}, resolve: true},
			},
			handler: jpfContains,
		},
		"join": {
			name: "join",
			arguments: []argSpec{
				{types: []jpType{jpString}, resolve: true},
				{types: []jpType{jpArrayString}, resolve: true},
			},
			handler: jpfJoin,
		},
		"keys": {
			name:      "keys",
			arguments: []argSpec{{types: []jpType{jpObject}, resolve: true}},
			handler:   jpfKeys,
		},
		"values": {
			name:      "values",
			arguments: []argSpec{{types: []jpType{jpObject}, resolve: true}},
			handler:   jpfValues,
		},
		"length": {
			name:      "length",
			arguments: []argSpec{{types: []jpType{jpString, jpArray, jpObject}, resolve: true}},
			handler:   jpfLength,
		},
		"max": {
			name:      "max",
			arguments: []argSpec{{types: []jpType{jpArrayNumber, jpArrayString}, resolve: true}},
			handler:   jpfMax,
		},
		"min": {
			name:      "min",
			arguments: []argSpec{{types: []jpType{jpArrayNumber, jpArrayString}, resolve: true}},
			handler:   jpfMin,
		},
		"max_by": {
			name: "max_by",
			arguments: []argSpec{
				{types: []jpType{jpArray}, resolve: true},
				{types: []jpType{jpExpref}, resolve: false},
			},
			handler:   jpfMaxBy,
			hasExpRef: true,
		},
		"min_by": {
			name: "min_by",
			arguments: []argSpec{
				{types: []jpType{jpArray}, resolve: true},
				{types: []jpType{jpExpref}, resolve: false},
			},
			handler:   jpfMinBy,
			hasExpRef: true,
		},
		"map": {
			name: "map",
			arguments: []argSpec{
				{types: []jpType{jpExpref}, resolve: false},
				{types: []jpType{jpArray}, resolve: true},
			},
			handler:   jpfMap,
			hasExpRef: true,
		},
		"merge": {
			name:      "merge",
			arguments: []argSpec{{types: []jpType{jpObject}, variadic: true, resolve: true}},
			handler:   jpfMerge,
		},
		"sort": {
			name:      "sort",
			arguments: []argSpec{{types: []jpType{jpArrayString, jpArrayNumber}, resolve: true}},
			handler:   jpfSort,
		},
		"sort_by": {
			name: "sort_by",
			arguments: []argSpec{
				{types: []jpType{jpArray}, resolve: true},
				{types: []jpType{jpExpref}, resolve: false},
			},
			handler:   jpfSortBy,
			hasExpRef: true,
		},
		"to_array": {
			name:      "to_array",
			arguments: []argSpec{{types: []jpType{jpAny}, resolve: true}},
			handler:   jpfToArray,
		},
		"to_string": {
			name:      "to_string",
			arguments: []argSpec{{types: []jpType{jpAny}, resolve: true}},
			handler:   jpfToString,
		},
		"to_number": {
			name:      "to_number",
			arguments: []argSpec{{types: []jpType{jpAny}, resolve: true}},
			handler:   jpfToNumber,
		},
		"type": {
			name:      "type",
			arguments: []argSpec{{types: []jpType{jpAny}, resolve: true}},
			handler:   jpfType,
		},
	}
}

func (e *functionEntry) resolveArgs(arguments []interface{}) ([]interface{}, error) {
	if len(e.arguments) == 0 {
		return arguments, nil
	}

	variadic := isVariadic(e.arguments)
	minExpected := getMinExpected(e.arguments)
	maxExpected, hasMax := getMaxExpected(e.arguments)
	count := len(arguments)

	if count < minExpected {
		return nil, notEnoughArgumentsSupplied(e.name, count, minExpected, variadic)
	}
	if hasMax && count > maxExpected {
		return nil, tooManyArgumentsSupplied(e.name, count, maxExpected)
	}

	for i, spec := range e.arguments {
		if i >= len(arguments) {
			continue
		}
		if spec.variadic {
			continue
		}
		if err := spec.typeCheck(e.name, arguments[i]); err != nil {
			return nil, err
		}
	}
	lastIndex := len(e.arguments) - 1
	lastArg := e.arguments[lastIndex]
	if lastArg.variadic {
		for i := lastIndex; i < len(arguments); i++ {
			if err := lastArg.typeCheck(e.name, arguments[i]); err != nil {
				return nil, err
			}
		}
	}
	return arguments, nil
}

func isVariadic(arguments []argSpec) bool {
	for _, spec := range arguments {
		if spec.variadic {
			return true
		}
	}
	return false
}

func getMinExpected(arguments []argSpec) int {
	expected := 0
	for _, spec := range arguments {
		if !spec.optional {
			expected++
		}
	}
	return expected
}

func getMaxExpected(arguments []argSpec) (int, bool) {
	if isVariadic(arguments) {
		return 0, false
	}
	return len(arguments), true
}

// typeCheck validates a resolved argument's concrete kind against the
// allowed set (spec §4.7 steps 3-4), returning a structured
// JMESPathTypeError that names the offending value and, for array
// subtypes, the first element whose kind breaks the run established by
// the array's first element.
func (a *argSpec) typeCheck(functionName string, arg interface{}) error {
	for _, t := range a.types {
		switch t {
		case jpNumber:
			if _, ok := arg.(float64); ok {
				return nil
			}
		case jpString:
			if _, ok := arg.(string); ok {
				return nil
			}
		case jpArray:
			if isSliceType(arg) {
				return nil
			}
		case jpObject:
			if isObject(arg) {
				return nil
			}
		case jpArrayNumber:
			if _, ok := toArrayNum(arg); ok {
				return nil
			}
		case jpArrayString:
			if _, ok := toArrayStr(arg); ok {
				return nil
			}
		case jpExpref:
			if _, ok := arg.(expRef); ok {
				return nil
			}
		case jpAny:
			return nil
		}
	}
	if items, ok := arg.([]interface{}); ok && len(items) > 0 &&
		(containsJPType(a.types, jpArrayNumber) || containsJPType(a.types, jpArrayString)) {
		return arraySubtypeError(functionName, items, a.types)
	}
	return &JMESPathTypeError{
		FunctionName:  functionName,
		CurrentValue:  arg,
		ActualType:    jpTypeOf(arg),
		ExpectedTypes: a.types,
	}
}

func containsJPType(types []jpType, want jpType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// arraySubtypeError implements spec §4.7 point 4: the first element's
// kind selects the expected element type, and the first later element
// that breaks that run is reported as the offending value.
func arraySubtypeError(functionName string, items []interface{}, types []jpType) error {
	want := jpTypeOf(items[0])
	for _, item := range items[1:] {
		if jpTypeOf(item) != want {
			return &JMESPathTypeError{
				FunctionName:  functionName,
				CurrentValue:  item,
				ActualType:    jpTypeOf(item),
				ExpectedTypes: types,
			}
		}
	}
	return &JMESPathTypeError{
		FunctionName:  functionName,
		CurrentValue:  items[0],
		ActualType:    want,
		ExpectedTypes: types,
	}
}

func jpTypeOf(v interface{}) jpType {
	switch t := v.(type) {
	case nil:
		return jpNull
	case bool:
		return jpBoolean
	case float64:
		return jpNumber
	case string:
		return jpString
	case map[string]interface{}:
		return jpObject
	case expRef:
		return jpExpref
	default:
		if isSliceType(t) {
			return jpArray
		}
		if isObject(t) {
			return jpObject
		}
		return jpAny
	}
}

func (f *functionCaller) CallFunction(name string, arguments []interface{}, intr *treeInterpreter) (interface{}, error) {
	entry, ok := f.functionTable[name]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	resolvedArgs, err := entry.resolveArgs(arguments)
	if err != nil {
		return nil, err
	}
	if entry.hasExpRef {
		extra := make([]interface{}, 0, len(resolvedArgs)+1)
		extra = append(extra, intr)
		resolvedArgs = append(extra, resolvedArgs...)
	}
	return entry.handler(resolvedArgs)
}

func jpfNotNull(arguments []interface{}) (interface{}, error) {
	for _, argument := range arguments {
		if argument != nil {
			return argument, nil
		}
	}
	return nil, nil
}

func jpfAbs(arguments []interface{}) (interface{}, error) {
	return math.Abs(arguments[0].(float64)), nil
}

func jpfAvg(arguments []interface{}) (interface{}, error) {
	args, _ := toArrayNum(arguments[0])
	if len(args) == 0 {
		return nil, nil
	}
	total := 0.0
	for _, n := range args {
		total += n
	}
	return total / float64(len(args)), nil
}

func jpfCeil(arguments []interface{}) (interface{}, error) {
	return math.Ceil(arguments[0].(float64)), nil
}

func jpfFloor(arguments []interface{}) (interface{}, error) {
	return math.Floor(arguments[0].(float64)), nil
}

func jpfContains(arguments []interface{}) (interface{}, error) {
	subject := arguments[0]
	needle := arguments[1]
	if s, ok := subject.(string); ok {
		el, ok := needle.(string)
		if !ok {
			return false, nil
		}
		return strings.Contains(s, el), nil
	}
	items, ok := subject.([]interface{})
	if !ok {
		return false, nil
	}
	for _, item := range items {
		if objsEqual(item, needle) {
			return true, nil
		}
	}
	return false, nil
}

func jpfJoin(arguments []interface{}) (interface{}, error) {
	sep := arguments[0].(string)
	items, _ := toArrayStr(arguments[1])
	return strings.Join(items, sep), nil
}

func jpfKeys(arguments []interface{}) (interface{}, error) {
	arg := toObject(arguments[0])
	collected := make([]interface{}, 0, len(arg))
	for key := range arg {
		collected = append(collected, key)
	}
	return collected, nil
}

func jpfValues(arguments []interface{}) (interface{}, error) {
	arg := toObject(arguments[0])
	collected := make([]interface{}, 0, len(arg))
	for _, value := range arg {
		collected = append(collected, value)
	}
	return collected, nil
}

func jpfLength(arguments []interface{}) (interface{}, error) {
	arg := arguments[0]
	if _, ok := arg.(bool); ok {
		return nil, nil
	}
	if s, ok := arg.(string); ok {
		return float64(utf8.RuneCountInString(s)), nil
	}
	if isSliceType(arg) {
		return float64(reflect.ValueOf(arg).Len()), nil
	}
	if isObject(arg) {
		return float64(len(toObject(arg))), nil
	}
	return nil, errors.New("could not compute length()")
}

func jpfMax(arguments []interface{}) (interface{}, error) {
	if items, ok := toArrayNum(arguments[0]); ok {
		if len(items) == 0 {
			return nil, nil
		}
		best := items[0]
		for _, v := range items[1:] {
			if v > best {
				best = v
			}
		}
		return best, nil
	}
	items, _ := toArrayStr(arguments[0])
	if len(items) == 0 {
		return nil, nil
	}
	best := items[0]
	for _, v := range items[1:] {
		if v > best {
			best = v
		}
	}
	return best, nil
}

func jpfMin(arguments []interface{}) (interface{}, error) {
	if items, ok := toArrayNum(arguments[0]); ok {
		if len(items) == 0 {
			return nil, nil
		}
		best := items[0]
		for _, v := range items[1:] {
			if v < best {
				best = v
			}
		}
		return best, nil
	}
	items, _ := toArrayStr(arguments[0])
	if len(items) == 0 {
		return nil, nil
	}
	best := items[0]
	for _, v := range items[1:] {
		if v < best {
			best = v
		}
	}
	return best, nil
}

func jpfMaxBy(arguments []interface{}) (interface{}, error) {
	return jpfExtremumBy("max_by", arguments,
		func(a, b float64) bool { return a > b },
		func(a, b string) bool { return a > b })
}

func jpfMinBy(arguments []interface{}) (interface{}, error) {
	return jpfExtremumBy("min_by", arguments,
		func(a, b float64) bool { return a < b },
		func(a, b string) bool { return a < b })
}

// sortKeyTypeError reports a key expression (for sort_by/max_by/min_by)
// that did not resolve to a number or string, or that disagreed in kind
// with the first element's key — spec.md's Open Question on mixed-kind
// sort_by keys is resolved by raising this rather than guessing an
// ordering.
func sortKeyTypeError(functionName string, value interface{}) error {
	return &JMESPathTypeError{
		FunctionName:  functionName,
		CurrentValue:  value,
		ActualType:    jpTypeOf(value),
		ExpectedTypes: []jpType{jpNumber, jpString},
	}
}

func jpfExtremumBy(name string, arguments []interface{}, numBetter func(a, b float64) bool, strBetter func(a, b string) bool) (interface{}, error) {
	intr := arguments[0].(*treeInterpreter)
	arr := arguments[1].([]interface{})
	node := arguments[2].(expRef).ref
	if len(arr) == 0 {
		return nil, nil
	}
	if len(arr) == 1 {
		return arr[0], nil
	}
	start, err := intr.Execute(node, arr[0])
	if err != nil {
		return nil, err
	}
	switch t := start.(type) {
	case float64:
		bestVal, bestItem := t, arr[0]
		for _, item := range arr[1:] {
			result, err := intr.Execute(node, item)
			if err != nil {
				return nil, err
			}
			current, ok := result.(float64)
			if !ok {
				return nil, sortKeyTypeError(name, result)
			}
			if numBetter(current, bestVal) {
				bestVal, bestItem = current, item
			}
		}
		return bestItem, nil
	case string:
		bestVal, bestItem := t, arr[0]
		for _, item := range arr[1:] {
			result, err := intr.Execute(node, item)
			if err != nil {
				return nil, err
			}
			current, ok := result.(string)
			if !ok {
				return nil, sortKeyTypeError(name, result)
			}
			if strBetter(current, bestVal) {
				bestVal, bestItem = current, item
			}
		}
		return bestItem, nil
	default:
		return nil, sortKeyTypeError(name, start)
	}
}

func jpfMap(arguments []interface{}) (interface{}, error) {
	intr := arguments[0].(*treeInterpreter)
	node := arguments[1].(expRef).ref
	arr := arguments[2].([]interface{})
	mapped := make([]interface{}, 0, len(arr))
	for _, value := range arr {
		current, err := intr.Execute(node, value)
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, current)
	}
	return mapped, nil
}

func jpfMerge(arguments []interface{}) (interface{}, error) {
	final := make(map[string]interface{})
	for _, m := range arguments {
		for key, value := range toObject(m) {
			final[key] = value
		}
	}
	return final, nil
}

func jpfSort(arguments []interface{}) (interface{}, error) {
	if items, ok := toArrayNum(arguments[0]); ok {
		sorted := append([]float64(nil), items...)
		slices.SortStableFunc(sorted, func(a, b float64) bool { return a < b })
		final := make([]interface{}, len(sorted))
		for i, val := range sorted {
			final[i] = val
		}
		return final, nil
	}
	items, _ := toArrayStr(arguments[0])
	sorted := append([]string(nil), items...)
	slices.SortStableFunc(sorted, func(a, b string) bool { return a < b })
	final := make([]interface{}, len(sorted))
	for i, val := range sorted {
		final[i] = val
	}
	return final, nil
}

func jpfSortBy(arguments []interface{}) (interface{}, error) {
	intr := arguments[0].(*treeInterpreter)
	arr := arguments[1].([]interface{})
	node := arguments[2].(expRef).ref
	if len(arr) < 2 {
		return arr, nil
	}
	start, err := intr.Execute(node, arr[0])
	if err != nil {
		return nil, err
	}
	sorted := make([]interface{}, len(arr))
	copy(sorted, arr)
	switch start.(type) {
	case float64:
		keys := make([]float64, len(arr))
		keys[0] = start.(float64)
		for i, item := range arr[1:] {
			result, err := intr.Execute(node, item)
			if err != nil {
				return nil, err
			}
			f, ok := result.(float64)
			if !ok {
				return nil, sortKeyTypeError("sort_by", result)
			}
			keys[i+1] = f
		}
		stableSortByKey(sorted, func(a, b int) bool { return keys[a] < keys[b] })
	case string:
		keys := make([]string, len(arr))
		keys[0] = start.(string)
		for i, item := range arr[1:] {
			result, err := intr.Execute(node, item)
			if err != nil {
				return nil, err
			}
			s, ok := result.(string)
			if !ok {
				return nil, sortKeyTypeError("sort_by", result)
			}
			keys[i+1] = s
		}
		stableSortByKey(sorted, func(a, b int) bool { return keys[a] < keys[b] })
	default:
		return nil, sortKeyTypeError("sort_by", start)
	}
	return sorted, nil
}

// stableSortByKey stable-sorts items in place, comparing by the original
// index each item came from so a precomputed per-index key slice can
// drive the ordering.
func stableSortByKey(items []interface{}, less func(origA, origB int) bool) {
	type indexed struct {
		idx   int
		value interface{}
	}
	tmp := make([]indexed, len(items))
	for i, v := range items {
		tmp[i] = indexed{i, v}
	}
	slices.SortStableFunc(tmp, func(a, b indexed) bool {
		return less(a.idx, b.idx)
	})
	for i, v := range tmp {
		items[i] = v.value
	}
}

func jpfToArray(arguments []interface{}) (interface{}, error) {
	if _, ok := arguments[0].([]interface{}); ok {
		return arguments[0], nil
	}
	return arguments[:1:1], nil
}

func jpfToString(arguments []interface{}) (interface{}, error) {
	if v, ok := arguments[0].(string); ok {
		return v, nil
	}
	result, err := json.Marshal(arguments[0])
	if err != nil {
		return nil, err
	}
	return string(result), nil
}

func jpfToNumber(arguments []interface{}) (interface{}, error) {
	arg := arguments[0]
	if v, ok := arg.(float64); ok {
		return v, nil
	}
	if v, ok := arg.(string); ok {
		conv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil
		}
		return conv, nil
	}
	return nil, nil
}

func jpfType(arguments []interface{}) (interface{}, error) {
	arg := arguments[0]
	switch arg.(type) {
	case string:
		return "string", nil
	case bool:
		return "boolean", nil
	}
	if isSliceType(arg) {
		return "array", nil
	}
	if isObject(arg) {
		return "object", nil
	}
	if _, ok := arg.(float64); ok {
		return "number", nil
	}
	if arg == nil {
		return "null", nil
	}
	return nil, fmt.Errorf("unknown type for value: %v", arg)
}
