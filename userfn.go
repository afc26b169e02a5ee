package jmespath

import (
	"fmt"
	"strings"
)

// ExpressionEvaluator adapts an expression-reference argument into a plain
// Go closure, for user-defined functions that accept an expref the way
// map/sort_by/max_by/min_by do.
type ExpressionEvaluator func(value interface{}) (interface{}, error)

// NewExpressionEvaluator builds an ExpressionEvaluator from the raw
// arguments a handler receives for an expref-typed parameter: the
// *treeInterpreter CallFunction prepends, and the expRef resolved for that
// argument position.
func NewExpressionEvaluator(intrArg interface{}, expArg interface{}) ExpressionEvaluator {
	intr := intrArg.(*treeInterpreter)
	node := expArg.(expRef).ref
	return func(value interface{}) (interface{}, error) {
		return intr.Execute(node, value)
	}
}

// RegisterFunction adds a user-defined function to this compiled
// expression's function table. It is sugar over WithFunction for callers
// who already hold a *JMESPath from Compile and want to extend it
// afterward, rather than passing every function at Compile time.
func (jp *JMESPath) RegisterFunction(name string, args string, variadic bool, handler func([]interface{}) (interface{}, error)) error {
	entry, err := buildFunctionEntry(name, args, variadic, handler)
	if err != nil {
		return err
	}
	jp.functions.functionTable[name] = entry
	return nil
}

// buildFunctionEntry parses the teacher's "number|string,array" argument
// spec grammar into a functionEntry. Any argument position whose type list
// includes expref is treated as unresolved: the interpreter passes the raw
// expRef rather than evaluating it against the current value (spec §4.7).
func buildFunctionEntry(name string, args string, variadic bool, handler func([]interface{}) (interface{}, error)) (functionEntry, error) {
	hasExpRef := false
	var arguments []argSpec
	for _, arg := range strings.Split(args, ",") {
		var argTypes []jpType
		resolve := true
		for _, argType := range strings.Split(arg, "|") {
			switch t := jpType(argType); t {
			case jpExpref:
				hasExpRef = true
				resolve = false
				fallthrough
			case jpNumber, jpString, jpArray, jpObject, jpArrayNumber, jpArrayString, jpAny:
				argTypes = append(argTypes, t)
			default:
				return functionEntry{}, fmt.Errorf("unknown argument type: %s", argType)
			}
		}
		arguments = append(arguments, argSpec{types: argTypes, resolve: resolve})
	}
	if variadic {
		if len(arguments) == 0 {
			return functionEntry{}, fmt.Errorf("variadic functions require at least one argument")
		}
		arguments[len(arguments)-1].variadic = true
	}
	return functionEntry{
		name:      name,
		arguments: arguments,
		handler:   handler,
		hasExpRef: hasExpRef,
	}, nil
}
