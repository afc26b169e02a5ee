package jmespath

import "fmt"

// ArityError reports a function call with the wrong number of arguments.
// It is produced by functionEntry.resolveArgs and is distinguishable from
// other failures via errors.As.
type ArityError struct {
	FunctionName string
	Supplied     int
	MinExpected  int
	MaxExpected  int
	HasMax       bool
	Variadic     bool
}

func (e *ArityError) Error() string {
	if e.HasMax && e.Supplied > e.MaxExpected {
		return fmt.Sprintf(
			"invalid arity, the function '%s' expects at most %d arguments but %d were supplied",
			e.FunctionName, e.MaxExpected, e.Supplied)
	}

	more, only := "", ""
	if e.Variadic {
		more, only = "or more ", "only "
	}
	report := fmt.Sprintf("%s%d ", only, e.Supplied)
	if e.Supplied == 0 {
		report = "none "
	}
	plural := ""
	if e.MinExpected > 1 {
		plural = "s"
	}
	return fmt.Sprintf(
		"invalid arity, the function '%s' expects %d argument%s %sbut %swere supplied",
		e.FunctionName, e.MinExpected, plural, more, report)
}

func notEnoughArgumentsSupplied(name string, count int, minExpected int, variadic bool) error {
	return &ArityError{
		FunctionName: name,
		Supplied:     count,
		MinExpected:  minExpected,
		Variadic:     variadic,
	}
}

func tooManyArgumentsSupplied(name string, count int, maxExpected int) error {
	return &ArityError{
		FunctionName: name,
		Supplied:     count,
		MaxExpected:  maxExpected,
		HasMax:       true,
	}
}

// JMESPathTypeError is raised when a function argument does not match its
// declared type signature (spec §4.7, §6.4, §7). It carries enough context
// for a caller to report exactly which value and function were involved,
// mirroring jmespath/ast.py's JMESPathTypeError.
type JMESPathTypeError struct {
	FunctionName  string
	CurrentValue  interface{}
	ActualType    jpType
	ExpectedTypes []jpType
}

func (e *JMESPathTypeError) Error() string {
	return fmt.Sprintf(
		"In function %s(), invalid type for value: %v, expected one of: %v, received: %q",
		e.FunctionName, e.CurrentValue, e.ExpectedTypes, e.ActualType)
}

// SliceError is returned for a malformed slice expression, e.g. a zero
// step, mirroring jmespath/jputil/util.go's own slice-step validation.
type SliceError struct {
	Msg string
}

func (e *SliceError) Error() string {
	return e.Msg
}

// UnknownFunctionError is returned when a FunctionExpression names a
// function that is not registered at compile time (spec §3.3, §7).
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return "unknown function: " + e.Name
}
