package jmespath

import "strconv"

// JMESPath is the representation of a compiled JMES path query. A JMESPath
// is safe for concurrent use by multiple goroutines: evaluation state lives
// entirely in the per-call treeInterpreter (see interpreter.go), never on
// JMESPath itself, so the same compiled expression can be handed to many
// goroutines at once without coordination (spec §5).
type JMESPath struct {
	ast       ASTNode
	functions *functionCaller
}

// Option configures a JMESPath at compile time.
type Option func(*JMESPath)

// WithFunction registers a user-defined function under the given name,
// available to the expression being compiled. args is a comma-separated
// list of argument type specs, each itself a "|"-separated list of the
// jpType names (number, string, array, object, array-number, array-string,
// expref, any); a trailing argument marked variadic accepts one or more
// values of its spec. This generalizes the teacher's post-hoc
// RegisterFunction into the same functional-options shape Compile's other
// settings would use.
func WithFunction(name string, args string, variadic bool, handler func([]interface{}) (interface{}, error)) Option {
	return func(jp *JMESPath) {
		entry, err := buildFunctionEntry(name, args, variadic, handler)
		if err != nil {
			return
		}
		jp.functions.functionTable[name] = entry
	}
}

// Compile parses a JMESPath expression and returns, if successful, a
// JMESPath object that can be used to match against data. Unknown function
// names and function calls with the wrong number of arguments are rejected
// here, at compile time, rather than surfacing only when Search is called
// (spec §3.3, §7).
func Compile(expression string, opts ...Option) (*JMESPath, error) {
	parser := NewParser()
	ast, err := parser.Parse(expression)
	if err != nil {
		return nil, err
	}
	jp := &JMESPath{ast: ast, functions: newFunctionCaller()}
	for _, opt := range opts {
		opt(jp)
	}
	if err := validateFunctionCalls(jp.ast, jp.functions); err != nil {
		return nil, err
	}
	return jp, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables holding compiled
// JMESPaths.
func MustCompile(expression string, opts ...Option) *JMESPath {
	jmespath, err := Compile(expression, opts...)
	if err != nil {
		panic(`jmespath: Compile(` + strconv.Quote(expression) + `): ` + err.Error())
	}
	return jmespath
}

// Search evaluates a JMESPath expression against input data and returns the result.
func (jp *JMESPath) Search(data interface{}) (interface{}, error) {
	intr := newInterpreterWithFunctions(data, jp.functions)
	return intr.Execute(jp.ast, data)
}

// Search evaluates a JMESPath expression against input data and returns the result.
func Search(expression string, data interface{}) (interface{}, error) {
	jp, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return jp.Search(data)
}

// validateFunctionCalls walks the compiled tree checking that every
// FunctionExpression names a registered function with a satisfiable arity,
// so that a typo'd or unregistered function name fails Compile rather than
// Search (spec §3.3, §7).
func validateFunctionCalls(node ASTNode, functions *functionCaller) error {
	if node.NodeType == ASTFunctionExpression {
		name := node.Value.(string)
		entry, ok := functions.functionTable[name]
		if !ok {
			return &UnknownFunctionError{Name: name}
		}
		if len(entry.arguments) > 0 {
			count := len(node.Children)
			variadic := isVariadic(entry.arguments)
			minExpected := getMinExpected(entry.arguments)
			maxExpected, hasMax := getMaxExpected(entry.arguments)
			if count < minExpected {
				return notEnoughArgumentsSupplied(name, count, minExpected, variadic)
			}
			if hasMax && count > maxExpected {
				return tooManyArgumentsSupplied(name, count, maxExpected)
			}
		}
	}
	for _, child := range node.Children {
		if err := validateFunctionCalls(child, functions); err != nil {
			return err
		}
	}
	return nil
}
