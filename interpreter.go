package jmespath

import "reflect"

// projection is the distinguished sequence kind produced by wildcard,
// flatten, and filter nodes (spec §3.2). It is a named slice type rather
// than a wrapper with overridden methods (spec §9's REDESIGN FLAG on the
// "_Projection sequence-with-overridden-methods" pattern): its broadcast
// behavior lives entirely in how ASTProjection/ASTValueProjection/
// ASTFilterProjection build one, not in methods hung off the value
// itself. Downstream code that only cares "is this array-shaped" (the
// argument type checks in functions.go, JSON serialization at the
// boundary) sees it as a plain array via reflection, since its
// underlying kind is still Slice.
type projection []interface{}

// expRef is the runtime value produced by evaluating an ASTExpRef node,
// or by resolving a resolve=false function argument directly from its
// AST. It lets higher-order functions (map, sort_by, max_by, min_by)
// defer evaluation of an expression to per-element application.
type expRef struct {
	ref ASTNode
}

// treeInterpreter walks a compiled ASTNode tree against a JSON-shaped
// root value. It is single-use state scoped to one Execute call tree;
// spec §5 requires no global mutable state, so each Search/Execute gets
// its own instance (see newInterpreter), making concurrent evaluation of
// the same compiled JMESPath safe across goroutines.
type treeInterpreter struct {
	root      interface{}
	functions *functionCaller
}

func newInterpreter(root interface{}) *treeInterpreter {
	return &treeInterpreter{root: root, functions: newFunctionCaller()}
}

func newInterpreterWithFunctions(root interface{}, functions *functionCaller) *treeInterpreter {
	return &treeInterpreter{root: root, functions: functions}
}

// Execute is the evaluator's single entry point (spec §4.1, §6.2): given
// a compiled node and a current JSON value, it returns the node's
// result, or nil to signal "no match". Structural mismatches (wrong
// kind for an accessor, missing key, out-of-range index) are silent and
// collapse to nil; errors escape only from function calls (argument type
// and arity checks, and the handlers themselves) and from a slice whose
// step is zero.
func (intr *treeInterpreter) Execute(node ASTNode, value interface{}) (interface{}, error) {
	switch node.NodeType {
	case ASTEmpty, ASTIdentity:
		return value, nil

	case ASTCurrentNode:
		return value, nil

	case ASTLiteral:
		return node.Value, nil

	case ASTField:
		return intr.evalField(node, value)

	case ASTIndex:
		return intr.evalIndex(node, value)

	case ASTSlice:
		return intr.evalSlice(node, value)

	case ASTIndexExpression:
		source, err := intr.Execute(node.Children[0], value)
		if err != nil {
			return nil, err
		}
		return intr.Execute(node.Children[1], source)

	case ASTSubexpression, ASTPipe:
		left, err := intr.Execute(node.Children[0], value)
		if err != nil {
			return nil, err
		}
		return intr.Execute(node.Children[1], left)

	case ASTProjection:
		return intr.evalProjection(node, value)

	case ASTValueProjection:
		return intr.evalValueProjection(node, value)

	case ASTFilterProjection:
		return intr.evalFilterProjection(node, value)

	case ASTFlatten:
		return intr.evalFlatten(node, value)

	case ASTMultiSelectList:
		return intr.evalMultiSelectList(node, value)

	case ASTMultiSelectHash:
		return intr.evalMultiSelectHash(node, value)

	case ASTKeyValPair:
		return intr.Execute(node.Children[0], value)

	case ASTOrExpression:
		first, err := intr.Execute(node.Children[0], value)
		if err != nil {
			return nil, err
		}
		if first != nil {
			return first, nil
		}
		return intr.Execute(node.Children[1], value)

	case ASTAndExpression:
		first, err := intr.Execute(node.Children[0], value)
		if err != nil {
			return nil, err
		}
		if isFalsy(first) {
			return first, nil
		}
		return intr.Execute(node.Children[1], value)

	case ASTNotExpression:
		result, err := intr.Execute(node.Children[0], value)
		if err != nil {
			return nil, err
		}
		return isFalsy(result), nil

	case ASTComparator:
		return intr.evalComparator(node, value)

	case ASTExpRef:
		return expRef{ref: node.Children[0]}, nil

	case ASTFunctionExpression:
		return intr.evalFunctionExpression(node, value)
	}
	return nil, nil
}

func (intr *treeInterpreter) evalField(node ASTNode, value interface{}) (interface{}, error) {
	name, _ := node.Value.(string)
	if value == nil || !isObject(value) {
		return nil, nil
	}
	obj := toObject(value)
	result, ok := obj[name]
	if !ok {
		return nil, nil
	}
	return result, nil
}

func (intr *treeInterpreter) evalIndex(node ASTNode, value interface{}) (interface{}, error) {
	items, ok := toInterfaceSlice(value)
	if !ok {
		return nil, nil
	}
	idx := node.Value.(int)
	length := len(items)
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return nil, nil
	}
	return items[idx], nil
}

func (intr *treeInterpreter) evalSlice(node ASTNode, value interface{}) (interface{}, error) {
	items, ok := toInterfaceSlice(value)
	if !ok {
		return nil, nil
	}
	parts := node.Value.([]*int)
	sliced, err := sliceSequence(items, parts)
	if err != nil {
		return nil, err
	}
	return sliced, nil
}

// evalProjection implements spec §4.3's wildcard/flatten broadcast: the
// source (a plain array, possibly the result of an ASTFlatten child) is
// turned into a projection by applying the remainder of the expression
// to every element, dropping elements whose result is nil.
func (intr *treeInterpreter) evalProjection(node ASTNode, value interface{}) (interface{}, error) {
	source, err := intr.Execute(node.Children[0], value)
	if err != nil {
		return nil, err
	}
	items, ok := toInterfaceSlice(source)
	if !ok {
		return nil, nil
	}
	results := make(projection, 0, len(items))
	for _, item := range items {
		result, err := intr.Execute(node.Children[1], item)
		if err != nil {
			return nil, err
		}
		if result == nil {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// evalValueProjection implements the object-value wildcard (.*): the
// same broadcast as evalProjection, but the source values come from
// iterating an object rather than indexing an array.
func (intr *treeInterpreter) evalValueProjection(node ASTNode, value interface{}) (interface{}, error) {
	source, err := intr.Execute(node.Children[0], value)
	if err != nil {
		return nil, err
	}
	if source == nil || !isObject(source) {
		return nil, nil
	}
	obj := toObject(source)
	results := make(projection, 0, len(obj))
	for _, item := range obj {
		result, err := intr.Execute(node.Children[1], item)
		if err != nil {
			return nil, err
		}
		if result == nil {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// evalFlatten implements spec §4.3's ListElements: one level of
// concatenation, no recursion. Its result is consumed immediately by the
// enclosing ASTProjection, which is what turns it into a projection.
func (intr *treeInterpreter) evalFlatten(node ASTNode, value interface{}) (interface{}, error) {
	source, err := intr.Execute(node.Children[0], value)
	if err != nil {
		return nil, err
	}
	items, ok := toInterfaceSlice(source)
	if !ok {
		return nil, nil
	}
	merged := make([]interface{}, 0, len(items))
	for _, element := range items {
		if sub, ok := toInterfaceSlice(element); ok {
			merged = append(merged, sub...)
		} else {
			merged = append(merged, element)
		}
	}
	return merged, nil
}

// evalFilterProjection implements spec §4.6: a predicate is evaluated
// per element of the source array, truthy elements have the projection's
// remainder applied, and nil results are dropped along with falsy ones.
func (intr *treeInterpreter) evalFilterProjection(node ASTNode, value interface{}) (interface{}, error) {
	source, err := intr.Execute(node.Children[0], value)
	if err != nil {
		return nil, err
	}
	items, ok := toInterfaceSlice(source)
	if !ok {
		return nil, nil
	}
	condition := node.Children[2]
	right := node.Children[1]
	results := make(projection, 0, len(items))
	for _, item := range items {
		matched, err := intr.Execute(condition, item)
		if err != nil {
			return nil, err
		}
		if isFalsy(matched) {
			continue
		}
		result, err := intr.Execute(right, item)
		if err != nil {
			return nil, err
		}
		if result == nil {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (intr *treeInterpreter) evalMultiSelectList(node ASTNode, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	results := make([]interface{}, 0, len(node.Children))
	for _, child := range node.Children {
		result, err := intr.Execute(child, value)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (intr *treeInterpreter) evalMultiSelectHash(node ASTNode, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	results := make(map[string]interface{}, len(node.Children))
	for _, kvp := range node.Children {
		key := kvp.Value.(string)
		result, err := intr.Execute(kvp.Children[0], value)
		if err != nil {
			return nil, err
		}
		results[key] = result
	}
	return results, nil
}

func (intr *treeInterpreter) evalComparator(node ASTNode, value interface{}) (interface{}, error) {
	first, err := intr.Execute(node.Children[0], value)
	if err != nil {
		return nil, err
	}
	second, err := intr.Execute(node.Children[1], value)
	if err != nil {
		return nil, err
	}
	first = derefValue(first)
	second = derefValue(second)
	op := node.Value.(tokType)
	switch op {
	case tEQ:
		return valuesEqual(first, second), nil
	case tNE:
		return !valuesEqual(first, second), nil
	}
	firstNum, firstOK := first.(float64)
	secondNum, secondOK := second.(float64)
	if !firstOK || !secondOK {
		return nil, nil
	}
	switch op {
	case tLT:
		return firstNum < secondNum, nil
	case tLTE:
		return firstNum <= secondNum, nil
	case tGT:
		return firstNum > secondNum, nil
	case tGTE:
		return firstNum >= secondNum, nil
	}
	return nil, nil
}

// valuesEqual implements spec §4.4's equality rule: structural equality,
// except that a boolean is never considered equal to the numbers 0 or 1
// even though some host languages coerce them, ported from
// jmespath/ast.py's _is_special_integer_case.
func valuesEqual(first, second interface{}) bool {
	if numericBooleanCollision(first, second) {
		return false
	}
	return objsEqual(first, second)
}

func numericBooleanCollision(first, second interface{}) bool {
	if n, ok := first.(float64); ok && (n == 0 || n == 1) {
		_, isBool := second.(bool)
		return isBool
	}
	if n, ok := second.(float64); ok && (n == 0 || n == 1) {
		_, isBool := first.(bool)
		return isBool
	}
	return false
}

func (intr *treeInterpreter) evalFunctionExpression(node ASTNode, value interface{}) (interface{}, error) {
	name := node.Value.(string)
	entry, ok := intr.functions.functionTable[name]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	resolved := make([]interface{}, len(node.Children))
	for i, argNode := range node.Children {
		spec := argSpecFor(entry, i)
		if spec.resolve {
			result, err := intr.Execute(argNode, value)
			if err != nil {
				return nil, err
			}
			resolved[i] = result
		} else {
			resolved[i] = expRef{ref: unwrapExpRef(argNode)}
		}
	}
	return intr.functions.CallFunction(name, resolved, intr)
}

// argSpecFor implements spec §4.7 step 1's index-clamp zip: argument i
// is paired with signature[min(i, len(signature)-1)].
func argSpecFor(entry functionEntry, i int) argSpec {
	if len(entry.arguments) == 0 {
		return argSpec{resolve: true}
	}
	if i >= len(entry.arguments) {
		return entry.arguments[len(entry.arguments)-1]
	}
	return entry.arguments[i]
}

// unwrapExpRef extracts the underlying searchable node from an explicit
// `&expr` argument, so higher-order functions operate on the expression
// itself rather than on a wrapper node.
func unwrapExpRef(node ASTNode) ASTNode {
	if node.NodeType == ASTExpRef && len(node.Children) == 1 {
		return node.Children[0]
	}
	return node
}

// derefValue walks through pointer and interface indirection until it
// reaches a concrete value, so that JSON-shaped data built from typed Go
// structs (whose fields may be pointers) compares the same way plain
// map[string]interface{} data does.
func derefValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
