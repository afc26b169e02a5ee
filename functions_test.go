package jmespath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotNullReturnsFirstNonNull(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("not_null(a, b, c)", map[string]interface{}{
		"a": nil, "b": nil, "c": "found",
	})
	assert.NoError(err)
	assert.Equal("found", result)
}

func TestContainsStringAndArray(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("contains(@, 'b')", []interface{}{"a", "b", "c"})
	assert.NoError(err)
	assert.Equal(true, result)

	result, err = Search("contains(@, 'z')", "haystack")
	assert.NoError(err)
	assert.Equal(false, result)
}

func TestKeysAndValues(t *testing.T) {
	assert := assert.New(t)
	data := map[string]interface{}{"a": 1.0}
	result, err := Search("keys(@)", data)
	assert.NoError(err)
	assert.Equal([]interface{}{"a"}, result)

	result, err = Search("values(@)", data)
	assert.NoError(err)
	assert.Equal([]interface{}{1.0}, result)
}

func TestJoin(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("join(', ', @)", []interface{}{"a", "b", "c"})
	assert.NoError(err)
	assert.Equal("a, b, c", result)
}

func TestMergeLaterKeysWin(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("merge(@[0], @[1])", []interface{}{
		map[string]interface{}{"a": 1.0, "b": 2.0},
		map[string]interface{}{"b": 3.0, "c": 4.0},
	})
	assert.NoError(err)
	assert.Equal(map[string]interface{}{"a": 1.0, "b": 3.0, "c": 4.0}, result)
}

func TestSortNumbersAndStrings(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("sort(@)", []interface{}{3.0, 1.0, 2.0})
	assert.NoError(err)
	assert.Equal([]interface{}{1.0, 2.0, 3.0}, result)

	result, err = Search("sort(@)", []interface{}{"banana", "apple", "cherry"})
	assert.NoError(err)
	assert.Equal([]interface{}{"apple", "banana", "cherry"}, result)
}

func TestMaxByAndMinBy(t *testing.T) {
	assert := assert.New(t)
	data := []interface{}{
		map[string]interface{}{"name": "a", "score": 10.0},
		map[string]interface{}{"name": "b", "score": 30.0},
		map[string]interface{}{"name": "c", "score": 20.0},
	}
	result, err := Search("max_by(@, &score).name", data)
	assert.NoError(err)
	assert.Equal("b", result)

	result, err = Search("min_by(@, &score).name", data)
	assert.NoError(err)
	assert.Equal("a", result)
}

// sort_by with a key expression that yields mixed kinds is unspecified by
// the grammar this was distilled from; this module's documented policy
// (DESIGN.md) is to raise a TypeError rather than guess an ordering.
func TestSortByMixedKindsRaisesTypeError(t *testing.T) {
	assert := assert.New(t)
	data := []interface{}{
		map[string]interface{}{"key": 1.0},
		map[string]interface{}{"key": "two"},
	}
	_, err := Search("sort_by(@, &key)", data)
	assert.Error(err)
	var typeErr *JMESPathTypeError
	assert.ErrorAs(err, &typeErr)
}

func TestMapAppliesExpressionToEachElement(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("map(&name, @)", []interface{}{
		map[string]interface{}{"name": "a"},
		map[string]interface{}{"name": "b"},
	})
	assert.NoError(err)
	assert.Equal([]interface{}{"a", "b"}, result)
}

func TestToArrayWrapsNonArray(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("to_array(@)", "scalar")
	assert.NoError(err)
	assert.Equal([]interface{}{"scalar"}, result)

	result, err = Search("to_array(@)", []interface{}{1.0, 2.0})
	assert.NoError(err)
	assert.Equal([]interface{}{1.0, 2.0}, result)
}

func TestToNumberParsesStrings(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("to_number(@)", "3.5")
	assert.NoError(err)
	assert.Equal(3.5, result)

	result, err = Search("to_number(@)", "not a number")
	assert.NoError(err)
	assert.Nil(result)
}

func TestTypeFunction(t *testing.T) {
	assert := assert.New(t)
	cases := []struct {
		value    interface{}
		expected string
	}{
		{"s", "string"},
		{true, "boolean"},
		{[]interface{}{1.0}, "array"},
		{map[string]interface{}{}, "object"},
		{1.0, "number"},
		{nil, "null"},
	}
	for _, c := range cases {
		result, err := Search("type(@)", c.value)
		assert.NoError(err)
		assert.Equal(c.expected, result)
	}
}

func TestArityMismatchOnKnownFunction(t *testing.T) {
	assert := assert.New(t)
	_, err := Search("abs(@, @)", 1.0)
	assert.Error(err)
	var arityErr *ArityError
	assert.ErrorAs(err, &arityErr)
}

func TestArraySubtypeErrorNamesOffendingElement(t *testing.T) {
	assert := assert.New(t)
	_, err := Search("sort(@)", []interface{}{1.0, "two", 3.0})
	assert.Error(err)
	var typeErr *JMESPathTypeError
	assert.ErrorAs(err, &typeErr)
	assert.Equal("two", typeErr.CurrentValue)
}
