package jmespath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Scenarios from spec.md §8.2, exercised as literal-input tests in the
// teacher's own flat Test* style.

func TestScenarioFieldChain(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo.bar", map[string]interface{}{
		"foo": map[string]interface{}{"bar": 42.0},
	})
	assert.NoError(err)
	assert.Equal(42.0, result)
}

func TestScenarioFieldChainThroughNull(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo.bar", map[string]interface{}{"foo": nil})
	assert.NoError(err)
	assert.Nil(result)
}

func TestScenarioWildcardProjectionDropsNull(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo[*].bar", map[string]interface{}{
		"foo": []interface{}{
			map[string]interface{}{"bar": 1.0},
			map[string]interface{}{"baz": 2.0},
			map[string]interface{}{"bar": 3.0},
		},
	})
	assert.NoError(err)
	assert.Equal(projection{1.0, 3.0}, result)
}

func TestScenarioFilterProjection(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo[?a == `1`].b", map[string]interface{}{
		"foo": []interface{}{
			map[string]interface{}{"a": 1.0, "b": "x"},
			map[string]interface{}{"a": 2.0, "b": "y"},
			map[string]interface{}{"a": 1.0, "b": "z"},
		},
	})
	assert.NoError(err)
	assert.Equal(projection{"x", "z"}, result)
}

func TestScenarioSortByThenIndexThenField(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("sort_by(people, &age)[0].name", map[string]interface{}{
		"people": []interface{}{
			map[string]interface{}{"name": "A", "age": 30.0},
			map[string]interface{}{"name": "B", "age": 20.0},
		},
	})
	assert.NoError(err)
	assert.Equal("B", result)
}

func TestScenarioLength(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("length(@)", []interface{}{1.0, 2.0, 3.0})
	assert.NoError(err)
	assert.Equal(3.0, result)
}

func TestScenarioLengthTypeError(t *testing.T) {
	assert := assert.New(t)
	_, err := Search("length(@)", true)
	assert.Error(err)
	var typeErr *JMESPathTypeError
	assert.ErrorAs(err, &typeErr)
	assert.Equal("length", typeErr.FunctionName)
	assert.Equal(jpBoolean, typeErr.ActualType)
}

// Invariants from spec.md §8.1.

func TestAccessorOnKindMismatchIsNull(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo.bar", "a plain string")
	assert.NoError(err)
	assert.Nil(result)

	result, err = Search("foo[0]", map[string]interface{}{"foo": "not an array"})
	assert.NoError(err)
	assert.Nil(result)
}

func TestProjectionDropRuleMatchesExplicitCount(t *testing.T) {
	assert := assert.New(t)
	arr := []interface{}{
		map[string]interface{}{"bar": 1.0},
		map[string]interface{}{},
		map[string]interface{}{"bar": 2.0},
		map[string]interface{}{},
	}
	result, err := Search("[*].bar", arr)
	assert.NoError(err)
	items, ok := result.(projection)
	assert.True(ok)

	matching := 0
	for _, el := range arr {
		if el.(map[string]interface{})["bar"] != nil {
			matching++
		}
	}
	assert.Equal(matching, len(items))
}

func TestSubExpressionAssociativity(t *testing.T) {
	assert := assert.New(t)
	data := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{"c": "value"},
		},
	}
	whole, err := Search("a.b.c", data)
	assert.NoError(err)

	step1, err := Search("a", data)
	assert.NoError(err)
	step2, err := Search("b", step1)
	assert.NoError(err)
	step3, err := Search("c", step2)
	assert.NoError(err)

	assert.Equal(whole, step3)
}

func TestLiteralRoundTrip(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("`[1, 2, \"three\"]`", "anything at all")
	assert.NoError(err)
	assert.Equal([]interface{}{1.0, 2.0, "three"}, result)
}

func TestEqualityVsHostBooleans(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("@ == `1`", true)
	assert.NoError(err)
	assert.Equal(false, result)

	result, err = Search("@ == `0`", false)
	assert.NoError(err)
	assert.Equal(false, result)
}

func TestFlattenIdempotenceOnFlatArray(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("[]", []interface{}{1.0, 2.0, 3.0})
	assert.NoError(err)
	assert.Equal(projection{1.0, 2.0, 3.0}, result)
}

// Additional coverage for node kinds not directly named by a scenario.

func TestOrExpressionShortCircuitsOnNonNil(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo || bar", map[string]interface{}{"foo": false, "bar": "fallback"})
	assert.NoError(err)
	assert.Equal(false, result)

	result, err = Search("foo || bar", map[string]interface{}{"bar": "fallback"})
	assert.NoError(err)
	assert.Equal("fallback", result)
}

func TestAndExpression(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo && bar", map[string]interface{}{"foo": "", "bar": "unreached"})
	assert.NoError(err)
	assert.Equal("", result)

	result, err = Search("foo && bar", map[string]interface{}{"foo": "x", "bar": "y"})
	assert.NoError(err)
	assert.Equal("y", result)
}

func TestNotExpression(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("!foo", map[string]interface{}{"foo": []interface{}{}})
	assert.NoError(err)
	assert.Equal(true, result)
}

func TestPipeStopsProjection(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo[*].bar | [0]", map[string]interface{}{
		"foo": []interface{}{
			map[string]interface{}{"bar": 1.0},
			map[string]interface{}{"bar": 2.0},
		},
	})
	assert.NoError(err)
	assert.Equal(1.0, result)
}

func TestMultiSelectHashAndList(t *testing.T) {
	assert := assert.New(t)
	data := map[string]interface{}{"a": 1.0, "b": 2.0}
	result, err := Search("{x: a, y: b}", data)
	assert.NoError(err)
	assert.Equal(map[string]interface{}{"x": 1.0, "y": 2.0}, result)

	result, err = Search("[a, b]", data)
	assert.NoError(err)
	assert.Equal([]interface{}{1.0, 2.0}, result)
}

func TestSliceExpression(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("[1:3]", []interface{}{1.0, 2.0, 3.0, 4.0, 5.0})
	assert.NoError(err)
	assert.Equal(projection{2.0, 3.0}, result)
}

func TestSliceExpressionNegativeStep(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("[::-1]", []interface{}{1.0, 2.0, 3.0})
	assert.NoError(err)
	assert.Equal(projection{3.0, 2.0, 1.0}, result)
}

func TestSliceExpressionNegativeStepOutOfRangeBounds(t *testing.T) {
	assert := assert.New(t)
	data := []interface{}{0.0, 1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0}
	result, err := Search("[8:-4:-2]", data)
	assert.NoError(err)
	assert.Equal(projection{7.0, 5.0}, result)
}

func TestSliceExpressionPositiveStepOutOfRangeStart(t *testing.T) {
	assert := assert.New(t)
	data := []interface{}{0.0, 1.0, 2.0}
	result, err := Search("[10:20]", data)
	assert.NoError(err)
	assert.Equal(projection{}, result)
}

func TestNestedProjectionPreservesShape(t *testing.T) {
	assert := assert.New(t)
	result, err := Search("foo[*].bar[*].baz", map[string]interface{}{
		"foo": []interface{}{
			map[string]interface{}{
				"bar": []interface{}{
					map[string]interface{}{"baz": 1.0},
					map[string]interface{}{"baz": 2.0},
				},
			},
		},
	})
	assert.NoError(err)
	outer, ok := result.(projection)
	assert.True(ok)
	assert.Len(outer, 1)
	inner, ok := outer[0].(projection)
	assert.True(ok)
	assert.Equal(projection{1.0, 2.0}, inner)
}
