package jmespath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDefinedFunctions(t *testing.T) {
	icontains := func(args []interface{}) (interface{}, error) {
		needle := strings.ToLower(args[1].(string))
		if haystack, ok := args[0].(string); ok {
			return strings.Contains(strings.ToLower(haystack), needle), nil
		}
		array, _ := toArrayStr(args[0])
		for _, el := range array {
			if strings.ToLower(el) == needle {
				return true, nil
			}
		}
		return false, nil
	}
	searcher, err := Compile("icontains(@, 'Bar')",
		WithFunction("icontains", "string|array-string,string", false, icontains))
	if !assert.NoError(t, err) {
		return
	}

	actual, err := searcher.Search("fooBARbaz")
	if assert.NoError(t, err) {
		assert.Equal(t, true, actual)
	}

	actual, err = searcher.Search([]interface{}{"foo", "BAR", "baz"})
	if assert.NoError(t, err) {
		assert.Equal(t, true, actual)
	}
}

func TestExpressionEvaluator(t *testing.T) {
	myMap := func(args []interface{}) (interface{}, error) {
		evaluator := NewExpressionEvaluator(args[0], args[1])
		arr := args[2].([]interface{})
		mapped := make([]interface{}, 0, len(arr))
		for _, value := range arr {
			current, err := evaluator(value)
			if err != nil {
				return nil, err
			}
			mapped = append(mapped, current)
		}
		return mapped, nil
	}
	searcher, err := Compile("my_map(&id, @)",
		WithFunction("my_map", "expref,array", false, myMap))
	if !assert.NoError(t, err) {
		return
	}

	actual, err := searcher.Search([]interface{}{
		map[string]interface{}{
			"id":    1,
			"value": "a",
		},
		map[string]interface{}{
			"id":    2,
			"value": "b",
		},
		map[string]interface{}{
			"id":    3,
			"value": "c",
		},
	})
	if assert.NoError(t, err) {
		assert.Equal(t, []interface{}{1, 2, 3}, actual)
	}
}

func TestRegisterFunctionAfterCompile(t *testing.T) {
	searcher, err := Compile("@")
	if !assert.NoError(t, err) {
		return
	}
	err = searcher.RegisterFunction("double", "number", false, func(args []interface{}) (interface{}, error) {
		return args[0].(float64) * 2, nil
	})
	assert.NoError(t, err)
	assert.Contains(t, searcher.functions.functionTable, "double")
}
