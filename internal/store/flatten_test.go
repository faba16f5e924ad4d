package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenNest_RoundTrip(t *testing.T) {
	props := map[string]interface{}{
		"metrics": map[string]interface{}{
			"cloc": float64(25),
		},
		"ejb": map[string]interface{}{
			"interfaceName": "Foo",
			"homeType":      "Bar",
		},
		"simple": "value",
	}

	flat := Flatten(props)
	assert.Equal(t, float64(25), flat["metrics.cloc"])
	assert.Equal(t, "Foo", flat["ejb.interfaceName"])
	assert.Equal(t, "value", flat["simple"])

	nested := Nest(flat)
	assert.Equal(t, props, nested)
}

func TestNestFlatten_RoundTrip(t *testing.T) {
	flat := map[string]interface{}{
		"a.b.c": "x",
		"a.b.d": "y",
		"top":   1,
	}

	nested := Nest(flat)
	roundTripped := Flatten(nested)

	assert.Equal(t, flat, roundTripped)
}

func TestValidateProperties_RejectsUnsupportedShapes(t *testing.T) {
	assert.NoError(t, ValidateProperties(map[string]interface{}{
		"a": "x", "b": 1, "c": []string{"x", "y"},
	}))

	assert.Error(t, ValidateProperties(map[string]interface{}{
		"a": map[string]interface{}{"b": map[string]interface{}{"c": 1}},
	}))

	assert.Error(t, ValidateProperties(map[string]interface{}{
		"a": make(chan int),
	}))
}
