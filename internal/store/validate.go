package store

import (
	"fmt"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
)

// ValidateProperties rejects shapes that cannot round-trip through the
// flatten/nest transformer and the underlying JSON column: non-scalar,
// non-array, non-map leaf values, maps nested more than one level deep,
// and arrays whose elements are maps or arrays. Cycles cannot occur because Go maps built
// from decoded JSON are acyclic by construction; the check here guards
// against values an inspector constructed directly in memory (e.g. a
// channel, a func, a pointer cycle) reaching persistence.
func ValidateProperties(props map[string]interface{}) error {
	for key, value := range props {
		if err := validateValue(key, value); err != nil {
			return apperrors.ValidationErrorf("invalid property %q: %v", key, err)
		}
	}
	return nil
}

func validateValue(key string, value interface{}) error {
	switch v := value.(type) {
	case nil, string, bool, int, int32, int64, float32, float64:
		return nil
	case map[string]interface{}:
		for k, nested := range v {
			if _, ok := nested.(map[string]interface{}); ok {
				return fmt.Errorf("property %q: nesting deeper than one level is not supported", key+"."+k)
			}
			if err := validateValue(key+"."+k, nested); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for _, item := range v {
			if _, ok := item.(map[string]interface{}); ok {
				return fmt.Errorf("property %q: array of objects is not a supported shape", key)
			}
			if _, ok := item.([]interface{}); ok {
				return fmt.Errorf("property %q: nested arrays are not a supported shape", key)
			}
		}
		return nil
	case []string, []int, []float64, []bool:
		return nil
	default:
		return fmt.Errorf("property %q: unsupported value type %T", key, value)
	}
}
