package store

import "strings"

// Flatten converts a (possibly nested) property map into a flat map whose
// keys are dot-joined paths, e.g. {ejb: {interfaceName: "X"}} becomes
// {"ejb.interfaceName": "X"}. Scalars and homogeneous arrays pass through
// unchanged; only map[string]interface{} values are descended into.
//
// Flatten is the single source of truth for the "a.b.c" <-> {a:{b:{c}}}
// mapping (§4.3); Nest is its exact inverse for maps whose leaf keys
// contain no literal ".".
func Flatten(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, "", props)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, props map[string]interface{}) {
	for k, v := range props {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}

// Nest converts a flat, dot-keyed property map back into its nested
// form. It is the exact inverse of Flatten for maps whose leaf keys
// contain no literal "." (property nesting invariant, §8).
func Nest(flat map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for key, value := range flat {
		parts := strings.Split(key, ".")
		cur := out
		for i, part := range parts {
			if i == len(parts)-1 {
				cur[part] = value
				break
			}
			next, ok := cur[part].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				cur[part] = next
			}
			cur = next
		}
	}
	return out
}
