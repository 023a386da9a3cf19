package structs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/augment/reflectutils"
)

// Get retrieves the value for the specified attribute from the provided object.
// Supports nested access using dot notation (e.g., "user.address.street").
// Supports struct fields, map keys and bound methods, in that order.
func Get(origin any, attribute string) (any, error) {
	if origin == nil {
		return nil, fmt.Errorf("cannot get attribute %s from nil origin", attribute)
	}
	if attribute == "" {
		return nil, fmt.Errorf("attribute path cannot be empty")
	}

	tokens := strings.Split(attribute, ".")
	current := origin

	for i, token := range tokens {
		if token == "" {
			return nil, fmt.Errorf("empty token at position %d in attribute path %s", i, attribute)
		}

		value, err := resolveOn(current, token)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve token %s (position %d) in attribute path %s:\n\t%w", token, i, attribute, err)
		}
		current = value
	}

	return current, nil
}

// resolveOn resolves a single attribute directly on the given object.
func resolveOn(origin any, attribute string) (any, error) {
	rawValue := reflect.ValueOf(origin)
	if !rawValue.IsValid() {
		return nil, fmt.Errorf("cannot resolve attribute %s on nil value", attribute)
	}

	// methods are looked up on the original value first, so pointer receivers are honored
	if method := rawValue.MethodByName(attribute); method.IsValid() {
		return method.Interface(), nil
	}

	valueOf := reflectutils.Deref(rawValue)
	if !valueOf.IsValid() {
		return nil, fmt.Errorf("cannot resolve attribute %s on nil value", attribute)
	}

	switch valueOf.Kind() {
	case reflect.Map:
		mapValue := valueOf.MapIndex(reflect.ValueOf(attribute))
		if !mapValue.IsValid() {
			return nil, fmt.Errorf("key %s not found in map", attribute)
		}
		return mapValue.Interface(), nil

	case reflect.Struct:
		fieldValue := valueOf.FieldByName(attribute)
		if fieldValue.IsValid() {
			if !fieldValue.CanInterface() {
				return nil, fmt.Errorf("field %s in struct %s is not exported", attribute, valueOf.Type().Name())
			}
			return fieldValue.Interface(), nil
		}
		if method := valueOf.MethodByName(attribute); method.IsValid() {
			return method.Interface(), nil
		}
		return nil, fmt.Errorf("attribute %s not found in struct %s", attribute, valueOf.Type().Name())

	default:
		return nil, fmt.Errorf("cannot resolve attribute %s: expected struct or map but got %s", attribute, valueOf.Kind())
	}
}
