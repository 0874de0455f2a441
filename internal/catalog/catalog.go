// internal/catalog/catalog.go

// Package catalog loads the structured input files for a generation run: the
// per-category item catalogs and the target language list.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	stderrors "astrogen/internal/common/errors"
)

// Item is one named subject (a zodiac sign, a planet) with template-fillable
// fields. Fields always includes "key".
type Item struct {
	Key    string
	Fields map[string]string
}

// LoadItems parses an item catalog. The file is either a bare JSON array of
// objects or a wrapper object holding the array under a single key
// ("planets", "houses", "data", ...). Every object must carry a unique
// non-empty "key"; all other fields are category-specific and free-form.
func LoadItems(path string) ([]Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, stderrors.NewCatalogNotFoundError(path, err)
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, stderrors.NewCatalogFormatError(path, fmt.Sprintf("invalid JSON: %s", err))
	}

	list, err := unwrapItemList(decoded)
	if err != nil {
		return nil, stderrors.NewCatalogFormatError(path, err.Error())
	}

	if err := validateAgainstSchema(itemCatalogSchema, list); err != nil {
		return nil, stderrors.NewCatalogFormatError(path, err.Error())
	}

	items := make([]Item, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, stderrors.NewCatalogFormatError(path, fmt.Sprintf("entry %d is not an object", i))
		}

		fields := flattenFields(obj)
		key := fields["key"]
		if key == "" {
			return nil, stderrors.NewCatalogFormatError(path, fmt.Sprintf("entry %d is missing a key", i))
		}
		if _, dup := seen[key]; dup {
			return nil, stderrors.NewCatalogFormatError(path, fmt.Sprintf("duplicate key %q", key))
		}
		seen[key] = struct{}{}

		items = append(items, Item{Key: key, Fields: fields})
	}

	return items, nil
}

// unwrapItemList accepts either a bare array or a wrapper object with a
// single array-valued field.
func unwrapItemList(decoded interface{}) ([]interface{}, error) {
	switch v := decoded.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		// Well-known wrapper keys first so e.g. {"data": [...], "version": 2}
		// resolves predictably.
		for _, known := range []string{"data", "planets", "houses"} {
			if list, ok := v[known].([]interface{}); ok {
				return list, nil
			}
		}
		var found []interface{}
		for _, value := range v {
			if list, ok := value.([]interface{}); ok {
				if found != nil {
					return nil, fmt.Errorf("wrapper object holds more than one array")
				}
				found = list
			}
		}
		if found != nil {
			return found, nil
		}
		return nil, fmt.Errorf("wrapper object holds no item array")
	default:
		return nil, fmt.Errorf("catalog root is neither an array nor a wrapper object")
	}
}

// flattenFields converts a decoded catalog object into the flat string map
// consumed by the template renderer. Nested objects contribute their scalar
// members as parent_child fields; arrays and deeper structures are embedded
// as compact JSON.
func flattenFields(obj map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case map[string]interface{}:
			for subKey, subValue := range v {
				if _, nested := subValue.(map[string]interface{}); nested {
					fields[key+"_"+subKey] = asJSON(subValue)
					continue
				}
				if _, nested := subValue.([]interface{}); nested {
					fields[key+"_"+subKey] = asJSON(subValue)
					continue
				}
				fields[key+"_"+subKey] = scalarString(subValue)
			}
		case []interface{}:
			fields[key] = asJSON(v)
		default:
			fields[key] = scalarString(v)
		}
	}
	return fields
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asJSON(value interface{}) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(raw)
}
