package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
)

// RequirePresent reports the first field of v's type whose key is missing or
// null in the JSON document data. Every JSON-tagged field counts unless it is
// omitempty. Empty strings and empty arrays are present. A missing object is
// reported by its first leaf, such as "seoTips.tagSuggestions".
func RequirePresent(data []byte, v any) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return present(reflect.TypeOf(v), doc, "")
}

func present(t reflect.Type, value any, path string) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, _ := value.(map[string]any)
		for i := range t.NumField() {
			f := t.Field(i)
			name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
			if !f.IsExported() || name == "-" || strings.Contains(opts, "omitempty") {
				continue
			}
			if name == "" {
				name = f.Name
			}
			fp := joinPath(path, name)

			child, ok := obj[name]
			if f.Type.Kind() != reflect.Struct && (!ok || child == nil) {
				return &FieldError{Path: fp, Tag: "required", Msg: fmt.Sprintf("%s is required", fp)}
			}
			if err := present(f.Type, child, fp); err != nil {
				return err
			}
		}
	case reflect.Slice:
		items, _ := value.([]any)
		for i, item := range items {
			if err := present(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
