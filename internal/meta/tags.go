package meta

import (
	"reflect"
	"sort"
	"strings"
)

// TagName is the struct tag consulted when a type has no registered
// metadata.
const TagName = "inject"

// InitHook is the post-construct method recognized in the tag fallback.
const InitHook = "Init"

// fromTags derives metadata for an unregistered struct type from its
// `inject` field tags. The injected token is the field's own type; the tag
// value carries comma-separated flags ("optional"). A zero-argument Init
// method, when present, becomes the single post-construct hook.
func fromTags(t reflect.Type) (*Info, error) {
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, &InvalidClassError{Reason: "class must be a pointer to a struct"}
	}

	info := &Info{
		Type:   t,
		Fields: make(map[string]Dep),
	}

	structType := t.Elem()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		tag, ok := field.Tag.Lookup(TagName)
		if !ok {
			continue
		}

		if !field.IsExported() {
			return nil, &InvalidClassError{Reason: "injected field " + field.Name + " must be exported"}
		}

		dep := Dep{Token: field.Type}
		for _, flag := range strings.Split(tag, ",") {
			switch strings.TrimSpace(flag) {
			case "", "-":
			case "optional":
				dep.Optional = true
			default:
				return nil, &InvalidTagError{Type: t, Field: field.Name, Flag: flag}
			}
		}

		info.Fields[field.Name] = dep
		info.FieldOrder = append(info.FieldOrder, field.Name)
	}
	sort.Strings(info.FieldOrder)

	if m, ok := t.MethodByName(InitHook); ok && m.Type.NumIn() == 1 {
		info.Hooks = []string{InitHook}
	}

	return info, nil
}
