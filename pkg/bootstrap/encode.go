package bootstrap

import (
	"reflect"
	"strings"
)

// entityReplacer matches htmlentities with ENT_QUOTES for the characters
// that carry markup meaning.
var entityReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EncodeString HTML-entity encodes a single string
func EncodeString(s string) string {
	return entityReplacer.Replace(s)
}

// Encode walks v and entity-encodes every string it finds inside slices,
// arrays and maps. The shape of v is preserved and non-string leaves are
// returned untouched. Map keys are not encoded.
func Encode(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return EncodeString(t)
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Encode(item)
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Encode(item)
		}
		return out
	case []string:
		if t == nil {
			return t
		}
		out := make([]string, len(t))
		for i, item := range t {
			out[i] = EncodeString(item)
		}
		return out
	case map[string]string:
		if t == nil {
			return t
		}
		out := make(map[string]string, len(t))
		for k, item := range t {
			out[k] = EncodeString(item)
		}
		return out
	}

	encoded := encodeValue(reflect.ValueOf(v))
	if !encoded.IsValid() {
		return v
	}
	return encoded.Interface()
}

func encodeValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.String:
		out := reflect.New(rv.Type()).Elem()
		out.SetString(EncodeString(rv.String()))
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		inner := encodeValue(rv.Elem())
		out := reflect.New(rv.Type()).Elem()
		out.Set(inner)
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(encodeValue(rv.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(encodeValue(rv.Index(i)))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), encodeValue(iter.Value()))
		}
		return out
	default:
		return rv
	}
}
