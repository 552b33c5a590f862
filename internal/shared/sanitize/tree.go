package sanitize

import (
	"strconv"
)

// LeafFunc rewrites one string leaf. path is the dotted location of the leaf
// ("items[0].name") and key the name of the object member holding it, or "" for
// array elements and the root.
type LeafFunc func(path, key, value string) string

// Walk returns a copy of a decoded JSON value with every string leaf replaced by fn.
// Maps and slices are copied. Numbers (float64 or json.Number), booleans and nil are
// returned as is.
func Walk(v any, fn LeafFunc) any {
	return walk(v, "", "", fn)
}

func walk(v any, path, key string, fn LeafFunc) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return fn(path, key, t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = walk(child, joinPath(path, k), k, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = walk(child, path+"["+strconv.Itoa(i)+"]", "", fn)
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, child := range t {
			out[i] = fn(path+"["+strconv.Itoa(i)+"]", "", child)
		}
		return out
	default:
		return v
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// Value applies Text to every string leaf of v. Value(nil) is nil.
func Value(v any) any {
	return Walk(v, func(_, _, s string) string { return Text(s) })
}

// Fields applies RichText to leaves whose member name is in rich and Text to all others.
func Fields(v any, rich map[string]struct{}) any {
	return Walk(v, func(_, key, s string) string {
		if _, ok := rich[key]; ok {
			return RichText(s)
		}
		return Text(s)
	})
}
