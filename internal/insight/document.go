package insight

// Document is a decoded InSight weather response.
// Values are whatever encoding/json produces for an untyped target.
type Document map[string]any

// Lookup walks path through nested objects. It reports false when any
// segment is missing, is JSON null, or the parent is not an object.
func (d Document) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(d)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// Float returns the number at path, or nil when absent or not a number.
func (d Document) Float(path ...string) *float64 {
	v, ok := d.Lookup(path...)
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// String returns the string at path, or nil when absent or not a string.
func (d Document) String(path ...string) *string {
	v, ok := d.Lookup(path...)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// StringOr returns the string at path, or def when absent.
func (d Document) StringOr(def string, path ...string) string {
	if s := d.String(path...); s != nil {
		return *s
	}
	return def
}

// Strings returns the string elements of the array at path.
// Non-string elements are dropped.
func (d Document) Strings(path ...string) []string {
	v, ok := d.Lookup(path...)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
