package merge

// Field mergers are the atomic merge policies the entity mergers are
// built from. Each is total over its inputs: a nil existing side
// behaves as the type's empty value, a nil new side is a no-op.

// AppendList concatenates new onto existing, preserving order.
// Duplicates are allowed; wrap with DedupAppendList where identity
// matters.
func AppendList[T any](existing, new []T) []T {
	if len(new) == 0 {
		return existing
	}
	if len(existing) == 0 {
		return append([]T(nil), new...)
	}
	out := make([]T, 0, len(existing)+len(new))
	out = append(out, existing...)
	out = append(out, new...)
	return out
}

// DedupAppendList appends only those new elements whose key is not
// already present in existing. Elements already in existing are never
// reordered or removed.
func DedupAppendList[T any, K comparable](existing, new []T, key func(T) K) []T {
	if len(new) == 0 {
		return existing
	}
	seen := make(map[K]struct{}, len(existing))
	for _, item := range existing {
		seen[key(item)] = struct{}{}
	}
	out := append([]T(nil), existing...)
	for _, item := range new {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ReplaceIfNonEmpty returns new when it carries a value, otherwise
// existing. Last non-empty writer wins.
func ReplaceIfNonEmpty(existing, new string) string {
	if new != "" {
		return new
	}
	return existing
}

// ShallowMergeMap overlays new's entries onto existing's; keys present
// on only one side are preserved, overlapping keys take new's value.
// The operands are not mutated.
func ShallowMergeMap[K comparable, V any](existing, new map[K]V) map[K]V {
	if len(new) == 0 {
		return existing
	}
	out := make(map[K]V, len(existing)+len(new))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range new {
		out[k] = v
	}
	return out
}

// truthy mirrors the emptiness test used throughout the merge policies
// for dynamically shaped values: nil, empty strings, empty containers,
// zero numbers and false are all "no information".
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
