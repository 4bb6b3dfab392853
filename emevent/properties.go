package emevent

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// ValidProperties reports whether a property bag is acceptable: no more than
// MaxPropertyKeys entries, and no arrays nested directly inside arrays. Nested
// objects are validated recursively.
func ValidProperties(m map[string]ldvalue.Value) bool {
	if len(m) > MaxPropertyKeys {
		return false
	}
	for _, v := range m {
		if !validValue(v, false) {
			return false
		}
	}
	return true
}

func validValue(v ldvalue.Value, inArray bool) bool {
	switch v.Type() {
	case ldvalue.ArrayType:
		if inArray {
			return false
		}
		ok := true
		for i := 0; i < v.Count() && ok; i++ {
			ok = validValue(v.GetByIndex(i), true)
		}
		return ok
	case ldvalue.ObjectType:
		ok := true
		for _, key := range v.Keys(nil) {
			if ok = validValue(v.GetByKey(key), false); !ok {
				break
			}
		}
		return ok
	default:
		return true
	}
}

// truncateProperties enforces the serialization limits on a property bag. A bag with
// too many keys is replaced by an empty one rather than sent partially.
func truncateProperties(m map[string]ldvalue.Value) map[string]ldvalue.Value {
	if m == nil {
		return nil
	}
	if len(m) > MaxPropertyKeys {
		return map[string]ldvalue.Value{}
	}
	out := make(map[string]ldvalue.Value, len(m))
	for k, v := range m {
		out[k] = truncateValue(v)
	}
	return out
}

func truncateValue(v ldvalue.Value) ldvalue.Value {
	switch v.Type() {
	case ldvalue.StringType:
		return ldvalue.String(truncateString(v.StringValue()))
	case ldvalue.ArrayType:
		b := ldvalue.ArrayBuild()
		for i := 0; i < v.Count(); i++ {
			b.Add(truncateValue(v.GetByIndex(i)))
		}
		return b.Build()
	case ldvalue.ObjectType:
		b := ldvalue.ObjectBuild()
		for _, key := range v.Keys(nil) {
			b.Set(key, truncateValue(v.GetByKey(key)))
		}
		return b.Build()
	default:
		return v
	}
}

func truncateString(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxStringLength {
		return s
	}
	return string(runes[:MaxStringLength])
}
