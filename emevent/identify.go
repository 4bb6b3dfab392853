package emevent

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Identify accumulates user property operations for an identify or group identify
// event. Each property key may appear in at most one operation; later conflicting
// operations are ignored. ClearAll is exclusive with every other operation.
type Identify struct {
	usedKeys   map[string]bool
	properties map[string]map[string]ldvalue.Value
	clearAll   bool
}

// NewIdentify creates an empty Identify builder.
func NewIdentify() *Identify {
	return &Identify{
		usedKeys:   make(map[string]bool),
		properties: make(map[string]map[string]ldvalue.Value),
	}
}

// IsValid reports whether at least one operation has been recorded.
func (i *Identify) IsValid() bool {
	return i.clearAll || len(i.properties) > 0
}

// Set assigns a value to a user property.
func (i *Identify) Set(key string, value ldvalue.Value) *Identify {
	return i.setUserProperty(OpSet, key, value)
}

// SetOnce assigns a value to a user property only if it has never been set.
func (i *Identify) SetOnce(key string, value ldvalue.Value) *Identify {
	return i.setUserProperty(OpSetOnce, key, value)
}

// Append adds a value to the end of a list-valued user property.
func (i *Identify) Append(key string, value ldvalue.Value) *Identify {
	return i.setUserProperty(OpAppend, key, value)
}

// Prepend adds a value to the front of a list-valued user property.
func (i *Identify) Prepend(key string, value ldvalue.Value) *Identify {
	return i.setUserProperty(OpPrepend, key, value)
}

// PreInsert adds a value to the front of a list-valued user property if it is not
// already present.
func (i *Identify) PreInsert(key string, value ldvalue.Value) *Identify {
	return i.setUserProperty(OpPreInsert, key, value)
}

// PostInsert adds a value to the end of a list-valued user property if it is not
// already present.
func (i *Identify) PostInsert(key string, value ldvalue.Value) *Identify {
	return i.setUserProperty(OpPostInsert, key, value)
}

// Remove removes a value from a list-valued user property.
func (i *Identify) Remove(key string, value ldvalue.Value) *Identify {
	return i.setUserProperty(OpRemove, key, value)
}

// Add increments a numeric user property.
func (i *Identify) Add(key string, value float64) *Identify {
	return i.setUserProperty(OpAdd, key, ldvalue.Float64(value))
}

// Unset removes a user property.
func (i *Identify) Unset(key string) *Identify {
	return i.setUserProperty(OpUnset, key, ldvalue.String(UnsetValue))
}

// ClearAll removes all user properties. It cannot be combined with other operations.
func (i *Identify) ClearAll() *Identify {
	if len(i.properties) > 0 {
		return i
	}
	i.clearAll = true
	return i
}

func (i *Identify) setUserProperty(op, key string, value ldvalue.Value) *Identify {
	if key == "" || i.clearAll || i.usedKeys[key] {
		return i
	}
	i.usedKeys[key] = true
	if i.properties[op] == nil {
		i.properties[op] = make(map[string]ldvalue.Value)
	}
	i.properties[op][key] = value
	return i
}

// Properties returns the accumulated operations as a property bag keyed by operation
// name, suitable for an event's UserProperties or GroupProperties field.
func (i *Identify) Properties() map[string]ldvalue.Value {
	out := make(map[string]ldvalue.Value, len(i.properties)+1)
	if i.clearAll {
		out[OpClearAll] = ldvalue.String(UnsetValue)
		return out
	}
	for op, props := range i.properties {
		b := ldvalue.ObjectBuild()
		for k, v := range props {
			b.Set(k, v)
		}
		out[op] = b.Build()
	}
	return out
}
