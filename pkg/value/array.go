package value

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// ArrayValue maps string keys to values, keeping insertion order.
// Unlike the other values it is mutated in place.
type ArrayValue struct {
	keys   []string
	values map[string]Value
}

// NewArray creates an empty array
func NewArray() *ArrayValue {
	return &ArrayValue{values: make(map[string]Value)}
}

func (*ArrayValue) Kind() Kind { return KindArray }

func (a *ArrayValue) ToNumber() *apd.Decimal {
	return apd.New(0, 0)
}

func (a *ArrayValue) ToBoolean() bool {
	return false
}

// ToString serializes the array as key=value; pairs
func (a *ArrayValue) ToString() string {
	var b strings.Builder
	for _, key := range a.keys {
		b.WriteString(escape(key))
		b.WriteByte('=')
		b.WriteString(escape(a.values[key].ToString()))
		b.WriteByte(';')
	}

	return b.String()
}

// Get returns the value stored under key
func (a *ArrayValue) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Set stores v under key. Storing an empty string removes the key.
func (a *ArrayValue) Set(key string, v Value) {
	if s, ok := v.(StringValue); ok && s == "" {
		a.Delete(key)
		return
	}

	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = v
}

// Delete removes key if present
func (a *ArrayValue) Delete(key string) {
	if _, exists := a.values[key]; !exists {
		return
	}

	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (a *ArrayValue) Keys() []string {
	return append([]string(nil), a.keys...)
}

func (a *ArrayValue) Len() int {
	return len(a.keys)
}

// Contains reports whether any element's string form equals v's
func (a *ArrayValue) Contains(v Value) bool {
	s := v.ToString()
	for _, key := range a.keys {
		if a.values[key].ToString() == s {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the array
func (a *ArrayValue) Clone() *ArrayValue {
	c := NewArray()
	for _, key := range a.keys {
		v := a.values[key]
		if nested, ok := v.(*ArrayValue); ok {
			v = nested.Clone()
		}
		c.keys = append(c.keys, key)
		c.values[key] = v
	}

	return c
}

// Child returns the array stored under key, replacing anything that is not
// an array with a new empty one.
func (a *ArrayValue) Child(key string) *ArrayValue {
	if v, ok := a.values[key]; ok {
		if nested, ok := v.(*ArrayValue); ok {
			return nested
		}
	}

	nested := NewArray()
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = nested
	return nested
}

func escape(s string) string {
	if !strings.ContainsAny(s, `\=;`) {
		return s
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\\' || r == '=' || r == ';' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}

	return b.String()
}
