package value

import (
	"sort"
	"strings"
)

// HashMap maps string keys to values. It is shared by reference and
// copy-on-write for Set, per spec.md §3: Set clones the backing map so
// any previously observed reference keeps seeing the old contents.
type HashMap struct {
	entries map[string]Value
}

func (*HashMap) objKind() Kind { return KindHashMap }

// NewHashMap builds a HashMap owning its own copy of entries.
func NewHashMap(entries map[string]Value) Value {
	owned := make(map[string]Value, len(entries))
	for k, v := range entries {
		owned[k] = v
	}
	return fromObj(&HashMap{entries: owned})
}

func EmptyHashMap() Value { return NewHashMap(nil) }

func (v Value) AsHashMap() *HashMap { return v.obj.(*HashMap) }

// HashMapValue wraps an already-built HashMap as a Value without
// copying, for Set results that already own a fresh backing map.
func HashMapValue(h *HashMap) Value { return fromObj(h) }

func (h *HashMap) Get(key string) (Value, bool) {
	v, ok := h.entries[key]
	return v, ok
}

func (h *HashMap) Contains(key string) bool {
	_, ok := h.entries[key]
	return ok
}

// Set returns a new HashMap with key bound to val, leaving h untouched.
func (h *HashMap) Set(key string, val Value) *HashMap {
	out := make(map[string]Value, len(h.entries)+1)
	for k, v := range h.entries {
		out[k] = v
	}
	out[key] = val
	return &HashMap{entries: out}
}

// Keys returns the map's keys in a stable (sorted) order so bytecode
// behavior is deterministic and tests are reproducible.
func (h *HashMap) Keys() []string {
	keys := make([]string, 0, len(h.entries))
	for k := range h.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *HashMap) Values() []Value {
	keys := h.Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = h.entries[k]
	}
	return out
}

func (h *HashMap) Len() int { return len(h.entries) }

func (h *HashMap) Equals(o *HashMap) bool {
	if len(h.entries) != len(o.entries) {
		return false
	}
	for k, v := range h.entries {
		ov, ok := o.entries[k]
		if !ok || !v.Equals(ov) {
			return false
		}
	}
	return true
}

func (h *HashMap) Inspect() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range h.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteByte(' ')
		sb.WriteString(h.entries[k].Inspect())
	}
	sb.WriteByte('}')
	return sb.String()
}
