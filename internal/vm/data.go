package vm

import "github.com/quartzlang/quartz/internal/value"

// opCons implements spec.md §3's list constructor: pop tail then head
// (head was pushed first), push Cons(head, tail).
func (vm *VM) opCons() error {
	tail, err := vm.pop()
	if err != nil {
		return err
	}
	head, err := vm.pop()
	if err != nil {
		return err
	}
	if !tail.IsList() {
		return typeError(vm, "cons", "list", tail.Kind().String())
	}
	vm.push(value.Cons(head, tail))
	return nil
}

func (vm *VM) opCar() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsList() {
		return typeError(vm, "car", "list", v.Kind().String())
	}
	head, ok := v.AsList().Car()
	if !ok {
		return newRuntimeError(vm, "car of empty list")
	}
	vm.push(head)
	return nil
}

func (vm *VM) opCdr() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsList() {
		return typeError(vm, "cdr", "list", v.Kind().String())
	}
	vm.push(v.AsList().Cdr())
	return nil
}

// opMakeList implements spec.md §3's MakeList(n): pop n values (in
// their original left-to-right order, since popN preserves push
// order) and build a proper list from them.
func (vm *VM) opMakeList(n int) error {
	items, err := vm.popN(n)
	if err != nil {
		return err
	}
	vm.push(value.ListOf(items...))
	return nil
}

// opAppend pops b then a and pushes Append(a, b), sharing b's
// structure entirely (spec.md §9).
func (vm *VM) opAppend() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsList() {
		return typeError(vm, "append", "list", a.Kind().String())
	}
	if !b.IsList() {
		return typeError(vm, "append", "list", b.Kind().String())
	}
	vm.push(value.Append(a, b))
	return nil
}

func (vm *VM) opListRef() error {
	idx, err := vm.pop()
	if err != nil {
		return err
	}
	lst, err := vm.pop()
	if err != nil {
		return err
	}
	if !lst.IsList() {
		return typeError(vm, "list-ref", "list", lst.Kind().String())
	}
	if !idx.IsInteger() {
		return typeError(vm, "list-ref", "integer", idx.Kind().String())
	}
	items := lst.AsList().Slice()
	i := idx.AsInt()
	if i < 0 || int(i) >= len(items) {
		return newRuntimeError(vm, "list-ref: index %d out of bounds (length %d)", i, len(items))
	}
	vm.push(items[i])
	return nil
}

func (vm *VM) opListLength() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsList() {
		return typeError(vm, "list-length", "list", v.Kind().String())
	}
	vm.push(value.Integer(int64(v.AsList().Len())))
	return nil
}

func (vm *VM) opMakeVector(n int) error {
	items, err := vm.popN(n)
	if err != nil {
		return err
	}
	vm.push(value.NewVector(items))
	return nil
}

func (vm *VM) opVectorGet() error {
	idx, err := vm.pop()
	if err != nil {
		return err
	}
	vec, err := vm.pop()
	if err != nil {
		return err
	}
	if !vec.IsVector() {
		return typeError(vm, "vector-get", "vector", vec.Kind().String())
	}
	if !idx.IsInteger() {
		return typeError(vm, "vector-get", "integer", idx.Kind().String())
	}
	elem, ok := vec.AsVector().Get(int(idx.AsInt()))
	if !ok {
		return newRuntimeError(vm, "vector-get: index %d out of bounds (length %d)", idx.AsInt(), vec.AsVector().Len())
	}
	vm.push(elem)
	return nil
}

func (vm *VM) opVectorSet() error {
	val, err := vm.pop()
	if err != nil {
		return err
	}
	idx, err := vm.pop()
	if err != nil {
		return err
	}
	vec, err := vm.pop()
	if err != nil {
		return err
	}
	if !vec.IsVector() {
		return typeError(vm, "vector-set", "vector", vec.Kind().String())
	}
	if !idx.IsInteger() {
		return typeError(vm, "vector-set", "integer", idx.Kind().String())
	}
	next, ok := vec.AsVector().Set(int(idx.AsInt()), val)
	if !ok {
		return newRuntimeError(vm, "vector-set: index %d out of bounds (length %d)", idx.AsInt(), vec.AsVector().Len())
	}
	vm.push(value.VectorValue(next))
	return nil
}

func (vm *VM) opVectorPush() error {
	val, err := vm.pop()
	if err != nil {
		return err
	}
	vec, err := vm.pop()
	if err != nil {
		return err
	}
	if !vec.IsVector() {
		return typeError(vm, "vector-push", "vector", vec.Kind().String())
	}
	vm.push(value.VectorValue(vec.AsVector().Push(val)))
	return nil
}

// opVectorPop returns the vector with its last element removed. The
// popped element itself is discarded: a language wanting both would
// read the last element with vector-get first (spec.md leaves the
// exact multi-value contract open; see DESIGN.md).
func (vm *VM) opVectorPop() error {
	vec, err := vm.pop()
	if err != nil {
		return err
	}
	if !vec.IsVector() {
		return typeError(vm, "vector-pop", "vector", vec.Kind().String())
	}
	next, _, ok := vec.AsVector().Pop()
	if !ok {
		return newRuntimeError(vm, "vector-pop: empty vector")
	}
	vm.push(value.VectorValue(next))
	return nil
}

func (vm *VM) opVectorLength() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsVector() {
		return typeError(vm, "vector-length", "vector", v.Kind().String())
	}
	vm.push(value.Integer(int64(v.AsVector().Len())))
	return nil
}

// opMakeHashMap implements spec.md §3's MakeHashMap(n): pop 2n values
// (n key/value pairs, in original order) and build a map. Keys must be
// strings.
func (vm *VM) opMakeHashMap(n int) error {
	items, err := vm.popN(2 * n)
	if err != nil {
		return err
	}
	entries := make(map[string]value.Value, n)
	for i := 0; i < n; i++ {
		k := items[2*i]
		if !k.IsString() {
			return typeError(vm, "make-hash-map", "string key", k.Kind().String())
		}
		entries[k.AsString()] = items[2*i+1]
	}
	vm.push(value.NewHashMap(entries))
	return nil
}

func (vm *VM) opHashMapGet() error {
	key, err := vm.pop()
	if err != nil {
		return err
	}
	m, err := vm.pop()
	if err != nil {
		return err
	}
	if !m.IsHashMap() {
		return typeError(vm, "hash-map-get", "hashmap", m.Kind().String())
	}
	if !key.IsString() {
		return typeError(vm, "hash-map-get", "string key", key.Kind().String())
	}
	v, ok := m.AsHashMap().Get(key.AsString())
	if !ok {
		return newRuntimeError(vm, "hash-map-get: key %q not found", key.AsString())
	}
	vm.push(v)
	return nil
}

func (vm *VM) opHashMapSet() error {
	val, err := vm.pop()
	if err != nil {
		return err
	}
	key, err := vm.pop()
	if err != nil {
		return err
	}
	m, err := vm.pop()
	if err != nil {
		return err
	}
	if !m.IsHashMap() {
		return typeError(vm, "hash-map-set", "hashmap", m.Kind().String())
	}
	if !key.IsString() {
		return typeError(vm, "hash-map-set", "string key", key.Kind().String())
	}
	vm.push(value.HashMapValue(m.AsHashMap().Set(key.AsString(), val)))
	return nil
}

func (vm *VM) opHashMapKeys() error {
	m, err := vm.pop()
	if err != nil {
		return err
	}
	if !m.IsHashMap() {
		return typeError(vm, "hash-map-keys", "hashmap", m.Kind().String())
	}
	keys := m.AsHashMap().Keys()
	items := make([]value.Value, len(keys))
	for i, k := range keys {
		items[i] = value.String(k)
	}
	vm.push(value.ListOf(items...))
	return nil
}

func (vm *VM) opHashMapValues() error {
	m, err := vm.pop()
	if err != nil {
		return err
	}
	if !m.IsHashMap() {
		return typeError(vm, "hash-map-values", "hashmap", m.Kind().String())
	}
	vm.push(value.ListOf(m.AsHashMap().Values()...))
	return nil
}

func (vm *VM) opHashMapContainsKey() error {
	key, err := vm.pop()
	if err != nil {
		return err
	}
	m, err := vm.pop()
	if err != nil {
		return err
	}
	if !m.IsHashMap() {
		return typeError(vm, "hash-map-contains-key?", "hashmap", m.Kind().String())
	}
	if !key.IsString() {
		return typeError(vm, "hash-map-contains-key?", "string key", key.Kind().String())
	}
	vm.push(value.Boolean(m.AsHashMap().Contains(key.AsString())))
	return nil
}
