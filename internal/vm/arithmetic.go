package vm

import "github.com/quartzlang/quartz/internal/value"

// numericBinOp pops b then a (a was pushed first, per the compiler's
// left-to-right operand emission) and applies an integer or float
// operation depending on whether either operand is a float.
func (vm *VM) numericBinOp(op string, intOp func(a, b int64) (value.Value, error), floatOp func(a, b float64) value.Value) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsNumber() {
		return typeError(vm, op, "number", a.Kind().String())
	}
	if !b.IsNumber() {
		return typeError(vm, op, "number", b.Kind().String())
	}
	if a.IsInteger() && b.IsInteger() {
		v, err := intOp(a.AsInt(), b.AsInt())
		if err != nil {
			return err
		}
		vm.push(v)
		return nil
	}
	vm.push(floatOp(a.NumberAsFloat(), b.NumberAsFloat()))
	return nil
}

func (vm *VM) opAdd() error {
	return vm.numericBinOp("+",
		func(a, b int64) (value.Value, error) { return value.Integer(a + b), nil },
		func(a, b float64) value.Value { return value.Float(a + b) })
}

func (vm *VM) opSub() error {
	return vm.numericBinOp("-",
		func(a, b int64) (value.Value, error) { return value.Integer(a - b), nil },
		func(a, b float64) value.Value { return value.Float(a - b) })
}

func (vm *VM) opMul() error {
	return vm.numericBinOp("*",
		func(a, b int64) (value.Value, error) { return value.Integer(a * b), nil },
		func(a, b float64) value.Value { return value.Float(a * b) })
}

func (vm *VM) opDiv() error {
	return vm.numericBinOp("/",
		func(a, b int64) (value.Value, error) {
			if b == 0 {
				return value.Value{}, newRuntimeError(vm, "division by zero")
			}
			return value.Integer(a / b), nil
		},
		func(a, b float64) value.Value { return value.Float(a / b) })
}

func (vm *VM) opMod() error {
	return vm.numericBinOp("%",
		func(a, b int64) (value.Value, error) {
			if b == 0 {
				return value.Value{}, newRuntimeError(vm, "modulo by zero")
			}
			return value.Integer(a % b), nil
		},
		func(a, b float64) value.Value {
			r := a - b*float64(int64(a/b))
			return value.Float(r)
		})
}

func (vm *VM) opNeg() error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsNumber() {
		return typeError(vm, "neg", "number", a.Kind().String())
	}
	if a.IsInteger() {
		vm.push(value.Integer(-a.AsInt()))
	} else {
		vm.push(value.Float(-a.AsFloat()))
	}
	return nil
}

func (vm *VM) compare(op string, intCmp func(a, b int64) bool, floatCmp func(a, b float64) bool) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsNumber() {
		return typeError(vm, op, "number", a.Kind().String())
	}
	if !b.IsNumber() {
		return typeError(vm, op, "number", b.Kind().String())
	}
	if a.IsInteger() && b.IsInteger() {
		vm.push(value.Boolean(intCmp(a.AsInt(), b.AsInt())))
		return nil
	}
	vm.push(value.Boolean(floatCmp(a.NumberAsFloat(), b.NumberAsFloat())))
	return nil
}

func (vm *VM) opLt() error  { return vm.compare("<", func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b }) }
func (vm *VM) opLeq() error { return vm.compare("<=", func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b }) }
func (vm *VM) opGt() error  { return vm.compare(">", func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b }) }
func (vm *VM) opGte() error { return vm.compare(">=", func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b }) }

func (vm *VM) opEq() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	vm.push(value.Boolean(a.Equals(b)))
	return nil
}

func (vm *VM) opNeq() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	vm.push(value.Boolean(!a.Equals(b)))
	return nil
}
