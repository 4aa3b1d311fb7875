package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quartzlang/quartz/internal/value"
)

func (vm *VM) unaryBoolean(test func(value.Value) bool) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.push(value.Boolean(test(v)))
	return nil
}

func (vm *VM) opIsInteger() error  { return vm.unaryBoolean(value.Value.IsInteger) }
func (vm *VM) opIsFloat() error    { return vm.unaryBoolean(value.Value.IsFloat) }
func (vm *VM) opIsNumber() error   { return vm.unaryBoolean(value.Value.IsNumber) }
func (vm *VM) opIsBoolean() error  { return vm.unaryBoolean(value.Value.IsBoolean) }
func (vm *VM) opIsList() error     { return vm.unaryBoolean(value.Value.IsList) }
func (vm *VM) opIsString() error   { return vm.unaryBoolean(value.Value.IsString) }
func (vm *VM) opIsSymbol() error   { return vm.unaryBoolean(value.Value.IsSymbol) }
func (vm *VM) opIsFunction() error { return vm.unaryBoolean(value.Value.IsFunction) }
func (vm *VM) opIsClosure() error  { return vm.unaryBoolean(value.Value.IsClosure) }
func (vm *VM) opIsProcedure() error { return vm.unaryBoolean(value.Value.IsProcedure) }
func (vm *VM) opIsVector() error   { return vm.unaryBoolean(value.Value.IsVector) }
func (vm *VM) opIsHashMap() error  { return vm.unaryBoolean(value.Value.IsHashMap) }

func (vm *VM) opSymbolToString() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsSymbol() {
		return typeError(vm, "symbol->string", "symbol", v.Kind().String())
	}
	vm.push(value.String(v.AsSymbol()))
	return nil
}

func (vm *VM) opStringToSymbol() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "string->symbol", "string", v.Kind().String())
	}
	vm.push(value.Symbol(v.AsString()))
	return nil
}

func (vm *VM) opStringToNumber() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "string->number", "string", v.Kind().String())
	}
	s := strings.TrimSpace(v.AsString())
	n, err2 := strconv.ParseInt(s, 10, 64)
	if err2 != nil {
		return newRuntimeError(vm, "'string->number' cannot parse %q as a number", v.AsString())
	}
	vm.push(value.Integer(n))
	return nil
}

func (vm *VM) opNumberToString() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsInteger() {
		return typeError(vm, "number->string", "integer", v.Kind().String())
	}
	vm.push(value.String(fmt.Sprintf("%d", v.AsInt())))
	return nil
}

func (vm *VM) opIntToFloat() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsInteger() {
		return typeError(vm, "int->float", "integer", v.Kind().String())
	}
	vm.push(value.Float(float64(v.AsInt())))
	return nil
}

func (vm *VM) opFloatToInt() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsFloat() {
		return typeError(vm, "float->int", "float", v.Kind().String())
	}
	vm.push(value.Integer(int64(v.AsFloat())))
	return nil
}

func (vm *VM) opListToVector() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsList() {
		return typeError(vm, "list->vector", "list", v.Kind().String())
	}
	vm.push(value.NewVector(v.AsList().Slice()))
	return nil
}

func (vm *VM) opVectorToList() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsVector() {
		return typeError(vm, "vector->list", "vector", v.Kind().String())
	}
	vm.push(value.ListOf(v.AsVector().Slice()...))
	return nil
}

func (vm *VM) opStringToList() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "string->list", "string", v.Kind().String())
	}
	runes := []rune(v.AsString())
	items := make([]value.Value, len(runes))
	for i, r := range runes {
		items[i] = value.String(string(r))
	}
	vm.push(value.ListOf(items...))
	return nil
}

func (vm *VM) opListToString() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsList() {
		return typeError(vm, "list->string", "list", v.Kind().String())
	}
	var sb strings.Builder
	for _, item := range v.AsList().Slice() {
		if !item.IsString() {
			return typeError(vm, "list->string", "list of strings", item.Kind().String())
		}
		sb.WriteString(item.AsString())
	}
	vm.push(value.String(sb.String()))
	return nil
}
