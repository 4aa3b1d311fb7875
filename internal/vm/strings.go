package vm

import (
	"strings"

	"github.com/quartzlang/quartz/internal/value"
)

func (vm *VM) opStringLength() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "string-length", "string", v.Kind().String())
	}
	vm.push(value.Integer(int64(len([]rune(v.AsString())))))
	return nil
}

// opSubstring pops end, then start, then the string (pushed in that
// order: string, start, end), clamping start/end to the string's
// bounds the way the reference implementation does.
func (vm *VM) opSubstring() error {
	end, err := vm.pop()
	if err != nil {
		return err
	}
	start, err := vm.pop()
	if err != nil {
		return err
	}
	str, err := vm.pop()
	if err != nil {
		return err
	}
	if !str.IsString() || !start.IsInteger() || !end.IsInteger() {
		return typeError(vm, "substring", "a string and two integers", str.Kind().String())
	}
	runes := []rune(str.AsString())
	s := start.AsInt()
	e := end.AsInt()
	if s < 0 {
		s = 0
	}
	if e > int64(len(runes)) {
		e = int64(len(runes))
	}
	if s > e || e > int64(len(runes)) {
		return newRuntimeError(vm, "'substring' invalid indices: start=%d, end=%d, string length=%d", start.AsInt(), end.AsInt(), len(runes))
	}
	vm.push(value.String(string(runes[s:e])))
	return nil
}

func (vm *VM) opStringAppend() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsString() || !b.IsString() {
		return typeError(vm, "string-append", "two strings", a.Kind().String())
	}
	vm.push(value.String(a.AsString() + b.AsString()))
	return nil
}

func (vm *VM) opCharCode() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "char-code", "string", v.Kind().String())
	}
	runes := []rune(v.AsString())
	if len(runes) != 1 {
		return newRuntimeError(vm, "'char-code' expects a single-character string, got %d characters", len(runes))
	}
	vm.push(value.Integer(int64(runes[0])))
	return nil
}

func (vm *VM) opStringSplit() error {
	delim, err := vm.pop()
	if err != nil {
		return err
	}
	str, err := vm.pop()
	if err != nil {
		return err
	}
	if !str.IsString() || !delim.IsString() {
		return typeError(vm, "string-split", "two strings", str.Kind().String())
	}
	var parts []string
	if delim.AsString() == "" {
		for _, r := range str.AsString() {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(str.AsString(), delim.AsString())
	}
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.String(p)
	}
	vm.push(value.ListOf(items...))
	return nil
}

func (vm *VM) opStringJoin() error {
	delim, err := vm.pop()
	if err != nil {
		return err
	}
	lst, err := vm.pop()
	if err != nil {
		return err
	}
	if !lst.IsList() || !delim.IsString() {
		return typeError(vm, "string-join", "a list and a string", lst.Kind().String())
	}
	items := lst.AsList().Slice()
	parts := make([]string, len(items))
	for i, it := range items {
		if !it.IsString() {
			return typeError(vm, "string-join", "a list of strings", it.Kind().String())
		}
		parts[i] = it.AsString()
	}
	vm.push(value.String(strings.Join(parts, delim.AsString())))
	return nil
}

func (vm *VM) opStringTrim() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "string-trim", "string", v.Kind().String())
	}
	vm.push(value.String(strings.TrimSpace(v.AsString())))
	return nil
}

func (vm *VM) opStringReplace() error {
	newStr, err := vm.pop()
	if err != nil {
		return err
	}
	oldStr, err := vm.pop()
	if err != nil {
		return err
	}
	str, err := vm.pop()
	if err != nil {
		return err
	}
	if !str.IsString() || !oldStr.IsString() || !newStr.IsString() {
		return typeError(vm, "string-replace", "three strings", str.Kind().String())
	}
	vm.push(value.String(strings.ReplaceAll(str.AsString(), oldStr.AsString(), newStr.AsString())))
	return nil
}

func (vm *VM) opStringStartsWith() error {
	prefix, err := vm.pop()
	if err != nil {
		return err
	}
	str, err := vm.pop()
	if err != nil {
		return err
	}
	if !str.IsString() || !prefix.IsString() {
		return typeError(vm, "string-starts-with?", "two strings", str.Kind().String())
	}
	vm.push(value.Boolean(strings.HasPrefix(str.AsString(), prefix.AsString())))
	return nil
}

func (vm *VM) opStringEndsWith() error {
	suffix, err := vm.pop()
	if err != nil {
		return err
	}
	str, err := vm.pop()
	if err != nil {
		return err
	}
	if !str.IsString() || !suffix.IsString() {
		return typeError(vm, "string-ends-with?", "two strings", str.Kind().String())
	}
	vm.push(value.Boolean(strings.HasSuffix(str.AsString(), suffix.AsString())))
	return nil
}

func (vm *VM) opStringContains() error {
	needle, err := vm.pop()
	if err != nil {
		return err
	}
	str, err := vm.pop()
	if err != nil {
		return err
	}
	if !str.IsString() || !needle.IsString() {
		return typeError(vm, "string-contains?", "two strings", str.Kind().String())
	}
	vm.push(value.Boolean(strings.Contains(str.AsString(), needle.AsString())))
	return nil
}

func (vm *VM) opStringUpcase() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "string-upcase", "string", v.Kind().String())
	}
	vm.push(value.String(strings.ToUpper(v.AsString())))
	return nil
}

func (vm *VM) opStringDowncase() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsString() {
		return typeError(vm, "string-downcase", "string", v.Kind().String())
	}
	vm.push(value.String(strings.ToLower(v.AsString())))
	return nil
}

// opFormat implements a small printf-style formatter: pops the
// argument list (in original order, prebuilt by the caller via
// MakeList) and the format string, substituting "~a" (Inspect) and
// "~s" (Inspect, same as ~a for this value model) occurrences in
// order.
func (vm *VM) opFormat() error {
	args, err := vm.pop()
	if err != nil {
		return err
	}
	format, err := vm.pop()
	if err != nil {
		return err
	}
	if !format.IsString() || !args.IsList() {
		return typeError(vm, "format", "a format string and a list of arguments", format.Kind().String())
	}
	items := args.AsList().Slice()
	var sb strings.Builder
	idx := 0
	runes := []rune(format.AsString())
	for i := 0; i < len(runes); i++ {
		if runes[i] == '~' && i+1 < len(runes) && (runes[i+1] == 'a' || runes[i+1] == 's') {
			if idx >= len(items) {
				return newRuntimeError(vm, "'format' has more placeholders than arguments")
			}
			sb.WriteString(items[idx].Inspect())
			idx++
			i++
			continue
		}
		sb.WriteRune(runes[i])
	}
	vm.push(value.String(sb.String()))
	return nil
}
