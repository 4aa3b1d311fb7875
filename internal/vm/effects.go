package vm

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quartzlang/quartz/internal/value"
)

func (vm *VM) opPrint() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	fmt.Println(v.Inspect())
	vm.push(value.Nil)
	return nil
}

func (vm *VM) opReadFile() error {
	path, err := vm.pop()
	if err != nil {
		return err
	}
	if !path.IsString() {
		return typeError(vm, "read-file", "string", path.Kind().String())
	}
	data, ioErr := os.ReadFile(path.AsString())
	if ioErr != nil {
		return newRuntimeError(vm, "'read-file' failed on %q: %v", path.AsString(), ioErr)
	}
	vm.push(value.String(string(data)))
	return nil
}

func (vm *VM) opWriteFile() error {
	content, err := vm.pop()
	if err != nil {
		return err
	}
	path, err := vm.pop()
	if err != nil {
		return err
	}
	if !path.IsString() || !content.IsString() {
		return typeError(vm, "write-file", "two strings", path.Kind().String())
	}
	if ioErr := os.WriteFile(path.AsString(), []byte(content.AsString()), 0o644); ioErr != nil {
		return newRuntimeError(vm, "'write-file' failed on %q: %v", path.AsString(), ioErr)
	}
	vm.push(value.Nil)
	return nil
}

// opWriteBinaryFile writes a list of integers (each 0-255) as raw bytes,
// mirroring the reference implementation's byte-list write path.
func (vm *VM) opWriteBinaryFile() error {
	bytesVal, err := vm.pop()
	if err != nil {
		return err
	}
	path, err := vm.pop()
	if err != nil {
		return err
	}
	if !path.IsString() || !bytesVal.IsList() {
		return typeError(vm, "write-binary-file", "a string and a list of byte integers", path.Kind().String())
	}
	items := bytesVal.AsList().Slice()
	buf := make([]byte, len(items))
	for i, it := range items {
		if !it.IsInteger() {
			return typeError(vm, "write-binary-file", "a list of integers", it.Kind().String())
		}
		buf[i] = byte(it.AsInt())
	}
	if ioErr := os.WriteFile(path.AsString(), buf, 0o644); ioErr != nil {
		return newRuntimeError(vm, "'write-binary-file' failed on %q: %v", path.AsString(), ioErr)
	}
	vm.push(value.Nil)
	return nil
}

func (vm *VM) opFileExists() error {
	path, err := vm.pop()
	if err != nil {
		return err
	}
	if !path.IsString() {
		return typeError(vm, "file-exists?", "string", path.Kind().String())
	}
	_, statErr := os.Stat(path.AsString())
	vm.push(value.Boolean(statErr == nil))
	return nil
}

// canonicalPath gives RequireFile a stable dedup key even when the same
// file is reached through different relative paths.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func (vm *VM) opLoadFile() error {
	path, err := vm.pop()
	if err != nil {
		return err
	}
	if !path.IsString() {
		return typeError(vm, "load-file", "string", path.Kind().String())
	}
	data, ioErr := os.ReadFile(path.AsString())
	if ioErr != nil {
		return newRuntimeError(vm, "'load-file' failed on %q: %v", path.AsString(), ioErr)
	}
	result, err := vm.compileAndRun(string(data), path.AsString())
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

// opRequireFile is LoadFile with once-only semantics keyed on the
// canonicalized path, per spec.md §4.9.
func (vm *VM) opRequireFile() error {
	path, err := vm.pop()
	if err != nil {
		return err
	}
	if !path.IsString() {
		return typeError(vm, "require-file", "string", path.Kind().String())
	}
	key := canonicalPath(path.AsString())
	if vm.loaded[key] {
		vm.push(value.Nil)
		return nil
	}
	data, ioErr := os.ReadFile(path.AsString())
	if ioErr != nil {
		return newRuntimeError(vm, "'require-file' failed on %q: %v", path.AsString(), ioErr)
	}
	vm.loaded[key] = true
	result, err := vm.compileAndRun(string(data), path.AsString())
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

func (vm *VM) opGetArgs() error {
	items := make([]value.Value, len(vm.args))
	for i, a := range vm.args {
		items[i] = value.String(a)
	}
	vm.push(value.ListOf(items...))
	return nil
}

func (vm *VM) opCurrentTimestamp() error {
	vm.push(value.Integer(time.Now().Unix()))
	return nil
}

// opFormatTimestamp formats a Unix-seconds integer with a small set of
// strftime-style directives translated to Go's reference-time layout,
// since Go has no native strftime. Unrecognized directives pass through
// unchanged.
func (vm *VM) opFormatTimestamp() error {
	layoutVal, err := vm.pop()
	if err != nil {
		return err
	}
	ts, err := vm.pop()
	if err != nil {
		return err
	}
	if !ts.IsInteger() || !layoutVal.IsString() {
		return typeError(vm, "format-timestamp", "an integer and a format string", ts.Kind().String())
	}
	t := time.Unix(ts.AsInt(), 0).UTC()
	vm.push(value.String(strftimeToGo(layoutVal.AsString(), t)))
	return nil
}

var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
	'S': "05",
	'Z': "MST",
	'A': "Monday",
	'a': "Mon",
	'B': "January",
	'b': "Jan",
	'p': "PM",
}

func strftimeToGo(pattern string, t time.Time) string {
	var layout []byte
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '%' && i+1 < len(pattern) {
			if repl, ok := strftimeDirectives[pattern[i+1]]; ok {
				layout = append(layout, repl...)
				i++
				continue
			}
		}
		layout = append(layout, pattern[i])
	}
	return t.Format(string(layout))
}
