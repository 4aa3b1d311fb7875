package bytecodeio

import (
	"bytes"
	"fmt"
	"os"

	"github.com/quartzlang/quartz/internal/bytecode"
)

// WriteFile serializes p and writes it to path.
func WriteFile(path string, p *bytecode.Program) error {
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile loads and deserializes a Program from path.
func ReadFile(path string) (*bytecode.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
