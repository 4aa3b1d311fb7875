package bytecodeio

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta is the optional `.meta.yaml` sidecar `cmd/quartz compile` writes
// next to a `.bc` file: human-readable build provenance that is never
// required to execute the bytecode (spec.md §6's persisted state is
// the `.bc` file alone). Grounded on the teacher's use of yaml.v3 for
// its own human-authored config documents (internal/ext/config.go).
type Meta struct {
	Source       string `yaml:"source"`
	Version      int    `yaml:"version"`
	OptimizerRan bool   `yaml:"optimizer_ran"`
}

// sidecarPath derives FILE.meta.yaml from a .bc path.
func sidecarPath(bcPath string) string {
	return strings.TrimSuffix(bcPath, ".bc") + ".meta.yaml"
}

// WriteMeta writes the sidecar for bcPath. Failure to write it is
// non-fatal to the caller's build (it's documented as best-effort),
// but the error is still returned so cmd/quartz can choose to warn.
func WriteMeta(bcPath string, m Meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(sidecarPath(bcPath), data, 0o644)
}

// ReadMeta loads the sidecar for bcPath, if present. A missing sidecar
// returns (Meta{}, false, nil) so disassemble can print without
// provenance; any other read error, or malformed YAML, is returned.
func ReadMeta(bcPath string) (Meta, bool, error) {
	data, err := os.ReadFile(sidecarPath(bcPath))
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, false, nil
		}
		return Meta{}, false, err
	}
	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Meta{}, false, err
	}
	return m, true, nil
}
