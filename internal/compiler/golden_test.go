package compiler_test

// Table-driven code-generation tests, fixtures stored as a single
// txtar archive (golang.org/x/tools/txtar) pairing each source
// snippet with the opcode mnemonics it must compile to. Grounded on
// the same technique other Go toolchains use for golden command
// fixtures; adopted here per SPEC_FULL.md's domain stack so the
// compiler's golden tests don't hand-roll their own two-files-per-case
// convention.

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/quartzlang/quartz/internal/compiler"
	"github.com/quartzlang/quartz/internal/parser"
)

func TestGoldenCodeGeneration(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/golden.txtar")
	require.NoError(t, err)

	files := make(map[string]string, len(archive.Files))
	for _, f := range archive.Files {
		files[f.Name] = string(f.Data)
	}

	var cases []string
	for name := range files {
		if strings.HasSuffix(name, ".lisp") {
			cases = append(cases, strings.TrimSuffix(name, ".lisp"))
		}
	}
	require.NotEmpty(t, cases)

	for _, name := range cases {
		name := name
		t.Run(name, func(t *testing.T) {
			src, ok := files[name+".lisp"]
			require.True(t, ok, "missing %s.lisp", name)
			wantRaw, ok := files[name+".ops"]
			require.True(t, ok, "missing %s.ops", name)

			var want []string
			for _, line := range strings.Split(strings.TrimSpace(wantRaw), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					want = append(want, line)
				}
			}

			forms, err := parser.Parse(src, name)
			require.NoError(t, err)
			prog, err := compiler.Compile(forms)
			require.NoError(t, err)

			var got []string
			for _, instr := range prog.Main.Code {
				got = append(got, instr.Op.String())
			}
			require.Equal(t, want, got)
		})
	}
}
