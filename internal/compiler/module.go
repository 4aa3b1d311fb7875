package compiler

// moduleResolver tracks the current module namespace and the alias
// table populated by `import`, per spec.md §4.8: a `module` statement
// qualifies subsequent def/defun names as "module/basename"; `import`
// adds alias -> "module/basename" entries consulted before the current
// module's own namespace and before the global namespace.
type moduleResolver struct {
	current string            // "" when no module statement has been seen
	aliases map[string]string // alias -> fully qualified module/name prefix
}

func newModuleResolver() *moduleResolver {
	return &moduleResolver{aliases: make(map[string]string)}
}

// Qualify returns the name a def/defun under the current module should
// be stored under.
func (m *moduleResolver) Qualify(name string) string {
	if m.current == "" {
		return name
	}
	return m.current + "/" + name
}

// ResolveAlias rewrites "alias.name" into its fully qualified module
// path, if alias is known; otherwise returns name unchanged.
func (m *moduleResolver) ResolveAlias(name string) (string, bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			alias, rest := name[:i], name[i+1:]
			if prefix, ok := m.aliases[alias]; ok {
				return prefix + "/" + rest, true
			}
		}
	}
	return name, false
}

func (m *moduleResolver) SetModule(name string) { m.current = name }

func (m *moduleResolver) AddImport(modulePath, alias string) {
	m.aliases[alias] = modulePath
}
