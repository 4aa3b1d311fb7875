package compiler

import "github.com/quartzlang/quartz/internal/ast"

// freeVars walks body collecting every referenced symbol name that is
// not in bound (parameters plus anything shadowed by an inner
// let/lambda), in first-occurrence order so capture indices are
// deterministic. `quote` subtrees are skipped entirely (spec.md §4.4).
func freeVars(body []ast.Node, bound map[string]bool) []string {
	var order []string
	seen := map[string]bool{}
	var walk func(n ast.Node, bound map[string]bool)
	walkBody := func(nodes []ast.Node, bound map[string]bool) {
		for _, n := range nodes {
			walk(n, bound)
		}
	}
	walk = func(n ast.Node, bound map[string]bool) {
		switch v := n.(type) {
		case *ast.Symbol:
			if !bound[v.Name] && !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v.Name)
			}
		case *ast.Quote, *ast.Integer, *ast.Float, *ast.Boolean, *ast.String:
			// literal/quoted subtrees contribute no free variables
		case *ast.Quasiquote:
			walkQuasiquote(v.Value, bound, walk)
		case *ast.Unquote:
			walk(v.Value, bound)
		case *ast.UnquoteSplicing:
			walk(v.Value, bound)
		case *ast.List:
			if head, ok := headSymbol(v); ok {
				switch head {
				case "let", "loop":
					walkLetLike(v, bound, walk)
					return
				case "lambda", "fn":
					walkLambdaLike(v, bound, walk)
					return
				case "quote":
					return
				}
			}
			for _, item := range v.Items {
				walk(item, bound)
			}
		}
	}
	walkBody(body, bound)
	return order
}

func headSymbol(list *ast.List) (string, bool) {
	if len(list.Items) == 0 {
		return "", false
	}
	sym, ok := list.Items[0].(*ast.Symbol)
	if !ok {
		return "", false
	}
	return sym.Name, true
}

// walkLetLike handles let/loop: binding right-hand sides see the
// outer scope, the body sees the extended scope.
func walkLetLike(list *ast.List, bound map[string]bool, walk func(ast.Node, map[string]bool)) {
	if len(list.Items) < 2 {
		return
	}
	bindingsList, ok := list.Items[1].(*ast.List)
	if !ok {
		return
	}
	inner := cloneBound(bound)
	for _, b := range bindingsList.Items {
		pair, ok := b.(*ast.List)
		if !ok || len(pair.Items) != 2 {
			continue
		}
		walk(pair.Items[1], bound)
		addPatternNames(pair.Items[0], inner)
	}
	for _, expr := range list.Items[2:] {
		walk(expr, inner)
	}
}

// walkLambdaLike handles (lambda (params) body...): params (and any
// rest parameter) extend the scope for the body only.
func walkLambdaLike(list *ast.List, bound map[string]bool, walk func(ast.Node, map[string]bool)) {
	if len(list.Items) < 2 {
		return
	}
	inner := cloneBound(bound)
	addPatternNames(list.Items[1], inner)
	for _, expr := range list.Items[2:] {
		walk(expr, inner)
	}
}

func walkQuasiquote(n ast.Node, bound map[string]bool, walk func(ast.Node, map[string]bool)) {
	switch v := n.(type) {
	case *ast.Unquote:
		walk(v.Value, bound)
	case *ast.UnquoteSplicing:
		walk(v.Value, bound)
	case *ast.List:
		for _, item := range v.Items {
			walkQuasiquote(item, bound, walk)
		}
	}
}

func cloneBound(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound))
	for k, v := range bound {
		out[k] = v
	}
	return out
}

// addPatternNames records every symbol leaf a pattern node would bind
// (mirrors bindPattern's shape without emitting any code).
func addPatternNames(pat ast.Node, into map[string]bool) {
	switch p := pat.(type) {
	case *ast.Symbol:
		if p.Name != "_" {
			into[p.Name] = true
		}
	case *ast.List:
		for _, item := range p.Items {
			addPatternNames(item, into)
		}
	}
}
