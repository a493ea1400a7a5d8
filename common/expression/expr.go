package expression

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/ast"
	"github.com/antonmedv/expr/parser"
	"github.com/antonmedv/expr/vm"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// ExprEngine is an implementation of the expr expression engine.
// Compiled programs are cached by expression text.
type ExprEngine struct {
	programs sync.Map
}

// Eval compiles and runs an expression against vars.
// An empty expression evaluates to nil, and a leading "=" is ignored.
func (e *ExprEngine) Eval(ctx context.Context, exp string, vars map[string]interface{}) (interface{}, error) {
	exp = strings.TrimPrefix(strings.TrimSpace(exp), "=")
	if len(exp) == 0 {
		return nil, nil
	}
	ex, err := e.program(exp)
	if err != nil {
		return nil, err
	}
	res, err := expr.Run(ex, vars)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression: %w", err)
	}
	return res, nil
}

func (e *ExprEngine) program(exp string) (*vm.Program, error) {
	if p, ok := e.programs.Load(exp); ok {
		return p.(*vm.Program), nil
	}
	ex, err := expr.Compile(exp)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %s: %w", exp, err.Error(), errors2.ErrBadFilter)
	}
	e.programs.Store(exp, ex)
	return ex, nil
}

// GetVariables returns the identifiers referenced by an expression.
func (e *ExprEngine) GetVariables(ctx context.Context, exp string) ([]Variable, error) {
	exp = strings.TrimPrefix(strings.TrimSpace(exp), "=")
	if len(exp) == 0 {
		return nil, nil
	}
	c, err := parser.Parse(exp)
	if err != nil {
		return nil, fmt.Errorf("get variables failed to parse expression: %w", err)
	}
	g := &exprVariableWalker{v: make([]Variable, 0)}
	ast.Walk(&c.Node, g)
	return g.v, nil
}

type exprVariableWalker struct {
	v []Variable
}

// Visit collects every IdentifierNode.
func (w *exprVariableWalker) Visit(n *ast.Node) {
	if t, ok := (*n).(*ast.IdentifierNode); ok {
		w.v = append(w.v, Variable{Name: t.Value})
	}
}

// Exit is unused.
func (w *exprVariableWalker) Exit(_ *ast.Node) {}
