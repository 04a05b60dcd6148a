package engine

import (
	"errors"
	"fmt"
	"strings"

	"itest/internal/dependency"
	"itest/internal/registry"
)

// DeclarationError wraps every DeclNameConflict/UndeclaredDependency the
// builder reported. All of them are collected before the engine aborts,
// matching the spec's "report everything, then abort" policy. A cycle is
// not part of it: discover returns the dry run's *dependency.CycleError
// on its own, and only once the declarations themselves are valid.
type DeclarationError struct {
	Errs []error
}

func (e *DeclarationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid component declarations:\n%s", strings.Join(msgs, ""))
}

func (e *DeclarationError) Unwrap() []error { return e.Errs }

// discover builds the DepTable and aligned setup-function slice from
// reg's accumulated declarations, then dry-runs the table to detect
// cycles and compute the stable display order.
func discover(reg *registry.Registry) (*dependency.DepTable[dependency.SourceLocation], []registry.SetUpFunc, []dependency.Task, error) {
	setUps := reg.SetUps()
	builder := dependency.NewBuilder[dependency.SourceLocation]()
	fns := make([]registry.SetUpFunc, len(setUps))
	for i, s := range setUps {
		builder.DeclareNode(s.At, s.Name, s.Deps)
		fns[i] = s.Fn
	}

	table, errs := builder.Build()
	if len(errs) > 0 {
		return nil, nil, nil, &DeclarationError{Errs: errs}
	}

	order, err := table.DryRun()
	if err != nil {
		var cycleErr *dependency.CycleError
		if errors.As(err, &cycleErr) {
			return nil, nil, nil, err
		}
		return nil, nil, nil, err
	}

	return table, fns, order, nil
}
