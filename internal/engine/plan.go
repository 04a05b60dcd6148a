package engine

import "itest/internal/registry"

// PlanRow describes one SetUp declaration's place in the resolved
// dependency plan, in the order the dry run would schedule it.
type PlanRow struct {
	Order     int
	Name      string
	DependsOn []string
}

// Plan discovers reg's declarations and resolves them into a dry-run
// order without executing anything. It is the basis for "itestctl
// graph": a non-nil error means the graph is invalid (a *DeclarationError
// or a *dependency.CycleError), and no rows are returned.
func Plan(reg *registry.Registry) ([]PlanRow, error) {
	table, _, order, err := discover(reg)
	if err != nil {
		return nil, err
	}

	rows := make([]PlanRow, len(order))
	for i, task := range order {
		rows[i] = PlanRow{
			Order:     i,
			Name:      table.Name(int(task)),
			DependsOn: table.DependsOn(int(task)),
		}
	}
	return rows, nil
}
