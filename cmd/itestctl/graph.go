package itestctl

import (
	"errors"
	"fmt"
	"strings"

	"itest/internal/config"
	"itest/internal/dependency"
	"itest/internal/engine"
	"itest/internal/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Validate and print the resolved dependency plan",
		Long: `graph runs discovery and the dry run only: it never executes any
setup, test, or teardown. It reports name conflicts, undeclared
dependencies, and cycles, and on success prints the dependency plan in
the order the harness would schedule it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the harness config file (defaults applied if omitted)")
	return cmd
}

func runGraph(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cmd.Printf("resolved config: workers=%d logDir=%s\n", cfg.Workers, cfg.LogDir)

	rows, err := engine.Plan(registry.Default())
	if err != nil {
		fmt.Fprintln(cmd.OutOrStderr(), formatGraphError(err))
		return err
	}

	cmd.Println(renderPlanTable(rows))
	return nil
}

func formatGraphError(err error) string {
	var declErr *engine.DeclarationError
	if errors.As(err, &declErr) {
		msgs := make([]string, len(declErr.Errs))
		for i, e := range declErr.Errs {
			msgs[i] = e.Error()
		}
		return text.FgRed.Sprint("invalid dependency declarations:\n" + strings.Join(msgs, ""))
	}
	var cycleErr *dependency.CycleError
	if errors.As(err, &cycleErr) {
		return text.FgRed.Sprintf("dependency cycle detected among: %s", strings.Join(cycleErr.Stuck, ", "))
	}
	return text.FgRed.Sprint(err.Error())
}

func renderPlanTable(rows []engine.PlanRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(ttableHeader())
	for _, r := range rows {
		deps := strings.Join(r.DependsOn, ", ")
		if deps == "" {
			deps = "-"
		}
		t.AppendRow(table.Row{r.Order, text.FgHiCyan.Sprint(r.Name), deps})
	}
	var out strings.Builder
	t.SetOutputMirror(&out)
	t.Render()
	return out.String()
}

func ttableHeader() table.Row {
	return table.Row{
		text.FgHiCyan.Sprint("ORDER"),
		text.FgHiCyan.Sprint("NAME"),
		text.FgHiCyan.Sprint("DEPENDS ON"),
	}
}
