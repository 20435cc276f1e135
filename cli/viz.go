// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the text dashboard and graphviz pipeline/geography graphs
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/viz"
)

// DashboardCommand prints pipeline counts and what needs attention.
func DashboardCommand(w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats := viz.GenerateDashboardStats(ctrl.Document(), now())
	_, _ = fmt.Fprint(w, viz.RenderDashboard(stats))
	return nil
}

// GraphCommand renders the pipeline or geography graph.
func GraphCommand(w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	fs.SetOutput(w)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: graph [--output <file>] pipeline|geo")
	}

	generator := viz.NewGraphGenerator(ctrl.Document())

	var (
		dot string
		err error
	)
	switch fs.Arg(0) {
	case "pipeline":
		dot, err = generator.GeneratePipelineGraph()
	case "geo", "geography":
		dot, err = generator.GenerateGeographyGraph()
	default:
		return fmt.Errorf("unknown graph type: %s (want pipeline or geo)", fs.Arg(0))
	}
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(dot), 0644); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "✓ Graph written to %s\n", *output)
		return nil
	}

	_, _ = fmt.Fprintln(w, dot)
	return nil
}
