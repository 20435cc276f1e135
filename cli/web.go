// ABOUTME: Web dashboard subcommand
// ABOUTME: Serves the read-only HTML views until interrupted
package cli

import (
	"context"
	"flag"
	"io"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/web"
)

// WebCommand starts the web UI on localhost.
func WebCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(w)
	port := fs.Int("port", 8080, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server, err := web.NewServer(ctrl, logger)
	if err != nil {
		return err
	}
	return server.Start(ctx, *port)
}
