// ABOUTME: Google Contacts import subcommand
// ABOUTME: Reuses a stored OAuth token or runs the loopback consent flow first
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/sync"
)

// GoogleImportCommand pulls Google Contacts into the document.
func GoogleImportCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("google-import", flag.ContinueOnError)
	fs.SetOutput(w)
	reauth := fs.Bool("reauth", false, "Ignore the stored token and sign in again")
	if err := fs.Parse(args); err != nil {
		return err
	}

	oauthConfig, err := sync.GetConfig()
	if err != nil {
		return err
	}

	tokenPath := sync.TokenPath()
	token, err := sync.LoadToken(tokenPath)
	if err != nil || *reauth {
		if err != nil {
			logger.Debug("no usable token", "path", tokenPath, "err", err)
		}
		token, err = sync.Authorize(ctx, oauthConfig, w, openBrowser)
		if err != nil {
			return err
		}
		if err := sync.SaveToken(tokenPath, token); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "✓ Token saved to %s\n", tokenPath)
	}

	source, err := sync.NewPeopleSource(ctx, oauthConfig, token)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, "Syncing Google Contacts...")
	res, err := sync.NewContactsImporter(ctrl, logger).Import(ctx, source)
	if err != nil {
		return fmt.Errorf("google import failed: %w", err)
	}
	res.Print(w)
	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
