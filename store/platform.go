// ABOUTME: Terminal platform implementations of the file picker capability
// ABOUTME: OS file handles with atomic replace, flag-path and prompt pickers
package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// OSHandle is a file on the local filesystem.
type OSHandle struct {
	Path string
	Perm os.FileMode
}

func (h *OSHandle) Name() string {
	return filepath.Base(h.Path)
}

func (h *OSHandle) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(h.Path)
}

// Write replaces the file through a temp file and rename, so readers see
// either the old contents or the new ones. Once started it is not cancelled.
func (h *OSHandle) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(h.Path), 0700); err != nil {
		return err
	}
	perm := h.Perm
	if perm == 0 {
		perm = 0600
	}
	return renameio.WriteFile(h.Path, data, perm)
}

// PathPicker "picks" a path chosen up front, e.g. from a command-line flag.
// An empty path behaves like a dismissed picker. Saving refuses to replace an
// existing file unless Overwrite is set.
type PathPicker struct {
	Path      string
	Overwrite bool
}

func (p PathPicker) PickOpen(ctx context.Context, ft FileType) (FileHandle, error) {
	return pickOpen(ctx, p.Path, ft)
}

func (p PathPicker) PickSave(ctx context.Context, ft FileType, _ string) (FileHandle, error) {
	path, err := savePath(ctx, p.Path, ft)
	if err != nil {
		return nil, err
	}
	if !p.Overwrite && fileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	return &OSHandle{Path: path}, nil
}

// PromptPicker asks for a path on a line-oriented terminal. A blank answer
// cancels, and replacing an existing file needs a yes.
type PromptPicker struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewPromptPicker returns a picker that reads answers from in.
func NewPromptPicker(in io.Reader, out io.Writer) *PromptPicker {
	return &PromptPicker{In: in, Out: out}
}

func (p *PromptPicker) PickOpen(ctx context.Context, ft FileType) (FileHandle, error) {
	path, err := p.ask(fmt.Sprintf("Open %s (%s): ", ft.Description, strings.Join(ft.Extensions, ", ")))
	if err != nil {
		return nil, err
	}
	return pickOpen(ctx, path, ft)
}

func (p *PromptPicker) PickSave(ctx context.Context, ft FileType, suggestedName string) (FileHandle, error) {
	answer, err := p.ask(fmt.Sprintf("Save %s as (e.g. %s): ", ft.Description, suggestedName))
	if err != nil {
		return nil, err
	}
	path, err := savePath(ctx, answer, ft)
	if err != nil {
		return nil, err
	}
	if fileExists(path) {
		confirm, err := p.ask(fmt.Sprintf("%s already exists. Replace it? [y/N]: ", filepath.Base(path)))
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes") {
			return nil, ErrUserCancelled
		}
	}
	return &OSHandle{Path: path}, nil
}

// ask reads one line. The buffered reader is kept so that input read ahead
// by one prompt is still there for the next.
func (p *PromptPicker) ask(prompt string) (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	_, _ = fmt.Fprint(p.Out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// DetectPicker chooses the picker once at startup: an explicit path wins,
// then an interactive prompt, otherwise nil (no capability).
func DetectPicker(path string, interactive bool, in io.Reader, out io.Writer) Picker {
	if path != "" {
		return PathPicker{Path: path}
	}
	if interactive {
		return NewPromptPicker(in, out)
	}
	return nil
}

func pickOpen(ctx context.Context, path string, ft FileType) (FileHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrUserCancelled
	}
	path = expandHome(path)
	if !ft.Accepts(path) {
		return nil, fmt.Errorf("%w: %s is not a %s", ErrInvalidFormat, filepath.Base(path), ft.Description)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open %s: is a directory", path)
	}
	return &OSHandle{Path: path}, nil
}

// savePath turns a picked name into the path to write, adding the
// preferred extension when the name has none of the accepted ones.
func savePath(ctx context.Context, path string, ft FileType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrUserCancelled
	}
	path = expandHome(path)
	if !ft.Accepts(path) && len(ft.Extensions) > 0 {
		path += ft.Extensions[len(ft.Extensions)-1]
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
