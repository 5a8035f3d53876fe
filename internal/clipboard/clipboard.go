// Package clipboard copies text to the desktop clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when there is no way to reach a clipboard.
var ErrUnavailable = errors.New("no clipboard command available")

// Writer places text on a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// System writes through the platform clipboard (pbcopy, clip, wl-copy,
// xclip or xsel, whichever the platform provides).
type System struct{}

// WriteText returns when the helper has taken the text or ctx is done.
func (System) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	done := make(chan error, 1)
	go func() { done <- clipboard.WriteAll(text) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Command is a user-chosen helper that reads the text from stdin, for
// setups the platform clipboard does not cover (remote sessions, tmux
// buffers, OSC 52 wrappers).
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a command line on whitespace. Blank input yields a
// zero Command.
func ParseCommand(line string) Command {
	f := strings.Fields(line)
	if len(f) == 0 {
		return Command{}
	}
	return Command{Name: f[0], Args: f[1:]}
}

// waitDelay bounds how long Wait lingers on I/O after the helper exits.
const waitDelay = 2 * time.Second

// WriteText runs the helper with text on stdin. Its output is discarded,
// so helpers that leave a child behind to own the selection do not block.
func (c Command) WriteText(ctx context.Context, text string) error {
	if c.Name == "" {
		return ErrUnavailable
	}
	path, err := exec.LookPath(c.Name)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name, ErrUnavailable)
	}
	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Stdin = strings.NewReader(text)
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return nil
}

// Func adapts a function to Writer.
type Func func(ctx context.Context, text string) error

func (f Func) WriteText(ctx context.Context, text string) error { return f(ctx, text) }
