package tmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Runner abstracts command execution so tmux interactions are testable.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner executes commands on the host.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Pane returns the surrounding tmux pane id, or "" outside tmux.
func Pane() string {
	return os.Getenv("TMUX_PANE")
}

// IsUsed reports whether the process runs inside a tmux pane.
func IsUsed() bool {
	return Pane() != ""
}

// Client answers questions about the pane this process lives in by asking
// the surrounding tmux server.
type Client struct {
	pane   string
	runner Runner
}

func NewClient() *Client {
	return NewClientWithRunner(Pane(), OSRunner{})
}

func NewClientWithRunner(pane string, runner Runner) *Client {
	if runner == nil {
		runner = OSRunner{}
	}
	return &Client{pane: pane, runner: runner}
}

func (c *Client) Pane() string {
	return c.pane
}

// SessionID returns the id of the session owning the pane.
func (c *Client) SessionID(ctx context.Context) (string, error) {
	return c.display(ctx, "#{session_id}")
}

// IsWindowFocused reports whether the pane's window is the active one and
// the pane is not in copy mode.
func (c *Client) IsWindowFocused(ctx context.Context) (bool, error) {
	line, err := c.display(ctx, joinFormat("#{window_active}", "#{pane_in_mode}"))
	if err != nil {
		return false, err
	}
	fields := splitFields(line, 2)
	if len(fields) != 2 {
		return false, fmt.Errorf("unexpected display-message reply %q", line)
	}
	return fields[0] == "1" && fields[1] == "0", nil
}

// PaneOffset returns the pane's left and top edge relative to the terminal
// window, in character cells.
func (c *Client) PaneOffset(ctx context.Context) (int, int, error) {
	line, err := c.display(ctx, joinFormat("#{pane_left}", "#{pane_top}"))
	if err != nil {
		return 0, 0, err
	}
	fields := splitFields(line, 2)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected display-message reply %q", line)
	}
	left, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse pane left %q: %w", fields[0], err)
	}
	top, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse pane top %q: %w", fields[1], err)
	}
	return left, top, nil
}

// ClientPIDs returns the process ids of every client attached to the pane's
// session.
func (c *Client) ClientPIDs(ctx context.Context) ([]int, error) {
	session, err := c.SessionID(ctx)
	if err != nil {
		return nil, err
	}
	out, err := c.runner.Run(ctx, "tmux", "list-clients", "-F", "#{client_pid}", "-t", session)
	if err != nil {
		return nil, fmt.Errorf("tmux list-clients: %w", err)
	}
	var pids []int
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("parse client pid %q: %w", line, err)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

func (c *Client) display(ctx context.Context, format string) (string, error) {
	out, err := c.runner.Run(ctx, "tmux", "display-message", "-p", "-t", c.pane, format)
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
