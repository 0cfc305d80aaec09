package diagnose

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"hyprcanvas/internal/hypr"
	"hyprcanvas/internal/tmux"
)

type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // pass | warn | fail
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

type Result struct {
	OK       bool     `json:"ok"`
	Checks   []Check  `json:"checks"`
	Warnings []string `json:"warnings,omitempty"`
}

type Options struct {
	// Signature is the compositor instance signature, usually taken from
	// HYPRLAND_INSTANCE_SIGNATURE.
	Signature string
	// SocketPath skips resolution from the signature when set.
	SocketPath string
}

// Run inspects the environment an overlay session needs: instance
// signature, control socket, event socket, multiplexer state.
func Run(opts Options) Result {
	out := Result{OK: true}
	add := func(c Check) {
		out.Checks = append(out.Checks, c)
		if c.Status == "warn" {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", c.Name, c.Message))
		}
		if c.Status == "fail" {
			out.OK = false
		}
	}

	if opts.Signature == "" {
		add(Check{Name: "signature", Status: "fail", Message: "HYPRLAND_INSTANCE_SIGNATURE is not set"})
	} else {
		add(Check{Name: "signature", Status: "pass", Message: opts.Signature})
	}

	socketPath := opts.SocketPath
	if socketPath == "" && opts.Signature != "" {
		socketPath = hypr.ResolveSocketPath(opts.Signature)
	}
	if socketPath == "" {
		add(Check{Name: "control_socket", Status: "fail", Message: "no socket path to inspect"})
	} else {
		add(checkControlSocket(socketPath))
		add(checkEventSocket(hypr.EventSocketPath(socketPath)))
	}

	if tmux.IsUsed() {
		add(Check{Name: "multiplexer", Status: "pass", Message: "tmux pane " + tmux.Pane()})
	} else {
		add(Check{Name: "multiplexer", Status: "pass", Message: "not inside tmux"})
	}

	return out
}

func checkControlSocket(path string) Check {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Check{Name: "control_socket", Status: "fail", Message: "socket not found", Path: path}
		}
		return Check{Name: "control_socket", Status: "fail", Message: fmt.Sprintf("stat error: %v", err), Path: path}
	}
	if info.Mode()&os.ModeSocket == 0 {
		return Check{Name: "control_socket", Status: "fail", Message: "not a socket", Path: path}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return Check{Name: "control_socket", Status: "fail", Message: fmt.Sprintf("not accessible: %v", err), Path: path}
	}
	return Check{Name: "control_socket", Status: "pass", Message: "reachable", Path: path}
}

func checkEventSocket(path string) Check {
	info, err := os.Stat(path)
	if err != nil {
		return Check{Name: "event_socket", Status: "warn", Message: "event stream unavailable", Path: path}
	}
	if info.Mode()&os.ModeSocket == 0 {
		return Check{Name: "event_socket", Status: "warn", Message: "not a socket", Path: path}
	}
	return Check{Name: "event_socket", Status: "pass", Message: "present", Path: path}
}
