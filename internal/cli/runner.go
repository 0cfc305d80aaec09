package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/allan-simon/go-singleinstance"
	"github.com/sirupsen/logrus"

	"hyprcanvas/internal/config"
	"hyprcanvas/internal/diagnose"
	"hyprcanvas/internal/hypr"
	"hyprcanvas/internal/overlay"
	"hyprcanvas/internal/tmux"
)

const version = "0.1.0"

type Runner struct {
	cfg        config.Config
	out        io.Writer
	errOut     io.Writer
	tmuxRunner tmux.Runner
}

func NewRunner(out, errOut io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Runner{
		cfg:        config.DefaultConfig(),
		out:        out,
		errOut:     errOut,
		tmuxRunner: tmux.OSRunner{},
	}
}

func (r *Runner) Run(ctx context.Context, args []string) int {
	globals, rest, err := parseGlobalArgs(args)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	cfgPath := globals.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	if globals.socketPath != "" {
		cfg.SocketPath = globals.socketPath
	}
	if globals.debug {
		cfg.LogLevel = "debug"
	}
	r.cfg = cfg
	if err := setupLogging(cfg); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}

	if len(rest) == 0 {
		r.printUsage()
		return 2
	}
	switch rest[0] {
	case "info":
		return r.runInfo(ctx, rest[1:])
	case "geometry":
		return r.runGeometry(rest[1:])
	case "setup":
		return r.runSetup(rest[1:])
	case "move":
		return r.runMove(rest[1:])
	case "workspace":
		return r.runWorkspace(rest[1:])
	case "watch":
		return r.runWatch(ctx, rest[1:])
	case "doctor":
		return r.runDoctor(rest[1:])
	case "version":
		_, _ = fmt.Fprintln(r.out, version)
		return 0
	default:
		_, _ = fmt.Fprintf(r.errOut, "unknown command: %s\n", rest[0])
		r.printUsage()
		return 2
	}
}

type globalArgs struct {
	socketPath string
	configPath string
	debug      bool
}

func parseGlobalArgs(args []string) (globalArgs, []string, error) {
	var g globalArgs
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--socket":
			if i+1 >= len(args) {
				return g, nil, fmt.Errorf("--socket requires value")
			}
			g.socketPath = args[i+1]
			i++
		case "--config":
			if i+1 >= len(args) {
				return g, nil, fmt.Errorf("--config requires value")
			}
			g.configPath = args[i+1]
			i++
		case "--debug":
			g.debug = true
		default:
			rest = append(rest, args[i])
		}
	}
	return g, rest, nil
}

func setupLogging(cfg config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	logrus.SetLevel(level)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
	}
	return nil
}

func (r *Runner) session() (*hypr.Session, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" && r.cfg.SocketPath == "" {
		return nil, fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set")
	}
	var opts []hypr.Option
	if r.cfg.SocketPath != "" {
		opts = append(opts, hypr.WithSocketPath(r.cfg.SocketPath))
	}
	return hypr.New(sig, opts...)
}

type infoPayload struct {
	SocketPath  string  `json:"socket_path"`
	Window      string  `json:"window"`
	Output      string  `json:"output"`
	OutputScale float64 `json:"output_scale"`
	TmuxPane    string  `json:"tmux_pane,omitempty"`
	TmuxSession string  `json:"tmux_session,omitempty"`
}

func (r *Runner) runInfo(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOut := fs.Bool("json", false, "output JSON")
	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	session, err := r.session()
	if err != nil {
		return r.fail(err)
	}
	payload := infoPayload{
		SocketPath:  session.SocketPath(),
		Window:      session.TrackedAddress(),
		Output:      session.FocusedOutputName(),
		OutputScale: session.OutputScale(),
	}
	if tmux.IsUsed() {
		payload.TmuxPane = tmux.Pane()
		client := tmux.NewClientWithRunner(tmux.Pane(), r.tmuxRunner)
		if id, err := client.SessionID(ctx); err == nil {
			payload.TmuxSession = id
		}
	}
	if *jsonOut {
		return r.printJSON(payload)
	}
	_, _ = fmt.Fprintf(r.out, "socket:\t%s\n", payload.SocketPath)
	_, _ = fmt.Fprintf(r.out, "window:\t%s\n", payload.Window)
	if payload.Output != "" {
		_, _ = fmt.Fprintf(r.out, "output:\t%s (scale %g)\n", payload.Output, payload.OutputScale)
	} else {
		_, _ = fmt.Fprintln(r.out, "output:\tnone focused")
	}
	if payload.TmuxPane != "" {
		_, _ = fmt.Fprintf(r.out, "tmux:\tpane %s session %s\n", payload.TmuxPane, payload.TmuxSession)
	}
	return 0
}

func (r *Runner) runGeometry(args []string) int {
	fs := flag.NewFlagSet("geometry", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOut := fs.Bool("json", false, "output JSON")
	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	session, err := r.session()
	if err != nil {
		return r.fail(err)
	}
	geometry, err := session.WindowGeometry()
	if err != nil {
		return r.fail(err)
	}
	if *jsonOut {
		return r.printJSON(geometry)
	}
	_, _ = fmt.Fprintf(r.out, "%dx%d+%d+%d\n", geometry.Width, geometry.Height, geometry.X, geometry.Y)
	return 0
}

func (r *Runner) runSetup(args []string) int {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	appID := fs.String("appid", "", "overlay app id (generated when empty)")
	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	id := *appID
	generated := false
	if id == "" {
		id = overlay.NewAppID(r.cfg.AppIDPrefix)
		generated = true
	}
	session, err := r.session()
	if err != nil {
		return r.fail(err)
	}
	if err := session.InitialSetup(id); err != nil {
		return r.fail(err)
	}
	if generated {
		_, _ = fmt.Fprintln(r.out, id)
	}
	return 0
}

func (r *Runner) runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	appID := fs.String("appid", "", "overlay app id")
	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	if *appID == "" || fs.NArg() != 2 {
		_, _ = fmt.Fprintln(r.errOut, "usage: hyprcanvas move --appid <id> <x> <y>")
		return 2
	}
	x, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: invalid x %q\n", fs.Arg(0))
		return 2
	}
	y, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: invalid y %q\n", fs.Arg(1))
		return 2
	}
	session, err := r.session()
	if err != nil {
		return r.fail(err)
	}
	if err := session.MoveWindow(*appID, x, y); err != nil {
		return r.fail(err)
	}
	return 0
}

func (r *Runner) runWorkspace(args []string) int {
	fs := flag.NewFlagSet("workspace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	appID := fs.String("appid", "", "overlay app id")
	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	if *appID == "" || fs.NArg() != 1 {
		_, _ = fmt.Fprintln(r.errOut, "usage: hyprcanvas workspace --appid <id> <workspace>")
		return 2
	}
	workspaceID, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: invalid workspace %q\n", fs.Arg(0))
		return 2
	}
	session, err := r.session()
	if err != nil {
		return r.fail(err)
	}
	if err := session.ChangeWorkspace(*appID, workspaceID); err != nil {
		return r.fail(err)
	}
	return 0
}

func (r *Runner) runWatch(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOut := fs.Bool("json", false, "output JSON lines")
	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}

	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	lockPath := filepath.Join(tempDir(), fmt.Sprintf("hyprcanvas-watch-%s.lock", sig))
	lockFile, err := singleinstance.CreateLockFile(lockPath)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: another watch instance is running (lock %s)\n", lockPath)
		return 1
	}
	defer lockFile.Close() //nolint:errcheck

	session, err := r.session()
	if err != nil {
		return r.fail(err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = session.Listen(ctx, func(ev hypr.Event) {
		if *jsonOut {
			payload, err := json.Marshal(map[string]string{"event": ev.Name, "data": ev.Data})
			if err != nil {
				return
			}
			_, _ = fmt.Fprintln(r.out, string(payload))
			return
		}
		_, _ = fmt.Fprintf(r.out, "%s\t%s\n", ev.Name, ev.Data)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return r.fail(err)
	}
	return 0
}

func (r *Runner) runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOut := fs.Bool("json", false, "output JSON")
	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
		return 2
	}
	result := diagnose.Run(diagnose.Options{
		Signature:  os.Getenv("HYPRLAND_INSTANCE_SIGNATURE"),
		SocketPath: r.cfg.SocketPath,
	})
	if *jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return r.fail(err)
		}
		_, _ = fmt.Fprintln(r.out, string(data))
	} else {
		for _, c := range result.Checks {
			line := fmt.Sprintf("[%s] %s: %s", c.Status, c.Name, c.Message)
			if c.Path != "" {
				line += " (" + c.Path + ")"
			}
			_, _ = fmt.Fprintln(r.out, line)
		}
	}
	if !result.OK {
		return 1
	}
	return 0
}

func (r *Runner) fail(err error) int {
	_, _ = fmt.Fprintf(r.errOut, "error: %v\n", err)
	return 1
}

func (r *Runner) printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return r.fail(err)
	}
	_, _ = fmt.Fprintln(r.out, string(data))
	return 0
}

func (r *Runner) printUsage() {
	_, _ = fmt.Fprintln(r.errOut, "usage: hyprcanvas [--socket PATH] [--config PATH] [--debug] <command>")
	_, _ = fmt.Fprintln(r.errOut, "commands:")
	_, _ = fmt.Fprintln(r.errOut, "  info       show session state (socket, window, output)")
	_, _ = fmt.Fprintln(r.errOut, "  geometry   print the tracked window geometry")
	_, _ = fmt.Fprintln(r.errOut, "  setup      inject overlay window rules (--appid ID)")
	_, _ = fmt.Fprintln(r.errOut, "  move       place an overlay surface (--appid ID <x> <y>)")
	_, _ = fmt.Fprintln(r.errOut, "  workspace  park an overlay surface (--appid ID <workspace>)")
	_, _ = fmt.Fprintln(r.errOut, "  watch      stream compositor events")
	_, _ = fmt.Fprintln(r.errOut, "  doctor     check the environment")
	_, _ = fmt.Fprintln(r.errOut, "  version    print the version")
}

func tempDir() string {
	if v := os.Getenv("TMPDIR"); v != "" {
		return v
	}
	return "/tmp"
}
