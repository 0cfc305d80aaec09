package hypr

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"hyprcanvas/internal/ipc"
	"hyprcanvas/internal/tmux"
)

// ErrWindowNotFound reports that the tracked window address matches no
// current client.
var ErrWindowNotFound = errors.New("active window not found")

const defaultOutputScale = 1.0

// Session is a live handle on one compositor instance. It caches the window
// address that was active at construction time plus the focused output, and
// issues every operation over a fresh control-socket connection. Methods
// block until the compositor answers; callers own any deadline.
type Session struct {
	socket *ipc.Socket
	log    *logrus.Entry

	socketPath  string
	address     string
	outputName  string
	outputScale float64

	multiplexed func() bool
}

type Option func(*Session)

// WithSocketPath pins the control socket, skipping resolution from the
// instance signature.
func WithSocketPath(path string) Option {
	return func(s *Session) {
		s.socketPath = path
	}
}

// WithLogger replaces the default process-wide logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMultiplexerCheck overrides terminal-multiplexer detection. The check
// decides whether the tracked address is re-resolved before each lookup.
func WithMultiplexerCheck(fn func() bool) Option {
	return func(s *Session) {
		if fn != nil {
			s.multiplexed = fn
		}
	}
}

// ResolveSocketPath locates the control socket of the compositor instance
// named by signature. The primary candidate lives under XDG_RUNTIME_DIR;
// when the variable is unset or the candidate is missing, the legacy /tmp
// location is used.
func ResolveSocketPath(signature string) string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = "/tmp"
	}
	path := filepath.Join(base, "hypr", signature, ".socket.sock")
	if !pathExists(path) {
		path = filepath.Join("/tmp", "hypr", signature, ".socket.sock")
	}
	return path
}

// New resolves the control socket for the given instance signature and
// primes the session: the currently active window becomes the tracked
// window, and the focused output's name and scale are recorded. When no
// output is focused the session keeps an empty name and scale 1.0.
func New(signature string, opts ...Option) (*Session, error) {
	s := &Session{
		log:         logrus.WithField("component", "hypr"),
		outputScale: defaultOutputScale,
		multiplexed: tmux.IsUsed,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.socketPath == "" {
		if signature == "" {
			return nil, fmt.Errorf("compositor instance signature is empty")
		}
		s.socketPath = ResolveSocketPath(signature)
	}
	s.socket = ipc.NewWithLogger(s.socketPath, s.log)
	s.log.Infof("using hyprland socket %s", s.socketPath)

	if err := s.Refresh(); err != nil {
		return nil, err
	}
	if err := s.loadFocusedOutput(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) SocketPath() string {
	return s.socketPath
}

// TrackedAddress returns the window address the session follows.
func (s *Session) TrackedAddress() string {
	return s.address
}

// FocusedOutputName returns the name of the output that was focused at
// construction time, or "" when none was.
func (s *Session) FocusedOutputName() string {
	return s.outputName
}

// OutputScale returns the focused output's scale factor.
func (s *Session) OutputScale() float64 {
	return s.outputScale
}

// Refresh re-queries the active window and overwrites the tracked address.
func (s *Session) Refresh() error {
	var active Client
	if err := s.queryJSON(activeWindowQuery, &active); err != nil {
		return err
	}
	if active.Address == "" {
		return fmt.Errorf("compositor reported no active window")
	}
	s.address = active.Address
	return nil
}

// ActiveWindow returns the tracked window's current record. Inside a
// terminal multiplexer the tracked address is re-resolved first, since the
// pane that created the session may have moved to another window. A tracked
// window that no longer exists yields ErrWindowNotFound.
func (s *Session) ActiveWindow() (*Client, error) {
	if s.multiplexed() {
		if err := s.Refresh(); err != nil {
			return nil, err
		}
	}
	var clients []Client
	if err := s.queryJSON(clientsQuery, &clients); err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].Address == s.address {
			return &clients[i], nil
		}
	}
	return nil, ErrWindowNotFound
}

// WindowGeometry returns the tracked window's size and position.
func (s *Session) WindowGeometry() (Geometry, error) {
	client, err := s.ActiveWindow()
	if err != nil {
		return Geometry{}, err
	}
	if len(client.Size) < 2 || len(client.At) < 2 {
		return Geometry{}, fmt.Errorf("malformed geometry for window %s", client.Address)
	}
	return Geometry{
		Width:  client.Size[0],
		Height: client.Size[1],
		X:      client.At[0],
		Y:      client.At[1],
	}, nil
}

// DisableFocus keeps the compositor from focusing surfaces titled appID.
func (s *Session) DisableFocus(appID string) error {
	return s.socket.Send(windowRuleCommand(ruleNoFocus, appID))
}

// EnableFloating detaches matching surfaces from the tiling layout.
func (s *Session) EnableFloating(appID string) error {
	return s.socket.Send(windowRuleCommand(ruleFloat, appID))
}

// RemoveBorders strips the border decoration from matching surfaces.
func (s *Session) RemoveBorders(appID string) error {
	return s.socket.Send(windowRuleCommand(ruleNoBorder, appID))
}

// RemoveRounding squares the corners of matching surfaces.
func (s *Session) RemoveRounding(appID string) error {
	return s.socket.Send(windowRuleCommand(ruleNoRounding, appID))
}

// InitialSetup injects the window rules an overlay surface needs before it
// is mapped. Rules land in a fixed order, focus suppression first.
func (s *Session) InitialSetup(appID string) error {
	steps := []func(string) error{
		s.DisableFocus,
		s.EnableFloating,
		s.RemoveBorders,
		s.RemoveRounding,
	}
	for _, step := range steps {
		if err := step(appID); err != nil {
			return err
		}
	}
	return nil
}

// MoveWindow places the overlay surface at x,y, first parking it on the
// workspace the tracked window currently occupies.
func (s *Session) MoveWindow(appID string, x, y int) error {
	client, err := s.ActiveWindow()
	if err != nil {
		return err
	}
	if err := s.ChangeWorkspace(appID, client.Workspace.ID); err != nil {
		return err
	}
	x, y = scaleAdjust(x, y, s.outputScale)
	return s.socket.Send(moveWindowCommand(x, y, appID))
}

// ChangeWorkspace moves matching surfaces to a workspace without switching
// to it.
func (s *Session) ChangeWorkspace(appID string, workspaceID int) error {
	return s.socket.Send(moveToWorkspaceCommand(workspaceID, appID))
}

// scaleAdjust compensates overlay coordinates on scaled outputs. Halving
// plus a fixed offset, observed rather than derived; scales at or below 1.0
// pass through untouched.
func scaleAdjust(x, y int, scale float64) (int, int) {
	if scale <= 1.0 {
		return x, y
	}
	const offset = 10
	return x/2 + offset, y/2 + offset
}

func (s *Session) loadFocusedOutput() error {
	var monitors []Monitor
	if err := s.queryJSON(monitorsQuery, &monitors); err != nil {
		return err
	}
	for _, m := range monitors {
		if m.Focused {
			s.outputName = m.Name
			s.outputScale = m.Scale
			return nil
		}
	}
	s.log.Debug("no focused monitor reported, keeping defaults")
	return nil
}

func (s *Session) queryJSON(cmd string, v any) error {
	reply, err := s.socket.Query(cmd)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(reply, v); err != nil {
		return fmt.Errorf("decode %s reply: %w", cmd, err)
	}
	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
