package hypr

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
)

const eventSocketName = ".socket2.sock"

// Event is one line from the compositor's event stream, split at the first
// ">>".
type Event struct {
	Name string
	Data string
}

// EventSocketPath returns the event stream socket that accompanies a
// control socket.
func EventSocketPath(controlPath string) string {
	return filepath.Join(filepath.Dir(controlPath), eventSocketName)
}

func (s *Session) EventSocketPath() string {
	return EventSocketPath(s.socketPath)
}

// Listen dials the event stream and calls handler for every event until ctx
// is done or the stream ends. Lines without the ">>" marker are skipped.
func (s *Session) Listen(ctx context.Context, handler func(Event)) error {
	path := s.EventSocketPath()
	conn, err := net.Dial("unix", path)
	if err != nil {
		return fmt.Errorf("dial event socket %s: %w", path, err)
	}
	defer conn.Close() //nolint:errcheck

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	s.log.Infof("listening for compositor events on %s", path)
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		name, data, found := strings.Cut(scanner.Text(), ">>")
		if !found {
			continue
		}
		handler(Event{Name: name, Data: data})
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return nil
}
