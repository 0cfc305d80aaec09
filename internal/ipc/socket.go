package ipc

import (
	"fmt"
	"io"
	"net"

	"github.com/sirupsen/logrus"
)

// Socket issues requests against a local stream socket speaking a
// line-oriented text protocol. Every request dials its own connection and
// closes it before returning, so a Socket holds no state beyond the path and
// is safe for concurrent use. Calls block until the peer answers or closes;
// callers that need deadlines wrap the call themselves.
type Socket struct {
	path string
	log  *logrus.Entry
}

func New(path string) *Socket {
	return NewWithLogger(path, logrus.NewEntry(logrus.StandardLogger()))
}

func NewWithLogger(path string, log *logrus.Entry) *Socket {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Socket{path: path, log: log}
}

func (s *Socket) Path() string {
	return s.path
}

// Send writes one command and returns without waiting for a reply. Used for
// dispatch and keyword commands whose acknowledgement carries no data.
func (s *Socket) Send(cmd string) error {
	s.log.Debugf("running socket command %s", cmd)
	conn, err := net.Dial("unix", s.path)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.path, err)
	}
	defer conn.Close() //nolint:errcheck
	if _, err := conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("send %q: %w", cmd, err)
	}
	return nil
}

// Query writes one command and reads the reply until the peer closes the
// connection.
func (s *Socket) Query(cmd string) ([]byte, error) {
	conn, err := net.Dial("unix", s.path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", s.path, err)
	}
	defer conn.Close() //nolint:errcheck
	if _, err := conn.Write([]byte(cmd)); err != nil {
		return nil, fmt.Errorf("send %q: %w", cmd, err)
	}
	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read reply to %q: %w", cmd, err)
	}
	return reply, nil
}
