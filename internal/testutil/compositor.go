package testutil

import (
	"net"
	"sync"
	"testing"
	"time"
)

// Compositor fakes the compositor control socket for tests: one command per
// connection, reply chosen by the handler, connection closed after the reply
// so readers see EOF. Connections are served in accept order, so the
// recorded sequence matches the order the client issued commands.
type Compositor struct {
	mu       sync.Mutex
	commands []string
}

// StartCompositor listens at socketPath and serves until the test ends.
func StartCompositor(t *testing.T, socketPath string, handler func(cmd string) string) *Compositor {
	t.Helper()
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen on %s: %v", socketPath, err)
	}
	fc := &Compositor{}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			buf := make([]byte, 4096)
			n, err := conn.Read(buf)
			if err != nil {
				_ = conn.Close()
				continue
			}
			cmd := string(buf[:n])
			fc.mu.Lock()
			fc.commands = append(fc.commands, cmd)
			fc.mu.Unlock()
			if reply := handler(cmd); reply != "" {
				_, _ = conn.Write([]byte(reply))
			}
			_ = conn.Close()
		}
	}()
	t.Cleanup(func() { _ = listener.Close() })
	return fc
}

// Received returns a copy of every command seen so far.
func (f *Compositor) Received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}

// WaitFor blocks until at least want commands arrived, failing the test
// after two seconds.
func (f *Compositor) WaitFor(t *testing.T, want int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got := f.Received()
		if len(got) >= want {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %d commands, got %v", want, f.Received())
	return nil
}

// CannedReplies builds a handler that serves fixed replies and answers "ok"
// to everything else.
func CannedReplies(replies map[string]string) func(cmd string) string {
	return func(cmd string) string {
		if reply, ok := replies[cmd]; ok {
			return reply
		}
		return "ok"
	}
}
