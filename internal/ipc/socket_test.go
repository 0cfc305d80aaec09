package ipc

import (
	"path/filepath"
	"testing"

	"hyprcanvas/internal/testutil"
)

func startPeer(t *testing.T, reply string) (*testutil.Compositor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peer.sock")
	peer := testutil.StartCompositor(t, path, func(string) string { return reply })
	return peer, path
}

func TestQueryReadsReplyUntilClose(t *testing.T) {
	peer, path := startPeer(t, `{"ok":true}`)

	sock := New(path)
	reply, err := sock.Query("j/activewindow")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if string(reply) != `{"ok":true}` {
		t.Fatalf("unexpected reply: %q", reply)
	}
	got := peer.WaitFor(t, 1)
	if got[0] != "j/activewindow" {
		t.Fatalf("peer received %q, want %q", got[0], "j/activewindow")
	}
}

func TestSendDeliversCommandWithoutReading(t *testing.T) {
	peer, path := startPeer(t, "")

	sock := New(path)
	if err := sock.Send("/dispatch movewindowpixel exact 10 20,title:x"); err != nil {
		t.Fatalf("send: %v", err)
	}
	got := peer.WaitFor(t, 1)
	if got[0] != "/dispatch movewindowpixel exact 10 20,title:x" {
		t.Fatalf("peer received %q", got[0])
	}
}

func TestQueryFailsWhenNothingListens(t *testing.T) {
	sock := New(filepath.Join(t.TempDir(), "absent.sock"))
	if _, err := sock.Query("j/monitors"); err == nil {
		t.Fatalf("expected dial error for absent socket")
	}
}

func TestEachRequestUsesFreshConnection(t *testing.T) {
	peer, path := startPeer(t, "[]")

	sock := New(path)
	for i := 0; i < 3; i++ {
		if _, err := sock.Query("j/clients"); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}
	got := peer.WaitFor(t, 3)
	if len(got) < 3 {
		t.Fatalf("expected 3 connections, got %d", len(got))
	}
}
