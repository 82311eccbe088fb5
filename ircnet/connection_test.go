package ircnet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func mockServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()
		handler(conn)
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestConnectionStartSendsAuthBatch(t *testing.T) {
	var frames []string
	done := make(chan struct{})

	server := mockServer(t, func(conn *websocket.Conn) {
		for i := 0; i < 4; i++ {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames = append(frames, string(data))
		}
		close(done)
		<-done
	})
	defer server.Close()

	conn := New(wsURL(server), Credentials{Login: "bot", Token: "abc123"}, nil)
	_ = conn.Join("chan1")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = conn.Close() }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive all frames")
	}

	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d: %v", len(frames), frames)
	}
	if !strings.HasPrefix(frames[0], "PASS oauth:abc123") {
		t.Errorf("frame 0: %q", frames[0])
	}
	if !strings.HasPrefix(frames[1], "NICK bot") {
		t.Errorf("frame 1: %q", frames[1])
	}
	if !strings.HasPrefix(frames[2], "CAP REQ") {
		t.Errorf("frame 2: %q", frames[2])
	}
	if !strings.HasPrefix(frames[3], "JOIN #chan1") {
		t.Errorf("frame 3: %q", frames[3])
	}

	if conn.State() != StartedUnauthed {
		t.Errorf("state: got %v, want StartedUnauthed", conn.State())
	}
}

func TestConnectionAnonymousAuth(t *testing.T) {
	var frames []string
	done := make(chan struct{})

	server := mockServer(t, func(conn *websocket.Conn) {
		for i := 0; i < 3; i++ {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames = append(frames, string(data))
		}
		close(done)
		<-done
	})
	defer server.Close()

	conn := New(wsURL(server), Credentials{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = conn.Close() }()

	<-done

	if !strings.HasPrefix(frames[0], "PASS POGGERS") {
		t.Errorf("frame 0: %q", frames[0])
	}
	if !strings.HasPrefix(frames[1], "NICK justinfan") {
		t.Errorf("frame 1: %q", frames[1])
	}
}

func TestConnectionAlreadyStarted(t *testing.T) {
	server := mockServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	conn := New(wsURL(server), Credentials{Login: "bot", Token: "x"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Start(ctx); err != ErrAlreadyStarted {
		t.Errorf("second Start: got %v, want ErrAlreadyStarted", err)
	}
}

func TestConnectionPromoteOnAuthSuccess(t *testing.T) {
	server := mockServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	conn := New(wsURL(server), Credentials{Login: "bot", Token: "x"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = conn.Start(ctx)
	defer func() { _ = conn.Close() }()

	conn.Promote()
	if conn.State() != Working {
		t.Errorf("state: got %v, want Working", conn.State())
	}
}

func TestConnectionJoinPartIdempotent(t *testing.T) {
	var joinCount, partCount int
	server := mockServer(t, func(conn *websocket.Conn) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			msg := string(data)
			if strings.HasPrefix(msg, "JOIN") {
				joinCount++
			}
			if strings.HasPrefix(msg, "PART") {
				partCount++
			}
		}
	})
	defer server.Close()

	conn := New(wsURL(server), Credentials{Login: "bot", Token: "x"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = conn.Start(ctx)
	defer func() { _ = conn.Close() }()

	if err := conn.Join("chan1"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := conn.Join("chan1"); err != nil {
		t.Fatalf("Join again: %v", err)
	}
	if err := conn.Part("chan1"); err != nil {
		t.Fatalf("Part: %v", err)
	}
	if err := conn.Part("chan1"); err != nil {
		t.Fatalf("Part again: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if joinCount != 1 {
		t.Errorf("joinCount: got %d, want 1", joinCount)
	}
	if partCount != 1 {
		t.Errorf("partCount: got %d, want 1", partCount)
	}
}

func TestConnectionReceiveParsesFrame(t *testing.T) {
	server := mockServer(t, func(conn *websocket.Conn) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if strings.HasPrefix(string(data), "NICK") {
				_ = conn.WriteMessage(websocket.TextMessage, []byte("PING :tmi.twitch.tv\r\nPING :again\r\n"))
				return
			}
		}
	})
	defer server.Close()

	conn := New(wsURL(server), Credentials{Login: "bot", Token: "x"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = conn.Start(ctx)
	defer func() { _ = conn.Close() }()

	msgs, err := conn.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
}

func TestConnectionReceiveClosed(t *testing.T) {
	server := mockServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	conn := New(wsURL(server), Credentials{Login: "bot", Token: "x"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = conn.Start(ctx)

	_ = conn.Close()

	if _, err := conn.Receive(); err != ErrClosed {
		t.Errorf("Receive after Close: got %v, want ErrClosed", err)
	}
}

func TestConnectionSendNotStarted(t *testing.T) {
	conn := New("ws://unused", Credentials{Login: "bot", Token: "x"}, nil)
	if err := conn.Send("PRIVMSG #chan :hi\r\n"); err != ErrClosed {
		t.Errorf("Send before Start: got %v, want ErrClosed", err)
	}
}
