// Package ircnet manages the WebSocket transport for Twitch IRC: single
// connections and pools of connections sharded by joined channel.
package ircnet

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Its-donkey/kappopher/ircmsg"
)

// readResult is one inbound poll outcome, handed from a Connection's reader
// goroutine to whatever calls Receive.
type readResult struct {
	msgs []*ircmsg.Message
	err  error
}

// TwitchWebSocket is the default WebSocket URL for Twitch IRC.
const TwitchWebSocket = "wss://irc-ws.chat.twitch.tv:443"

// State is a Connection's position in its Closed -> StartedUnauthed -> Working
// lifecycle.
type State uint8

const (
	Closed State = iota
	StartedUnauthed
	Working
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case StartedUnauthed:
		return "StartedUnauthed"
	case Working:
		return "Working"
	default:
		return "Unknown"
	}
}

// Errors returned by Connection operations. Transient WebSocket failures
// collapse into ErrClosed so callers have one signal to trigger a restart.
var (
	ErrAlreadyStarted = errors.New("ircnet: connection already started")
	ErrClosed         = errors.New("ircnet: connection closed")
	ErrAuthFailed     = errors.New("ircnet: authentication failed")
)

// TransportError wraps a non-recoverable websocket-level failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("ircnet: transport error: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// InvalidMessage wraps a parse error surfaced from an otherwise healthy
// socket. It never requires a restart.
type InvalidMessage struct {
	Err error
}

func (e *InvalidMessage) Error() string { return fmt.Sprintf("ircnet: invalid message: %v", e.Err) }
func (e *InvalidMessage) Unwrap() error { return e.Err }

// Credentials holds the login and OAuth token used to authenticate a
// Connection. A zero-value Credentials authenticates anonymously with a
// justinfan login, per Twitch convention.
type Credentials struct {
	Login string
	Token string
}

func (c Credentials) anonymous() bool { return c.Login == "" }

// Connection is a single WebSocket session to a Twitch IRC endpoint. It owns
// a set of joined channel logins and tracks its own authentication state.
// PING/PONG policy is deliberately NOT handled here: Connection is a
// transport, a dispatcher decides when to answer a PING.
//
// Exactly one reader goroutine is live per underlying *websocket.Conn at a
// time: Start/Restart spawns it after a successful dial, and it runs until
// that specific socket errors out (gorilla/websocket forbids concurrent
// readers on one Conn, so Receive itself never touches the socket). It
// feeds out, which Receive and the Pool's fan-in both drain.
type Connection struct {
	url   string
	creds Credentials
	log   *logrus.Entry

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	channels map[string]struct{}

	out       chan readResult
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Connection that has not yet been started.
func New(url string, creds Credentials, log *logrus.Entry) *Connection {
	if url == "" {
		url = TwitchWebSocket
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Connection{
		url:      url,
		creds:    creds,
		log:      log,
		channels: make(map[string]struct{}),
		out:      make(chan readResult, 64),
		done:     make(chan struct{}),
	}
}

// State reports the connection's current lifecycle position.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Channels returns the currently joined channel logins.
func (c *Connection) Channels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		out = append(out, ch)
	}
	return out
}

// ChannelCount returns the number of joined channels.
func (c *Connection) ChannelCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels)
}

func authFrames(creds Credentials, channels []string) []string {
	pass, nick := creds.Token, creds.Login
	if creds.anonymous() {
		pass = "POGGERS"
		nick = fmt.Sprintf("justinfan%d", rand.Intn(100000))
	} else if !strings.HasPrefix(pass, "oauth:") {
		pass = "oauth:" + pass
	}

	frames := []string{
		ircmsg.Pass(pass).Build(),
		ircmsg.Nick(nick).Build(),
		ircmsg.CapReq().Build(),
	}
	if len(channels) > 0 {
		frames = append(frames, ircmsg.Join(channels).Build())
	}
	return frames
}

// Start opens the WebSocket and sends the PASS/NICK/CAP/JOIN batch in one
// shot. It fails ErrAlreadyStarted if the socket is already open.
func (c *Connection) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Closed {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	channels := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		channels = append(channels, ch)
	}
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return &TransportError{Err: err}
	}

	for _, frame := range authFrames(c.creds, channels) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			_ = conn.Close()
			return &TransportError{Err: err}
		}
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StartedUnauthed
	c.mu.Unlock()

	go c.readLoop(conn)

	c.log.Debug("connection started, awaiting auth")
	return nil
}

// readLoop owns conn's only ReadMessage call site for its lifetime. It
// exits as soon as conn errors (closed locally via Close/Restart, or
// dropped by the peer), so the next Start/Restart's dial can safely spawn
// a fresh readLoop over a fresh *websocket.Conn without ever overlapping
// reads on the same socket.
func (c *Connection) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			result := readResult{err: translateReadError(err)}
			select {
			case c.out <- result:
			case <-c.done:
			}
			return
		}

		msgs, errs := ircmsg.NewIter(string(data)).All()
		var ierr error
		if len(errs) > 0 {
			ierr = &InvalidMessage{Err: errs[0]}
		}
		select {
		case c.out <- readResult{msgs: msgs, err: ierr}:
		case <-c.done:
			return
		}
	}
}

func translateReadError(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, websocket.ErrCloseSent) {
		return ErrClosed
	}
	return &TransportError{Err: err}
}

// Promote marks the connection Working, called by a dispatcher upon
// observing command AuthSuccessful (001) in the parsed stream.
func (c *Connection) Promote() {
	c.mu.Lock()
	if c.state == StartedUnauthed {
		c.state = Working
	}
	c.mu.Unlock()
}

// Restart closes the socket (best-effort) and starts again, resetting to
// StartedUnauthed.
func (c *Connection) Restart(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = Closed
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	return c.Start(ctx)
}

// Join adds a channel to the set and emits JOIN iff the set actually changed.
func (c *Connection) Join(login string) error {
	login = strings.ToLower(strings.TrimPrefix(login, "#"))

	c.mu.Lock()
	if _, exists := c.channels[login]; exists {
		c.mu.Unlock()
		return nil
	}
	c.channels[login] = struct{}{}
	c.mu.Unlock()

	return c.send(ircmsg.Join([]string{login}).Build())
}

// Part removes a channel from the set and emits PART iff the set actually
// changed.
func (c *Connection) Part(login string) error {
	login = strings.ToLower(strings.TrimPrefix(login, "#"))

	c.mu.Lock()
	if _, exists := c.channels[login]; !exists {
		c.mu.Unlock()
		return nil
	}
	delete(c.channels, login)
	c.mu.Unlock()

	return c.send(ircmsg.Part([]string{login}).Build())
}

// Send serializes and transmits a raw IRC frame. PASS frames must never be
// logged verbatim; callers constructing PASS frames should log only the
// command name.
func (c *Connection) Send(raw string) error {
	return c.send(raw)
}

// SendBatched transmits several frames in sequence.
func (c *Connection) SendBatched(frames []string) error {
	for _, f := range frames {
		if err := c.send(f); err != nil {
			return err
		}
	}
	return nil
}

func (c *Connection) send(raw string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrClosed
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

// Receive blocks until the connection's reader goroutine has a result
// ready: zero or more parsed Messages from one WebSocket text frame (a
// frame may contain several CR-LF-delimited lines), or an error. It fails
// ErrClosed once the connection is closed, and wraps per-line parse
// failures in InvalidMessage without requiring a restart.
func (c *Connection) Receive() ([]*ircmsg.Message, error) {
	select {
	case r, ok := <-c.out:
		if !ok {
			return nil, ErrClosed
		}
		return r.msgs, r.err
	case <-c.done:
		return nil, ErrClosed
	}
}

// Close shuts down the underlying socket, if any, marks the connection
// Closed, and stops its reader goroutine.
func (c *Connection) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = Closed
	c.mu.Unlock()

	c.closeOnce.Do(func() { close(c.done) })

	if conn == nil {
		return nil
	}
	return conn.Close()
}
