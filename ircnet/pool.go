package ircnet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Its-donkey/kappopher/ircmsg"
)

// MaxChannelsPerConnection bounds how many channels a single Connection may
// hold before the Pool spawns another one.
const MaxChannelsPerConnection = 100

// Pool errors. None of these are fatal; they are reported back to the
// caller that requested the operation.
var (
	ErrChannelNotFound     = errors.New("ircnet: channel not found")
	ErrNoConnectionAssigned = errors.New("ircnet: no connection assigned to channel")
	ErrIndexOutOfBounds    = errors.New("ircnet: connection index out of bounds")
	ErrNoConnections       = errors.New("ircnet: no connections in pool")
)

// Received pairs the messages yielded by one Receive poll with the index of
// the Connection that produced them.
type Received struct {
	Messages []*ircmsg.Message
	Index    int
}

// fanInResult is one Connection's poll outcome, tagged with its index, as
// forwarded by that Connection's dedicated pump goroutine.
type fanInResult struct {
	idx  int
	msgs []*ircmsg.Message
	err  error
}

// Pool maintains an ordered list of Connections plus a channel-login ->
// connection-index mapping. The mapping may momentarily hold "unassigned"
// (tracked via the assigned bool) during join/part races.
//
// Each Connection gets exactly one long-lived pump goroutine, started the
// moment the Connection joins the pool, that loops on Connection.Receive
// and forwards every result into fanIn. Receive itself only ever selects
// on fanIn; it never spawns a goroutine per call. This keeps each
// Connection's socket read owned by a single goroutine for its entire
// lifetime and means a poll that picks connection A's message doesn't
// silently discard one that arrived concurrently on connection B — it
// simply sits buffered in fanIn for the next Receive call.
type Pool struct {
	url   string
	creds Credentials
	log   *logrus.Entry

	mu         sync.Mutex
	conns      []*Connection
	assignment map[string]int
	assigned   map[string]bool

	fanIn        chan fanInResult
	quit         chan struct{}
	shutdownOnce sync.Once
}

// startPump launches the long-lived goroutine that drains conn into
// p.fanIn under index idx. It exits once conn is permanently Closed
// (Close was called) or the pool shuts down; a Restart in between is
// transparent, since conn.Receive blocks on its own reader goroutine
// regardless of which underlying socket currently backs it. An ErrClosed
// caused by the peer dropping the socket is forwarded but does not stop
// the pump.
func (p *Pool) startPump(idx int, conn *Connection) {
	go func() {
		for {
			msgs, err := conn.Receive()
			select {
			case p.fanIn <- fanInResult{idx: idx, msgs: msgs, err: err}:
			case <-p.quit:
				return
			}
			if err == ErrClosed {
				select {
				case <-conn.done:
					return
				default:
				}
			}
		}
	}()
}

// NewPool partitions the initial channel list into consecutive windows of
// MaxChannelsPerConnection, starting one Connection per window.
func NewPool(ctx context.Context, url string, creds Credentials, channels []string, log *logrus.Entry) (*Pool, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	p := &Pool{
		url:        url,
		creds:      creds,
		log:        log,
		assignment: make(map[string]int),
		assigned:   make(map[string]bool),
		fanIn:      make(chan fanInResult, 256),
		quit:       make(chan struct{}),
	}

	if len(channels) == 0 {
		return p, nil
	}

	for start := 0; start < len(channels); start += MaxChannelsPerConnection {
		end := start + MaxChannelsPerConnection
		if end > len(channels) {
			end = len(channels)
		}
		window := channels[start:end]

		conn := New(url, creds, log)
		for _, ch := range window {
			login := strings.ToLower(strings.TrimPrefix(ch, "#"))
			conn.channels[login] = struct{}{}
		}
		if err := conn.Start(ctx); err != nil {
			return nil, err
		}

		idx := len(p.conns)
		p.conns = append(p.conns, conn)
		for _, ch := range window {
			login := strings.ToLower(strings.TrimPrefix(ch, "#"))
			p.assignment[login] = idx
			p.assigned[login] = true
		}
		p.startPump(idx, conn)
	}

	return p, nil
}

// Len returns the number of Connections in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// ConnectionAt returns the Connection at idx, bounds-checked.
func (p *Pool) ConnectionAt(idx int) (*Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx < 0 || idx >= len(p.conns) {
		return nil, ErrIndexOutOfBounds
	}
	return p.conns[idx], nil
}

// JoinChannel finds the first Connection with spare capacity, spawning a
// dedicated new Connection if none has room, issues JOIN, and records the
// mapping.
func (p *Pool) JoinChannel(ctx context.Context, login string) error {
	login = strings.ToLower(strings.TrimPrefix(login, "#"))

	p.mu.Lock()
	var target *Connection
	targetIdx := -1
	for i, c := range p.conns {
		if c.ChannelCount() < MaxChannelsPerConnection {
			target = c
			targetIdx = i
			break
		}
	}
	p.mu.Unlock()

	if target == nil {
		target = New(p.url, p.creds, p.log)
		if err := target.Start(ctx); err != nil {
			return err
		}
		p.mu.Lock()
		p.conns = append(p.conns, target)
		targetIdx = len(p.conns) - 1
		p.mu.Unlock()
		p.startPump(targetIdx, target)
	}

	if err := target.Join(login); err != nil {
		return err
	}

	p.mu.Lock()
	p.assignment[login] = targetIdx
	p.assigned[login] = true
	p.mu.Unlock()
	return nil
}

// PartChannel removes the channel from the mapping and issues PART on its
// owning Connection. The Connection itself is retained even if its channel
// set empties, to avoid thrashing on subsequent joins.
func (p *Pool) PartChannel(login string) error {
	login = strings.ToLower(strings.TrimPrefix(login, "#"))

	p.mu.Lock()
	idx, ok := p.assignment[login]
	delete(p.assignment, login)
	delete(p.assigned, login)
	var conn *Connection
	if ok && idx >= 0 && idx < len(p.conns) {
		conn = p.conns[idx]
	}
	p.mu.Unlock()

	if conn == nil {
		return ErrChannelNotFound
	}
	return conn.Part(login)
}

// SendToChannel looks up the owning Connection, builds a PRIVMSG, and sends
// it.
func (p *Pool) SendToChannel(channel, text string) error {
	login := strings.ToLower(strings.TrimPrefix(channel, "#"))

	p.mu.Lock()
	idx, known := p.assignment[login]
	assigned := p.assigned[login]
	var conn *Connection
	if known && assigned && idx >= 0 && idx < len(p.conns) {
		conn = p.conns[idx]
	}
	p.mu.Unlock()

	if !known {
		return ErrChannelNotFound
	}
	if !assigned || conn == nil {
		return ErrNoConnectionAssigned
	}

	return conn.Send(ircmsg.Privmsg(login, text).Build())
}

// RestartConnection restarts the Connection at idx, bounds-checked.
func (p *Pool) RestartConnection(ctx context.Context, idx int) error {
	conn, err := p.ConnectionAt(idx)
	if err != nil {
		return err
	}
	return conn.Restart(ctx)
}

// Receive awaits whichever Connection's pump yields next (fair selection
// across the set, since every Connection pumps into the same buffered
// fanIn channel as soon as it has something) and returns its messages
// tagged with its index. It returns ErrNoConnections if the pool is
// currently empty; callers that add connections later (JoinChannel) should
// treat this as retryable rather than terminal.
func (p *Pool) Receive(ctx context.Context) (Received, error) {
	p.mu.Lock()
	n := len(p.conns)
	p.mu.Unlock()

	if n == 0 {
		return Received{}, ErrNoConnections
	}

	select {
	case <-ctx.Done():
		return Received{}, ctx.Err()
	case r := <-p.fanIn:
		if r.err != nil {
			return Received{Index: r.idx}, fmt.Errorf("connection %d: %w", r.idx, r.err)
		}
		return Received{Messages: r.msgs, Index: r.idx}, nil
	}
}

// Shutdown closes every Connection in the pool and stops their pumps.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	conns := make([]*Connection, len(p.conns))
	copy(conns, p.conns)
	p.mu.Unlock()

	p.shutdownOnce.Do(func() { close(p.quit) })

	for _, c := range conns {
		_ = c.Close()
	}
}
