package ircbot

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Its-donkey/kappopher/ircmsg"
	"github.com/Its-donkey/kappopher/ircnet"
)

// maxResponseRunes bounds an outbound message body. The spec speaks of 500
// grapheme clusters; no grapheme-segmentation library appears anywhere in
// the example corpus, so this truncates by rune count, which matches for
// every script except combining-mark-heavy text.
const maxResponseRunes = 500

// defaultRateLimit matches Twitch's unverified-bot limit of 20 messages per
// 30 seconds, one limiter per Connection.
const (
	defaultRateLimit   = 20
	defaultRateBurst   = 20
	defaultRatePeriod  = 30 * time.Second
)

type registration struct {
	guard   Guard
	handler Handler
}

// Dispatcher owns the ConnectionPool and the outbound action queue. One
// goroutine runs the receive/classify loop, a worker pool drains a shared
// channel of CommandContexts, and another goroutine runs the outbound pump.
type Dispatcher struct {
	pool *ircnet.Pool
	data *Data
	log  *logrus.Entry

	registrations []registration
	workerCount   int

	inbound  chan *CommandContext
	outbound chan BotCommand

	lastSentMu sync.Mutex // guards lastSent; only touched from the outbound pump goroutine in steady state
	lastSent   map[string]string

	limitersMu sync.Mutex
	limiters   map[int]*rate.Limiter
}

// NewDispatcher builds a Dispatcher over pool. workerCount <= 0 defaults to
// runtime.GOMAXPROCS(0).
func NewDispatcher(pool *ircnet.Pool, data *Data, log *logrus.Entry, workerCount int) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	return &Dispatcher{
		pool:        pool,
		data:        data,
		log:         log,
		workerCount: workerCount,
		inbound:     make(chan *CommandContext, 256),
		outbound:    make(chan BotCommand, 256),
		lastSent:    make(map[string]string),
		limiters:    make(map[int]*rate.Limiter),
	}
}

// Register adds a guarded handler. Guards are matched in registration order;
// the first match wins.
func (d *Dispatcher) Register(guard Guard, handler Handler) {
	d.registrations = append(d.registrations, registration{guard: guard, handler: handler})
}

// Enqueue pushes a BotCommand onto the outbound queue directly, bypassing
// handler dispatch, for programmatic actions from outside a handler.
func (d *Dispatcher) Enqueue(cmd BotCommand) {
	d.outbound <- cmd
}

// Shutdown injects a Shutdown action into the outbound queue.
func (d *Dispatcher) Shutdown() {
	d.outbound <- BotCommand{Kind: ShutdownCmd}
}

// Run starts the receive/classify loop, the worker pool, and the outbound
// pump, blocking until ctx is cancelled or a Shutdown action drains the
// queue.
func (d *Dispatcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	for i := 0; i < d.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runWorker(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.runOutboundPump(ctx, cancel)
	}()

	d.runReceiveLoop(ctx)

	wg.Wait()
	return ctx.Err()
}

// noConnectionsPollInterval bounds how often runReceiveLoop retries after
// ErrNoConnections. A pool with zero initial channels is a valid startup
// state (channels may join dynamically later via JoinChannel), so that
// error must never end the loop — only ctx cancellation does.
const noConnectionsPollInterval = 200 * time.Millisecond

func (d *Dispatcher) runReceiveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		received, err := d.pool.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if err == ircnet.ErrNoConnections {
				select {
				case <-ctx.Done():
					return
				case <-time.After(noConnectionsPollInterval):
				}
				continue
			}
			d.log.WithError(err).Warn("pool receive error")
			continue
		}

		for _, msg := range received.Messages {
			d.classify(received.Index, msg)
		}
	}
}

// classify implements the classification pass from spec.md §4.6: a handful
// of commands are handled directly by the dispatcher and never reach guard
// matching.
func (d *Dispatcher) classify(connIdx int, msg *ircmsg.Message) {
	switch msg.Command {
	case ircmsg.CommandPing:
		ping, _ := ircmsg.Wrap(msg).AsPing()
		d.outbound <- BotCommand{Kind: SendRawIrcCmd, ConnIdx: connIdx, Raw: ping.Respond().Build()}

	case ircmsg.CommandAuthSuccessful:
		if conn, err := d.pool.ConnectionAt(connIdx); err == nil {
			conn.Promote()
		}
		d.log.WithField("conn_idx", connIdx).Info("connection authenticated")

	case ircmsg.CommandReconnect:
		d.outbound <- BotCommand{Kind: ReconnectCmd, ReconnectIdx: connIdx}

	case ircmsg.CommandUserState:
		d.log.WithField("conn_idx", connIdx).Debug("userstate updated")

	case ircmsg.CommandNotice:
		notice, _ := ircmsg.Wrap(msg).AsNotice()
		d.log.WithFields(logrus.Fields{"conn_idx": connIdx, "kind": notice.Kind()}).Info("notice")

	case ircmsg.CommandUseless:
		// dropped

	default:
		ctx := NewCommandContext(ircmsg.Wrap(msg), connIdx, d.data)
		select {
		case d.inbound <- ctx:
		default:
			d.log.Warn("inbound queue full, dropping message")
		}
	}
}

func (d *Dispatcher) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmdCtx, ok := <-d.inbound:
			if !ok {
				return
			}
			d.dispatchOne(cmdCtx)
		}
	}
}

func (d *Dispatcher) dispatchOne(ctx *CommandContext) {
	var matched *registration
	for i := range d.registrations {
		if d.registrations[i].guard.Match(ctx) {
			matched = &d.registrations[i]
			break
		}
	}
	if matched == nil {
		return
	}

	d.log.WithFields(logrus.Fields{
		"conn_idx":   ctx.ConnIdx,
		"command":    ctx.Message.Command().String(),
		"request_id": ctx.RequestID.String(),
	}).Debug("dispatching to handler")

	resp := matched.handler.Invoke(ctx)
	if resp == nil {
		return
	}

	channel, _ := ctx.Message.GetParam(0)
	channel = strings.TrimPrefix(channel, "#")
	var replyToID string
	if pm, ok := ctx.Message.AsPrivMsg(); ok {
		replyToID, _ = pm.ID()
	}

	for _, cmd := range resp.ToCommands(ctx.ConnIdx, channel, replyToID) {
		d.outbound <- cmd
	}
}

func (d *Dispatcher) limiterFor(connIdx int) *rate.Limiter {
	d.limitersMu.Lock()
	defer d.limitersMu.Unlock()
	l, ok := d.limiters[connIdx]
	if !ok {
		l = rate.NewLimiter(rate.Every(defaultRatePeriod/defaultRateLimit), defaultRateBurst)
		d.limiters[connIdx] = l
	}
	return l
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func (d *Dispatcher) dedupe(channel, text string) string {
	d.lastSentMu.Lock()
	defer d.lastSentMu.Unlock()
	if d.lastSent[channel] == text {
		text += AntiDupTag
	}
	d.lastSent[channel] = text
	return text
}

func (d *Dispatcher) runOutboundPump(ctx context.Context, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-d.outbound:
			if !ok {
				return
			}
			if d.execute(ctx, cmd) {
				cancel()
				return
			}
		}
	}
}

// execute runs one BotCommand against the pool, returning true iff the
// dispatcher should terminate afterwards.
func (d *Dispatcher) execute(ctx context.Context, cmd BotCommand) bool {
	switch cmd.Kind {
	case SendMessageCmd:
		text := truncateRunes(d.dedupe(cmd.Channel, cmd.Text), maxResponseRunes)
		builder := ircmsg.Privmsg(cmd.Channel, text)
		if cmd.ReplyToID != "" {
			builder = builder.AddTag(ircmsg.TagReplyParentMsgID, cmd.ReplyToID)
		}
		if err := d.waitAndSend(ctx, cmd.ConnIdx, builder.Build()); err != nil {
			d.log.WithError(err).Warn("send message failed")
		}

	case SendRawIrcCmd:
		if err := d.waitAndSend(ctx, cmd.ConnIdx, cmd.Raw); err != nil {
			d.log.WithError(err).Warn("send raw failed")
		}

	case JoinChannelCmd:
		if err := d.pool.JoinChannel(ctx, cmd.ChannelLogin); err != nil {
			d.log.WithError(err).Warn("join channel failed")
		}

	case PartChannelCmd:
		if err := d.pool.PartChannel(cmd.ChannelLogin); err != nil {
			d.log.WithError(err).Warn("part channel failed")
		}

	case ReconnectCmd:
		if err := d.pool.RestartConnection(ctx, cmd.ReconnectIdx); err != nil {
			d.log.WithError(err).Warn("restart connection failed")
		}

	case ShutdownCmd:
		d.log.Info("dispatcher shutting down")
		return true
	}
	return false
}

func (d *Dispatcher) waitAndSend(ctx context.Context, connIdx int, raw string) error {
	if err := d.limiterFor(connIdx).Wait(ctx); err != nil {
		return err
	}
	conn, err := d.pool.ConnectionAt(connIdx)
	if err != nil {
		return err
	}
	return conn.Send(raw)
}
