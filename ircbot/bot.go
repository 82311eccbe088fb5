package ircbot

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Its-donkey/kappopher/ircnet"
)

// Bot is the user-facing facade: construct it, add channels and commands,
// then Run it. It mirrors original_source/twixel/src/bot.rs's Bot type —
// a thin owner of a ConnectionPool and a Dispatcher.
type Bot struct {
	pool       *ircnet.Pool
	dispatcher *Dispatcher
	data       *Data
	log        *logrus.Entry
}

// NewBot wraps an already-constructed pool in a Dispatcher backed by a new,
// empty Data store, ready for command registration.
func NewBot(pool *ircnet.Pool, log *logrus.Entry, workerCount int) *Bot {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	data := NewData()
	return &Bot{
		pool:       pool,
		dispatcher: NewDispatcher(pool, data, log, workerCount),
		data:       data,
		log:        log,
	}
}

// AddChannels joins additional channels on the underlying pool.
func (b *Bot) AddChannels(ctx context.Context, logins ...string) error {
	for _, login := range logins {
		if err := b.pool.JoinChannel(ctx, login); err != nil {
			return err
		}
	}
	return nil
}

// AddCommand registers a guarded handler with the dispatcher.
func (b *Bot) AddCommand(guard Guard, handler Handler) {
	b.dispatcher.Register(guard, handler)
}

// Data stores v for later retrieval via GetData inside handlers/extractors.
// Call this before Run; BotData is read-only once workers start.
func (b *Bot) Data(v interface{}) {
	b.data.Put(v)
}

// Run starts the dispatcher and blocks until ctx is cancelled or a
// SIGINT/SIGTERM arrives, in which case a Shutdown action is injected and
// the dispatcher drains the outbound queue before returning.
func (b *Bot) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			b.log.Info("received termination signal")
			b.dispatcher.Shutdown()
		case <-ctx.Done():
		}
	}()

	defer b.pool.Shutdown()
	return b.dispatcher.Run(ctx)
}
