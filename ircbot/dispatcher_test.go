package ircbot

import (
	"context"
	"testing"
	"time"

	"github.com/Its-donkey/kappopher/ircnet"
)

func TestTruncateRunesWithinLimit(t *testing.T) {
	if got := truncateRunes("short", 500); got != "short" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateRunesOverLimit(t *testing.T) {
	long := make([]rune, 10)
	for i := range long {
		long[i] = 'a'
	}
	got := truncateRunes(string(long), 5)
	if len([]rune(got)) != 5 {
		t.Errorf("expected 5 runes, got %d", len([]rune(got)))
	}
}

func TestDedupeAppendsTagOnRepeat(t *testing.T) {
	d := NewDispatcher(nil, NewData(), nil, 1)
	first := d.dedupe("chan", "same text")
	second := d.dedupe("chan", "same text")

	if first != "same text" {
		t.Errorf("first: got %q", first)
	}
	if second != "same text"+AntiDupTag {
		t.Errorf("second: got %q", second)
	}
}

func TestDedupeDoesNotTagDistinctText(t *testing.T) {
	d := NewDispatcher(nil, NewData(), nil, 1)
	_ = d.dedupe("chan", "first message")
	second := d.dedupe("chan", "second message")
	if second != "second message" {
		t.Errorf("got %q", second)
	}
}

func TestDispatchOneRunsMatchedHandler(t *testing.T) {
	d := NewDispatcher(nil, NewData(), nil, 1)
	guard := CommandGuard{Prefix: "!", Names: []string{"hi"}}
	handler := Handler1[string, string]{
		Extract1: Username,
		Fn:       func(ctx *CommandContext, user string) string { return "hello " + user },
	}
	d.Register(guard, handler)

	ctx := ctxFromRaw(t, ":alice!alice@alice PRIVMSG #gaming :!hi\r\n")
	d.dispatchOne(ctx)

	select {
	case cmd := <-d.outbound:
		if cmd.Kind != SendMessageCmd || cmd.Text != "hello alice" || cmd.Channel != "gaming" {
			t.Errorf("got %+v", cmd)
		}
	default:
		t.Fatal("expected an outbound command")
	}
}

func TestDispatchOneNoMatchProducesNothing(t *testing.T) {
	d := NewDispatcher(nil, NewData(), nil, 1)
	d.Register(CommandGuard{Prefix: "!", Names: []string{"hi"}}, Handler0[string](func(*CommandContext) string { return "x" }))

	ctx := ctxFromRaw(t, ":alice!alice@alice PRIVMSG #gaming :not a command\r\n")
	d.dispatchOne(ctx)

	select {
	case cmd := <-d.outbound:
		t.Fatalf("expected no outbound command, got %+v", cmd)
	default:
	}
}

// TestRunReturnsWithZeroInitialConnections covers the valid startup config
// of a bot launched with no channels yet (channels joining only later, via
// JoinChannel): the receive loop must keep polling rather than exit on
// ErrNoConnections, and Run itself must still return once ctx is
// cancelled instead of hanging in wg.Wait() forever.
func TestRunReturnsWithZeroInitialConnections(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pool, err := ircnet.NewPool(ctx, "ws://unused", ircnet.Credentials{}, nil, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	d := NewDispatcher(pool, NewData(), nil, 1)

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation with zero connections")
	}
}

func TestDispatchOneRegistrationOrderFirstMatchWins(t *testing.T) {
	d := NewDispatcher(nil, NewData(), nil, 1)
	d.Register(NoOpGuard(true), Handler0[string](func(*CommandContext) string { return "first" }))
	d.Register(NoOpGuard(true), Handler0[string](func(*CommandContext) string { return "second" }))

	ctx := ctxFromRaw(t, ":alice!alice@alice PRIVMSG #gaming :anything\r\n")
	d.dispatchOne(ctx)

	cmd := <-d.outbound
	if cmd.Text != "first" {
		t.Errorf("got %q, want first registration to win", cmd.Text)
	}
}
