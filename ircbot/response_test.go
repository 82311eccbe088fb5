package ircbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTextResponseBuildsSendMessage(t *testing.T) {
	cmds := TextResponse("hello").ToCommands(2, "chan", "parent-id")
	require.Len(t, cmds, 1)
	c := cmds[0]
	require.Equal(t, SendMessageCmd, c.Kind)
	require.Equal(t, "chan", c.Channel)
	require.Equal(t, "hello", c.Text)
	require.Equal(t, "parent-id", c.ReplyToID)
	require.Equal(t, 2, c.ConnIdx)
}

func TestTextResponseEmptyProducesNothing(t *testing.T) {
	if cmds := TextResponse("").ToCommands(0, "c", ""); cmds != nil {
		t.Errorf("expected nil, got %v", cmds)
	}
}

func TestNoResponseProducesNothing(t *testing.T) {
	if cmds := (NoResponse{}).ToCommands(0, "c", ""); cmds != nil {
		t.Errorf("expected nil, got %v", cmds)
	}
}

func TestManyResponseFlattensInOrder(t *testing.T) {
	m := ManyResponse{TextResponse("a"), JoinResponse("newchan"), TextResponse("b")}
	cmds := m.ToCommands(0, "chan", "")
	if len(cmds) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(cmds))
	}
	if cmds[0].Text != "a" || cmds[1].Kind != JoinChannelCmd || cmds[2].Text != "b" {
		t.Errorf("got %+v", cmds)
	}
}

func TestDelayedResponseSleepsThenDelegates(t *testing.T) {
	start := time.Now()
	d := DelayedResponse{Inner: TextResponse("late"), Delay: 20 * time.Millisecond}
	cmds := d.ToCommands(0, "c", "")
	if time.Since(start) < 20*time.Millisecond {
		t.Error("expected delay before producing commands")
	}
	if len(cmds) != 1 || cmds[0].Text != "late" {
		t.Errorf("got %+v", cmds)
	}
}

func TestErrorResponseBecomesTextResponse(t *testing.T) {
	cmds := ErrorResponse{Err: errNotPrivMsg}.ToCommands(0, "chan", "")
	if len(cmds) != 1 || cmds[0].Text != errNotPrivMsg.Error() {
		t.Errorf("got %+v", cmds)
	}
}

func TestShutdownResponse(t *testing.T) {
	cmds := ShutdownResponse{}.ToCommands(0, "", "")
	if len(cmds) != 1 || cmds[0].Kind != ShutdownCmd {
		t.Errorf("got %+v", cmds)
	}
}
