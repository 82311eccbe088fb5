package ircmsg

import "testing"

func TestBuilderPrivmsg(t *testing.T) {
	got := Privmsg("room", "hi").Build()
	want := "PRIVMSG #room :hi\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderPrivmsgAlreadyPrefixed(t *testing.T) {
	got := Privmsg("#room", ":already").Build()
	want := "PRIVMSG #room :already\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderAddTag(t *testing.T) {
	got := Privmsg("room", "hi").AddTag(TagReplyParentMsgID, "xyz").Build()
	want := "@reply-parent-msg-id=xyz PRIVMSG #room :hi\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderJoinBatched(t *testing.T) {
	got := Join([]string{"a", "#b"}).Build()
	want := "JOIN #a,#b\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderPart(t *testing.T) {
	got := Part([]string{"a"}).Build()
	want := "PART #a\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderCapReq(t *testing.T) {
	got := CapReq().Build()
	want := "CAP REQ :twitch.tv/commands twitch.tv/tags\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderPong(t *testing.T) {
	got := Pong("tmi.twitch.tv").Build()
	want := "PONG :tmi.twitch.tv\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
