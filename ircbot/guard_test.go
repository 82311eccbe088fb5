package ircbot

import (
	"testing"

	"github.com/Its-donkey/kappopher/ircmsg"
)

func ctxFromRaw(t *testing.T, raw string) *CommandContext {
	t.Helper()
	msg, err := ircmsg.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewCommandContext(ircmsg.Wrap(msg), 0, NewData())
}

func TestCommandGuardMatchesPrefixedWord(t *testing.T) {
	ctx := ctxFromRaw(t, ":n!n@n PRIVMSG #c :!ping extra args\r\n")
	g := CommandGuard{Prefix: "!", Names: []string{"ping", "pong"}}
	if !g.Match(ctx) {
		t.Error("expected match")
	}
}

func TestCommandGuardNoMatch(t *testing.T) {
	ctx := ctxFromRaw(t, ":n!n@n PRIVMSG #c :hello there\r\n")
	g := CommandGuard{Prefix: "!", Names: []string{"ping"}}
	if g.Match(ctx) {
		t.Error("expected no match")
	}
}

func TestUserGuardAllowForbid(t *testing.T) {
	ctx := ctxFromRaw(t, "@user-id=42 :n!n@n PRIVMSG #c :hi\r\n")

	allow := AllowUsers("42")
	if !allow.Match(ctx) {
		t.Error("expected allow match")
	}
	forbid := ForbidUsers("42")
	if forbid.Match(ctx) {
		t.Error("expected forbid no-match")
	}
	forbidOther := ForbidUsers("99")
	if !forbidOther.Match(ctx) {
		t.Error("expected forbid-other match")
	}
}

func TestChannelGuard(t *testing.T) {
	ctx := ctxFromRaw(t, "@room-id=555 :n!n@n PRIVMSG #c :hi\r\n")
	if !AllowChannels("555").Match(ctx) {
		t.Error("expected allow match")
	}
	if AllowChannels("999").Match(ctx) {
		t.Error("expected no match")
	}
}

func TestRoleGuard(t *testing.T) {
	ctx := ctxFromRaw(t, "@mod=1 :n!n@n PRIVMSG #c :hi\r\n")
	g := RoleGuard{Mask: uint8(ircmsg.RoleModerator)}
	if !g.Match(ctx) {
		t.Error("expected moderator match")
	}
	g2 := RoleGuard{Mask: uint8(ircmsg.RoleVIP)}
	if g2.Match(ctx) {
		t.Error("expected no vip match")
	}
}

func TestAndOrNotGuard(t *testing.T) {
	ctx := ctxFromRaw(t, "@mod=1;room-id=1 :n!n@n PRIVMSG #c :!ping\r\n")
	cmd := CommandGuard{Prefix: "!", Names: []string{"ping"}}
	role := RoleGuard{Mask: uint8(ircmsg.RoleModerator)}

	and := AndGuard{cmd, role}
	if !and.Match(ctx) {
		t.Error("expected AndGuard match")
	}

	or := OrGuard{RoleGuard{Mask: uint8(ircmsg.RoleVIP)}, role}
	if !or.Match(ctx) {
		t.Error("expected OrGuard match")
	}

	not := NotGuard{Inner: RoleGuard{Mask: uint8(ircmsg.RoleVIP)}}
	if !not.Match(ctx) {
		t.Error("expected NotGuard match")
	}
}
