package ircmsg

import "testing"

func TestClearChatDuration(t *testing.T) {
	msg, err := Parse("@ban-duration=600;room-id=1;target-user-id=2 :tmi.twitch.tv CLEARCHAT #chan :baduser\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cc, ok := Wrap(msg).AsClearChat()
	if !ok {
		t.Fatalf("expected CLEARCHAT wrapper")
	}
	d := cc.Duration()
	if d.Permanent || d.Seconds != 600 {
		t.Errorf("duration: got %+v", d)
	}
	if cc.TargetLogin() != "baduser" {
		t.Errorf("target: got %q", cc.TargetLogin())
	}
}

func TestClearChatPermanentBan(t *testing.T) {
	msg, err := Parse("@room-id=1;target-user-id=2 :tmi.twitch.tv CLEARCHAT #chan :baduser\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cc, _ := Wrap(msg).AsClearChat()
	if d := cc.Duration(); !d.Permanent {
		t.Errorf("expected permanent, got %+v", d)
	}
}

func TestNoticeKind(t *testing.T) {
	msg, err := Parse("@msg-id=msg_banned :tmi.twitch.tv NOTICE #chan :You are banned\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	n, ok := Wrap(msg).AsNotice()
	if !ok {
		t.Fatalf("expected NOTICE wrapper")
	}
	if n.Kind() != NoticeMsgBanned {
		t.Errorf("kind: got %v", n.Kind())
	}
	if n.Text() != "You are banned" {
		t.Errorf("text: got %q", n.Text())
	}
}

func TestSenderRolesFromBadgesAndTags(t *testing.T) {
	msg, err := Parse("@mod=1;subscriber=0;badges=vip/1,broadcaster/1 :n!n@n PRIVMSG #c :hi\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pm, _ := Wrap(msg).AsPrivMsg()
	roles := pm.SenderRoles()
	for _, want := range []Roles{RoleModerator, RoleVIP, RoleBroadcaster} {
		if !roles.Has(want) {
			t.Errorf("expected role bit %v set in %v", want, roles)
		}
	}
	if roles.Has(RoleSubscriber) {
		t.Errorf("did not expect subscriber bit")
	}
}

func TestPrivmsgCTCPAction(t *testing.T) {
	msg, err := Parse("@id=1 :n!n@n PRIVMSG #c :\x01ACTION waves\x01\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pm, _ := Wrap(msg).AsPrivMsg()
	if !pm.IsAction() {
		t.Errorf("expected action")
	}
	if pm.MessageText() != "waves" {
		t.Errorf("text: got %q", pm.MessageText())
	}
}

func TestReplyToIDFallsBackToID(t *testing.T) {
	msg, err := Parse("@id=abc :n!n@n PRIVMSG #c :hi\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pm, _ := Wrap(msg).AsPrivMsg()
	if id, ok := pm.ReplyToID(); !ok || id != "abc" {
		t.Errorf("got %q, %v", id, ok)
	}
}

func TestRoomStateFollowersOnly(t *testing.T) {
	msg, err := Parse("@followers-only=10;room-id=1 :tmi.twitch.tv ROOMSTATE #chan\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rs, ok := Wrap(msg).AsRoomState()
	if !ok {
		t.Fatalf("expected ROOMSTATE wrapper")
	}
	if rs.FollowersOnly() != 10 {
		t.Errorf("got %d", rs.FollowersOnly())
	}
}

func TestRoomStateFollowersOff(t *testing.T) {
	msg, err := Parse("@room-id=1 :tmi.twitch.tv ROOMSTATE #chan\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rs, _ := Wrap(msg).AsRoomState()
	if rs.FollowersOnly() != -1 {
		t.Errorf("got %d, want -1", rs.FollowersOnly())
	}
}
