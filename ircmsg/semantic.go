package ircmsg

import "strings"

// AnySemantic holds exactly one parsed Message and forwards the accessors
// common to every command, offering typed views on demand via its As*
// methods (spec.md §4.3). It is the polymorphic sum type the dispatcher
// classifies and routes.
type AnySemantic struct {
	msg *Message
}

// Wrap adapts a parsed Message into its semantic view.
func Wrap(msg *Message) AnySemantic { return AnySemantic{msg: msg} }

// Raw returns the original wire text.
func (a AnySemantic) Raw() string { return a.msg.Raw }

// Command returns the parsed command enum.
func (a AnySemantic) Command() Command { return a.msg.Command }

// GetTag looks up a well-known tag, forwarding to the underlying message.
func (a AnySemantic) GetTag(key TagKey) (string, bool) {
	if !a.msg.HasTags {
		return "", false
	}
	return a.msg.Tags.Get(key)
}

// GetParam returns the i-th parameter.
func (a AnySemantic) GetParam(i int) (string, bool) { return a.msg.Param(i) }

// Message exposes the underlying parsed message for callers that need the
// raw field ranges (e.g. forwarding to SendRawIrc).
func (a AnySemantic) Message() *Message { return a.msg }

// AsPrivMsg narrows to the PRIVMSG wrapper.
func (a AnySemantic) AsPrivMsg() (PrivMsg, bool) {
	if a.msg.Command != CommandPrivMsg {
		return PrivMsg{}, false
	}
	return PrivMsg{msg: a.msg}, true
}

// AsNotice narrows to the NOTICE wrapper.
func (a AnySemantic) AsNotice() (Notice, bool) {
	if a.msg.Command != CommandNotice {
		return Notice{}, false
	}
	return Notice{msg: a.msg}, true
}

// AsClearChat narrows to the CLEARCHAT wrapper.
func (a AnySemantic) AsClearChat() (ClearChat, bool) {
	if a.msg.Command != CommandClearChat {
		return ClearChat{}, false
	}
	return ClearChat{msg: a.msg}, true
}

// AsClearMsg narrows to the CLEARMSG wrapper.
func (a AnySemantic) AsClearMsg() (ClearMsg, bool) {
	if a.msg.Command != CommandClearMsg {
		return ClearMsg{}, false
	}
	return ClearMsg{msg: a.msg}, true
}

// AsUserNotice narrows to the USERNOTICE wrapper.
func (a AnySemantic) AsUserNotice() (UserNotice, bool) {
	if a.msg.Command != CommandUserNotice {
		return UserNotice{}, false
	}
	return UserNotice{msg: a.msg}, true
}

// AsRoomState narrows to the ROOMSTATE wrapper.
func (a AnySemantic) AsRoomState() (RoomState, bool) {
	if a.msg.Command != CommandRoomState {
		return RoomState{}, false
	}
	return RoomState{msg: a.msg}, true
}

// AsUserState narrows to the USERSTATE wrapper.
func (a AnySemantic) AsUserState() (UserState, bool) {
	if a.msg.Command != CommandUserState {
		return UserState{}, false
	}
	return UserState{msg: a.msg}, true
}

// AsGlobalUserState narrows to the GLOBALUSERSTATE wrapper.
func (a AnySemantic) AsGlobalUserState() (GlobalUserState, bool) {
	if a.msg.Command != CommandGlobalUserState {
		return GlobalUserState{}, false
	}
	return GlobalUserState{msg: a.msg}, true
}

// AsWhisper narrows to the WHISPER wrapper.
func (a AnySemantic) AsWhisper() (Whisper, bool) {
	if a.msg.Command != CommandWhisper {
		return Whisper{}, false
	}
	return Whisper{msg: a.msg}, true
}

// AsPing narrows to the PING wrapper.
func (a AnySemantic) AsPing() (Ping, bool) {
	if a.msg.Command != CommandPing {
		return Ping{}, false
	}
	return Ping{msg: a.msg}, true
}

const ctcpDelim = '\x01'

// PrivMsg is the semantic wrapper over a PRIVMSG (spec.md §4.3).
type PrivMsg struct{ msg *Message }

func (p PrivMsg) Raw() string { return p.msg.Raw }

// ChannelLogin returns param[0] without its leading '#'.
func (p PrivMsg) ChannelLogin() string {
	ch, _ := p.msg.Param(0)
	return strings.TrimPrefix(ch, "#")
}

// MessageText strips the leading ':' from param[1] and, if the remaining
// body is CTCP-framed (`\x01 ... \x01`), strips those bytes too.
func (p PrivMsg) MessageText() string {
	body, _ := p.msg.Param(1)
	body = strings.TrimPrefix(body, ":")
	if len(body) >= 2 && body[0] == ctcpDelim && body[len(body)-1] == ctcpDelim {
		body = body[1 : len(body)-1]
		body = strings.TrimPrefix(body, "ACTION ")
	}
	return body
}

// IsAction reports whether the message is a CTCP ACTION (`/me`).
func (p PrivMsg) IsAction() bool {
	body, _ := p.msg.Param(1)
	body = strings.TrimPrefix(body, ":")
	return len(body) >= 2 && body[0] == ctcpDelim && body[len(body)-1] == ctcpDelim &&
		strings.HasPrefix(body[1:len(body)-1], "ACTION ")
}

// SenderLogin returns the sender's login, from the prefix nickname.
func (p PrivMsg) SenderLogin() string { return p.msg.Prefix.Nick() }

// SenderID returns the `user-id` tag, if present.
func (p PrivMsg) SenderID() (string, bool) {
	return p.msg.Tags.Get(TagUserID)
}

// SenderRoles ORs together bits derived from the mod/vip/subscriber tags
// and the broadcaster badge (spec.md §4.3); a vip badge also sets the VIP
// bit.
func (p PrivMsg) SenderRoles() Roles {
	if !p.msg.HasTags {
		return RoleNone
	}
	return rolesFromTags(p.msg.Tags)
}

// ReplyToID prefers `reply-thread-parent-msg-id`, falling back to `id`
// (spec.md §4.3, exact as specified).
func (p PrivMsg) ReplyToID() (string, bool) {
	if !p.msg.HasTags {
		return "", false
	}
	if v, ok := p.msg.Tags.Get(TagReplyThreadParentMsgID); ok {
		return v, true
	}
	return p.msg.Tags.Get(TagID)
}

// Bits returns the `bits` tag value, 0 if this message wasn't a cheer.
func (p PrivMsg) Bits() int {
	if !p.msg.HasTags {
		return 0
	}
	return p.msg.Tags.Int(TagBits)
}

// ID returns the message's `id` tag.
func (p PrivMsg) ID() (string, bool) {
	if !p.msg.HasTags {
		return "", false
	}
	return p.msg.Tags.Get(TagID)
}

// Notice is the semantic wrapper over a NOTICE.
type Notice struct{ msg *Message }

func (n Notice) Raw() string { return n.msg.Raw }

// ChannelLogin returns param[0] without its leading '#', or "" for global
// notices.
func (n Notice) ChannelLogin() string {
	ch, ok := n.msg.Param(0)
	if !ok {
		return ""
	}
	return strings.TrimPrefix(ch, "#")
}

// Text returns the trailing notice text.
func (n Notice) Text() string {
	body, _ := n.msg.Param(1)
	return strings.TrimPrefix(body, ":")
}

// Kind parses the `msg-id` tag against the closed NoticeKind enum
// (spec.md §4.3).
func (n Notice) Kind() NoticeKind {
	if !n.msg.HasTags {
		return NoticeKindOther
	}
	return parseNoticeKind(n.msg.Tags.GetOr(TagMsgID, ""))
}

// BanDuration is CLEARCHAT's duration: either Temporary(seconds) or
// Permanent (spec.md §4.3, ClearChat.duration()).
type BanDuration struct {
	Permanent bool
	Seconds   int
}

// ClearChat is the semantic wrapper over a CLEARCHAT.
type ClearChat struct{ msg *Message }

func (c ClearChat) Raw() string { return c.msg.Raw }

func (c ClearChat) ChannelLogin() string {
	ch, _ := c.msg.Param(0)
	return strings.TrimPrefix(ch, "#")
}

// TargetLogin returns the timed-out/banned user, "" if the whole chat was
// cleared.
func (c ClearChat) TargetLogin() string {
	body, _ := c.msg.Param(1)
	return strings.TrimPrefix(body, ":")
}

// Duration reports whether this is a timeout (with seconds) or a permanent
// ban/chat clear.
func (c ClearChat) Duration() BanDuration {
	if !c.msg.HasTags {
		return BanDuration{Permanent: true}
	}
	if secs, ok := c.msg.Tags.Get(TagBanDuration); ok {
		n := c.msg.Tags.Int(TagBanDuration)
		_ = secs
		return BanDuration{Seconds: n}
	}
	return BanDuration{Permanent: true}
}

// ClearMsg is the semantic wrapper over a CLEARMSG (single message delete).
type ClearMsg struct{ msg *Message }

func (c ClearMsg) Raw() string { return c.msg.Raw }

func (c ClearMsg) ChannelLogin() string {
	ch, _ := c.msg.Param(0)
	return strings.TrimPrefix(ch, "#")
}

func (c ClearMsg) TargetMsgID() (string, bool) {
	if !c.msg.HasTags {
		return "", false
	}
	return c.msg.Tags.Get(TagTargetMsgID)
}

// UserNotice is the semantic wrapper over USERNOTICE (subs, raids, etc.).
type UserNotice struct{ msg *Message }

func (u UserNotice) Raw() string { return u.msg.Raw }

func (u UserNotice) ChannelLogin() string {
	ch, _ := u.msg.Param(0)
	return strings.TrimPrefix(ch, "#")
}

// MsgID returns the raw `msg-id` tag value (sub, resub, raid, ...).
func (u UserNotice) MsgID() string {
	if !u.msg.HasTags {
		return ""
	}
	return u.msg.Tags.GetOr(TagMsgID, "")
}

// SystemMessage returns the server-generated system message.
func (u UserNotice) SystemMessage() string {
	if !u.msg.HasTags {
		return ""
	}
	return u.msg.Tags.GetOr(TagSystemMsg, "")
}

// RoomState is the semantic wrapper over ROOMSTATE.
type RoomState struct{ msg *Message }

func (r RoomState) Raw() string { return r.msg.Raw }

func (r RoomState) ChannelLogin() string {
	ch, _ := r.msg.Param(0)
	return strings.TrimPrefix(ch, "#")
}

func (r RoomState) EmoteOnly() bool { return r.msg.HasTags && r.msg.Tags.Bool(TagEmoteOnly) }
func (r RoomState) R9K() bool       { return r.msg.HasTags && r.msg.Tags.Bool(TagR9K) }
func (r RoomState) SubsOnly() bool  { return r.msg.HasTags && r.msg.Tags.Bool(TagSubsOnly) }
func (r RoomState) Slow() int {
	if !r.msg.HasTags {
		return 0
	}
	return r.msg.Tags.Int(TagSlow)
}

// FollowersOnly returns -1 (off) or the minimum account age in minutes.
func (r RoomState) FollowersOnly() int {
	if !r.msg.HasTags {
		return -1
	}
	v, ok := r.msg.Tags.Get(TagFollowersOnly)
	if !ok {
		return -1
	}
	_ = v
	return r.msg.Tags.Int(TagFollowersOnly)
}

// UserState is the semantic wrapper over USERSTATE.
type UserState struct{ msg *Message }

func (u UserState) Raw() string { return u.msg.Raw }
func (u UserState) ChannelLogin() string {
	ch, _ := u.msg.Param(0)
	return strings.TrimPrefix(ch, "#")
}
func (u UserState) Roles() Roles {
	if !u.msg.HasTags {
		return RoleNone
	}
	return rolesFromTags(u.msg.Tags)
}

// GlobalUserState is the semantic wrapper over GLOBALUSERSTATE.
type GlobalUserState struct{ msg *Message }

func (g GlobalUserState) Raw() string { return g.msg.Raw }
func (g GlobalUserState) UserID() (string, bool) {
	if !g.msg.HasTags {
		return "", false
	}
	return g.msg.Tags.Get(TagUserID)
}

// Whisper is the semantic wrapper over WHISPER.
type Whisper struct{ msg *Message }

func (w Whisper) Raw() string { return w.msg.Raw }
func (w Whisper) FromLogin() string { return w.msg.Prefix.Nick() }
func (w Whisper) Text() string {
	body, _ := w.msg.Param(1)
	return strings.TrimPrefix(body, ":")
}

// Ping is the semantic wrapper over PING.
type Ping struct{ msg *Message }

func (p Ping) Raw() string { return p.msg.Raw }

// Token returns param[0], the value the PONG must echo.
func (p Ping) Token() string {
	tok, _ := p.msg.Param(0)
	return strings.TrimPrefix(tok, ":")
}

// Respond constructs the PONG builder that answers this PING
// (spec.md §4.3, Ping.respond()).
func (p Ping) Respond() *MessageBuilder {
	return Pong(p.Token())
}
