package ircmsg

import "strings"

// builderTag is one tag to emit: either a well-known key or a raw one.
type builderTag struct {
	key    TagKey
	rawKey string
	value  string
}

// MessageBuilder constructs an outbound frame incrementally (spec.md §4.2).
// Unlike Message, every field here is owned (copied into the builder), as
// the builder has no backing frame to borrow ranges from.
type MessageBuilder struct {
	tags    []builderTag
	prefix  string
	hasPrefix bool
	Command string
	params  []string
}

// NewBuilder starts an empty builder for the given command.
func NewBuilder(command string) *MessageBuilder {
	return &MessageBuilder{Command: command}
}

// AddTag appends a well-known tag in order (spec.md §4.2 example:
// `.add_tag(ReplyParentMsgId, "xyz")`).
func (b *MessageBuilder) AddTag(key TagKey, value string) *MessageBuilder {
	b.tags = append(b.tags, builderTag{key: key, value: value})
	return b
}

// AddRawTag appends a tag by its literal wire key, for forward-compatible
// tags not in the closed TagKey set.
func (b *MessageBuilder) AddRawTag(rawKey, value string) *MessageBuilder {
	b.tags = append(b.tags, builderTag{rawKey: rawKey, value: value})
	return b
}

// WithPrefix sets `:nick!user@host ` (or a bare host) on the builder.
func (b *MessageBuilder) WithPrefix(prefix string) *MessageBuilder {
	b.prefix = prefix
	b.hasPrefix = true
	return b
}

// AddParam appends one positional or trailing parameter.
func (b *MessageBuilder) AddParam(p string) *MessageBuilder {
	b.params = append(b.params, p)
	return b
}

// Build serializes the builder to wire text, reversing the parser: tags,
// then prefix, then command, then space-prefixed params, then CR-LF
// (spec.md §4.2).
func (b *MessageBuilder) Build() string {
	var sb strings.Builder

	if len(b.tags) > 0 {
		sb.WriteByte('@')
		for i, t := range b.tags {
			if i > 0 {
				sb.WriteByte(';')
			}
			key := t.rawKey
			if key == "" {
				key = t.key.String()
			}
			sb.WriteString(key)
			if t.value != "" {
				sb.WriteByte('=')
				sb.WriteString(t.value)
			}
		}
		sb.WriteByte(' ')
	}

	if b.hasPrefix {
		sb.WriteByte(':')
		sb.WriteString(b.prefix)
		sb.WriteByte(' ')
	}

	sb.WriteString(b.Command)

	for _, p := range b.params {
		sb.WriteByte(' ')
		sb.WriteString(p)
	}

	sb.WriteString("\r\n")
	return sb.String()
}

// Pong builds a PONG echoing token (spec.md §4.2).
func Pong(token string) *MessageBuilder {
	return NewBuilder("PONG").AddParam(":" + token)
}

// Privmsg builds a PRIVMSG to channel, adding the leading '#' and the
// trailing-param ':' if the caller omitted them (spec.md §4.2).
func Privmsg(channel, text string) *MessageBuilder {
	if !strings.HasPrefix(channel, "#") {
		channel = "#" + channel
	}
	if !strings.HasPrefix(text, ":") {
		text = ":" + text
	}
	return NewBuilder("PRIVMSG").AddParam(channel).AddParam(text)
}

// Join builds a single batched JOIN for every channel in logins.
func Join(logins []string) *MessageBuilder {
	b := NewBuilder("JOIN")
	if len(logins) == 0 {
		return b
	}
	chans := make([]string, len(logins))
	for i, l := range logins {
		if !strings.HasPrefix(l, "#") {
			l = "#" + l
		}
		chans[i] = l
	}
	return b.AddParam(strings.Join(chans, ","))
}

// Part builds a PART for the given channels.
func Part(logins []string) *MessageBuilder {
	return Join(logins).withCommand("PART")
}

func (b *MessageBuilder) withCommand(cmd string) *MessageBuilder {
	b.Command = cmd
	return b
}

// CapReq builds the Twitch capability request spec.md requires:
// `twitch.tv/commands twitch.tv/tags`.
func CapReq() *MessageBuilder {
	return NewBuilder("CAP").AddParam("REQ").AddParam(":twitch.tv/commands twitch.tv/tags")
}

// Pass builds a PASS frame. Callers MUST NOT log the result verbatim
// (spec.md §4.4).
func Pass(token string) *MessageBuilder {
	return NewBuilder("PASS").AddParam(token)
}

// Nick builds a NICK frame.
func Nick(login string) *MessageBuilder {
	return NewBuilder("NICK").AddParam(login)
}
