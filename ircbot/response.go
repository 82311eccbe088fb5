package ircbot

import "time"

// BotCommand is an outbound action the dispatcher executes serially against
// the ConnectionPool.
type BotCommand struct {
	Kind BotCommandKind

	// SendMessage / SendRawIrc
	ConnIdx     int
	Channel     string
	Text        string
	ReplyToID   string
	Raw         string

	// JoinChannel / PartChannel
	ChannelLogin string

	// Reconnect
	ReconnectIdx int
}

// BotCommandKind identifies the shape of a BotCommand.
type BotCommandKind uint8

const (
	SendMessageCmd BotCommandKind = iota
	SendRawIrcCmd
	JoinChannelCmd
	PartChannelCmd
	ReconnectCmd
	ShutdownCmd
)

// Response is anything a handler can return that the dispatcher knows how to
// translate into zero or more BotCommands. It is the Go realization of the
// IntoResponse capability from the handler/extractor design: the dispatcher
// calls ToCommands with the channel and reply id the triggering message
// arrived on/with, so a bare string response can become a PRIVMSG without
// the handler having to know its own origin.
type Response interface {
	ToCommands(connIdx int, channel, replyToID string) []BotCommand
}

// NoResponse is the Response for handlers with nothing to say, equivalent to
// the Rust unit-type IntoResponse arm.
type NoResponse struct{}

func (NoResponse) ToCommands(int, string, string) []BotCommand { return nil }

// TextResponse sends a PRIVMSG built from a plain string back to the
// channel and reply id the triggering message came from.
type TextResponse string

func (t TextResponse) ToCommands(connIdx int, channel, replyToID string) []BotCommand {
	if t == "" {
		return nil
	}
	return []BotCommand{{
		Kind:      SendMessageCmd,
		ConnIdx:   connIdx,
		Channel:   channel,
		Text:      string(t),
		ReplyToID: replyToID,
	}}
}

// ErrorResponse adapts a handler/extractor error into a Response so handler
// and extractor failures have a concrete IntoResponse realization.
type ErrorResponse struct{ Err error }

func (e ErrorResponse) ToCommands(connIdx int, channel, replyToID string) []BotCommand {
	return TextResponse(e.Err.Error()).ToCommands(connIdx, channel, replyToID)
}

// RawResponse forwards an arbitrary already-built IRC frame.
type RawResponse string

func (r RawResponse) ToCommands(connIdx int, _, _ string) []BotCommand {
	return []BotCommand{{Kind: SendRawIrcCmd, ConnIdx: connIdx, Raw: string(r)}}
}

// JoinResponse requests the dispatcher join an additional channel.
type JoinResponse string

func (j JoinResponse) ToCommands(int, string, string) []BotCommand {
	return []BotCommand{{Kind: JoinChannelCmd, ChannelLogin: string(j)}}
}

// PartResponse requests the dispatcher leave a channel.
type PartResponse string

func (p PartResponse) ToCommands(int, string, string) []BotCommand {
	return []BotCommand{{Kind: PartChannelCmd, ChannelLogin: string(p)}}
}

// ShutdownResponse requests a clean dispatcher shutdown.
type ShutdownResponse struct{}

func (ShutdownResponse) ToCommands(int, string, string) []BotCommand {
	return []BotCommand{{Kind: ShutdownCmd}}
}

// ManyResponse flattens several responses into one, preserving order.
type ManyResponse []Response

func (m ManyResponse) ToCommands(connIdx int, channel, replyToID string) []BotCommand {
	var out []BotCommand
	for _, r := range m {
		if r == nil {
			continue
		}
		out = append(out, r.ToCommands(connIdx, channel, replyToID)...)
	}
	return out
}

// DelayedResponse sleeps for Delay before producing Inner's commands. The
// sleep happens on whatever goroutine invokes ToCommands, so callers that
// care about responsiveness should invoke it off the dispatcher's hot path
// (the worker pool, not the outbound pump).
type DelayedResponse struct {
	Inner Response
	Delay time.Duration
}

func (d DelayedResponse) ToCommands(connIdx int, channel, replyToID string) []BotCommand {
	time.Sleep(d.Delay)
	if d.Inner == nil {
		return nil
	}
	return d.Inner.ToCommands(connIdx, channel, replyToID)
}
