package ircbot

import (
	"errors"
	"strings"
)

// AntiDupTag is the invisible tag character appended to an outbound message
// that would otherwise exactly repeat the previous text sent to a channel,
// so Twitch does not silently suppress it as a duplicate.
const AntiDupTag = "\U000E0000"

// Extractor produces a typed value (or a typed error) from a CommandContext.
// It is the Go realization of the Extract capability: the dispatcher calls
// one Extractor per declared handler parameter before invoking the handler.
type Extractor[T any] func(ctx *CommandContext) (T, error)

// Optional wraps an Extractor so that a failed extraction yields the zero
// value and no error instead of aborting dispatch, matching the "Option<T>
// is extractable if T is, never failing" rule.
func Optional[T any](e Extractor[T]) Extractor[*T] {
	return func(ctx *CommandContext) (*T, error) {
		v, err := e(ctx)
		if err != nil {
			return nil, nil
		}
		return &v, nil
	}
}

var errNotPrivMsg = errors.New("ircbot: message is not a PRIVMSG")

func stripAntiDup(text string) string {
	return strings.TrimSuffix(text, AntiDupTag)
}

// MessageText extracts the trimmed PRIVMSG body with any anti-duplicate tag
// stripped. It fails for any message that is not a PRIVMSG.
func MessageText(ctx *CommandContext) (string, error) {
	pm, ok := ctx.Message.AsPrivMsg()
	if !ok {
		return "", errNotPrivMsg
	}
	return strings.TrimSpace(stripAntiDup(pm.MessageText())), nil
}

// Username extracts the sender's login from a PRIVMSG.
func Username(ctx *CommandContext) (string, error) {
	pm, ok := ctx.Message.AsPrivMsg()
	if !ok {
		return "", errNotPrivMsg
	}
	return pm.SenderLogin(), nil
}

// SenderId extracts tag user-id from a PRIVMSG.
func SenderId(ctx *CommandContext) (string, error) {
	pm, ok := ctx.Message.AsPrivMsg()
	if !ok {
		return "", errNotPrivMsg
	}
	id, ok := pm.SenderID()
	if !ok {
		return "", errors.New("ircbot: message has no user-id tag")
	}
	return id, nil
}

// Channel extracts param[0] of the message with the leading # stripped.
func Channel(ctx *CommandContext) (string, error) {
	raw, ok := ctx.Message.GetParam(0)
	if !ok {
		return "", errors.New("ircbot: message has no channel param")
	}
	return strings.TrimPrefix(raw, "#"), nil
}

// ExtractData returns an Extractor that looks up a value of type T in the
// context's Data store, panicking on absence per GetData's contract.
func ExtractData[T any]() Extractor[T] {
	return func(ctx *CommandContext) (T, error) {
		return GetData[T](ctx.Data), nil
	}
}

// ArgParser parses a command's argument words into a typed value, used by
// the Clap extractor for handlers that want structured arguments instead of
// the raw message text.
type ArgParser[T any] interface {
	Parse(args []string) (T, error)
}

// Clap returns an Extractor that splits the PRIVMSG body on whitespace
// (after stripping the leading `!command` word) and parses the remainder
// with the supplied ArgParser.
func Clap[T any](parser ArgParser[T]) Extractor[T] {
	return func(ctx *CommandContext) (T, error) {
		var zero T
		text, err := MessageText(ctx)
		if err != nil {
			return zero, err
		}
		fields := strings.Fields(text)
		if len(fields) > 0 {
			fields = fields[1:]
		}
		return parser.Parse(fields)
	}
}
