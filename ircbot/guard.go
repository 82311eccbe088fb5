package ircbot

import (
	"strings"

	"github.com/Its-donkey/kappopher/ircmsg"
)

var roomIDTagKey = ircmsg.TagRoomID

// Guard is a pure predicate over a CommandContext. Guards must be cheaply
// copyable so each worker can hold its own; all provided guards here are
// plain structs/funcs with no shared mutable state.
type Guard interface {
	Match(ctx *CommandContext) bool
}

// GuardFunc adapts a plain function to the Guard interface.
type GuardFunc func(ctx *CommandContext) bool

func (f GuardFunc) Match(ctx *CommandContext) bool { return f(ctx) }

// NoOpGuard always matches (or never, if constructed false).
type NoOpGuard bool

func (n NoOpGuard) Match(*CommandContext) bool { return bool(n) }

// CommandGuard matches a PRIVMSG whose first whitespace-delimited word is
// Prefix concatenated with one of Names, e.g. prefix "!" and name "ping"
// matches "!ping" or "!ping some args".
type CommandGuard struct {
	Prefix string
	Names  []string
}

func (g CommandGuard) Match(ctx *CommandContext) bool {
	pm, ok := ctx.Message.AsPrivMsg()
	if !ok {
		return false
	}
	text := strings.TrimSpace(stripAntiDup(pm.MessageText()))
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	word := fields[0]
	for _, name := range g.Names {
		if word == g.Prefix+name {
			return true
		}
	}
	return false
}

// UserGuard matches (or excludes, if Forbid) a set of sender user-ids.
type UserGuard struct {
	IDs    map[string]struct{}
	Forbid bool
}

func allowSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// AllowUsers matches only messages whose sender user-id is in ids.
func AllowUsers(ids ...string) UserGuard {
	return UserGuard{IDs: allowSet(ids)}
}

// ForbidUsers matches every message except those whose sender user-id is in
// ids.
func ForbidUsers(ids ...string) UserGuard {
	return UserGuard{IDs: allowSet(ids), Forbid: true}
}

func (g UserGuard) Match(ctx *CommandContext) bool {
	pm, ok := ctx.Message.AsPrivMsg()
	if !ok {
		return false
	}
	id, ok := pm.SenderID()
	if !ok {
		return g.Forbid
	}
	_, present := g.IDs[id]
	if g.Forbid {
		return !present
	}
	return present
}

// ChannelGuard matches (or excludes, if Forbid) a set of room-ids.
type ChannelGuard struct {
	IDs    map[string]struct{}
	Forbid bool
}

// AllowChannels matches only messages whose room-id is in ids.
func AllowChannels(ids ...string) ChannelGuard {
	return ChannelGuard{IDs: allowSet(ids)}
}

// ForbidChannels matches every message except those whose room-id is in ids.
func ForbidChannels(ids ...string) ChannelGuard {
	return ChannelGuard{IDs: allowSet(ids), Forbid: true}
}

func (g ChannelGuard) Match(ctx *CommandContext) bool {
	roomID, ok := ctx.Message.GetTag(roomIDTagKey)
	if !ok {
		return g.Forbid
	}
	_, present := g.IDs[roomID]
	if g.Forbid {
		return !present
	}
	return present
}

// RoleGuard matches when the sender's role bitmask intersects Mask.
type RoleGuard struct {
	Mask uint8
}

func (g RoleGuard) Match(ctx *CommandContext) bool {
	pm, ok := ctx.Message.AsPrivMsg()
	if !ok {
		return false
	}
	return uint8(pm.SenderRoles())&g.Mask != 0
}

// AndGuard matches iff every inner guard matches.
type AndGuard []Guard

func (g AndGuard) Match(ctx *CommandContext) bool {
	for _, inner := range g {
		if !inner.Match(ctx) {
			return false
		}
	}
	return true
}

// OrGuard matches iff any inner guard matches.
type OrGuard []Guard

func (g OrGuard) Match(ctx *CommandContext) bool {
	for _, inner := range g {
		if inner.Match(ctx) {
			return true
		}
	}
	return false
}

// NotGuard inverts its inner guard.
type NotGuard struct{ Inner Guard }

func (g NotGuard) Match(ctx *CommandContext) bool { return !g.Inner.Match(ctx) }
