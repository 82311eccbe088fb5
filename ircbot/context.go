package ircbot

import (
	"github.com/google/uuid"

	"github.com/Its-donkey/kappopher/ircmsg"
)

// CommandContext is handed to guards, extractors, and handlers for a single
// inbound message. The correlation ID has no protocol meaning; it exists so
// a worker's log lines for one message can be grepped together.
type CommandContext struct {
	Message  ircmsg.AnySemantic
	ConnIdx  int
	Data     *Data
	RequestID uuid.UUID
}

// NewCommandContext builds a CommandContext for msg arriving on connIdx.
func NewCommandContext(msg ircmsg.AnySemantic, connIdx int, data *Data) *CommandContext {
	return &CommandContext{
		Message:   msg,
		ConnIdx:   connIdx,
		Data:      data,
		RequestID: uuid.New(),
	}
}
