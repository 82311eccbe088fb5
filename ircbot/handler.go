package ircbot

// Handler is the type-erased uniform wrapper every arity below compiles
// down to, so registered commands can be stored in a single slice and
// invoked from one call site regardless of how many parameters the
// original function declared.
type Handler interface {
	Invoke(ctx *CommandContext) Response
}

func asResponse(v interface{}) Response {
	if v == nil {
		return NoResponse{}
	}
	switch r := v.(type) {
	case Response:
		return r
	case string:
		return TextResponse(r)
	case error:
		return ErrorResponse{Err: r}
	default:
		return NoResponse{}
	}
}

// Handler0 adapts a callable taking only the CommandContext.
type Handler0[R any] func(ctx *CommandContext) R

func (h Handler0[R]) Invoke(ctx *CommandContext) Response {
	return asResponse(h(ctx))
}

// Handler1 adapts a callable taking one extracted parameter plus the
// CommandContext. If the extractor fails, the error is converted to a
// Response and the callable is never invoked.
type Handler1[E1, R any] struct {
	Extract1 Extractor[E1]
	Fn       func(ctx *CommandContext, a E1) R
}

func (h Handler1[E1, R]) Invoke(ctx *CommandContext) Response {
	a, err := h.Extract1(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	return asResponse(h.Fn(ctx, a))
}

// Handler2 adapts a callable taking two extracted parameters.
type Handler2[E1, E2, R any] struct {
	Extract1 Extractor[E1]
	Extract2 Extractor[E2]
	Fn       func(ctx *CommandContext, a E1, b E2) R
}

func (h Handler2[E1, E2, R]) Invoke(ctx *CommandContext) Response {
	a, err := h.Extract1(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	b, err := h.Extract2(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	return asResponse(h.Fn(ctx, a, b))
}

// Handler3 adapts a callable taking three extracted parameters.
type Handler3[E1, E2, E3, R any] struct {
	Extract1 Extractor[E1]
	Extract2 Extractor[E2]
	Extract3 Extractor[E3]
	Fn       func(ctx *CommandContext, a E1, b E2, c E3) R
}

func (h Handler3[E1, E2, E3, R]) Invoke(ctx *CommandContext) Response {
	a, err := h.Extract1(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	b, err := h.Extract2(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	c, err := h.Extract3(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	return asResponse(h.Fn(ctx, a, b, c))
}

// Handler4 adapts a callable taking four extracted parameters — the arity
// cap for this port (see the Open Question decision in SPEC_FULL.md); a
// fifth parameter would follow the identical mechanical pattern.
type Handler4[E1, E2, E3, E4, R any] struct {
	Extract1 Extractor[E1]
	Extract2 Extractor[E2]
	Extract3 Extractor[E3]
	Extract4 Extractor[E4]
	Fn       func(ctx *CommandContext, a E1, b E2, c E3, d E4) R
}

func (h Handler4[E1, E2, E3, E4, R]) Invoke(ctx *CommandContext) Response {
	a, err := h.Extract1(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	b, err := h.Extract2(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	c, err := h.Extract3(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	d, err := h.Extract4(ctx)
	if err != nil {
		return ErrorResponse{Err: err}
	}
	return asResponse(h.Fn(ctx, a, b, c, d))
}
