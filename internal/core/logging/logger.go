package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions. The
// returned logger carries ContextHook so events logged with .Ctx(ctx)
// pick up request and review identifiers.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger().Hook(ContextHook{})
}

// Ctx returns the component logger bound to ctx, for call sites that
// log several events against the same request.
func Ctx(ctx context.Context, name string) zerolog.Logger {
	l := Component(name)
	return l.With().Ctx(ctx).Logger()
}
