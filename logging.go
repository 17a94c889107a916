package ssv

import (
	"context"
	"log/slog"
)

// discardHandler is slog's silent default (§7.1): the core never logs on
// the happy path, but recovered panics and cancellation sweeps have
// somewhere to go if a caller supplies a real *slog.Logger via WithLogger.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
