// Package log carries the module's logging infrastructure: a slog handler
// that redacts credential-bearing attributes, and a size-capped rotating
// file for the client debug log.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Redacted replaces the value of any sensitive attribute.
const Redacted = "[REDACTED]"

// sensitiveKeys lists attribute-key substrings whose values never reach a
// log sink. Matching is case-insensitive. Negotiation tokens and principal
// names are included: tokens are replayable material and principals leak
// directory structure.
var sensitiveKeys = []string{
	"password",
	"pass",
	"secret",
	"token",
	"ticket",
	"cred",
	"key",
	"upn",
	"principal",
}

// RedactingHandler wraps another slog.Handler and redacts sensitive
// attributes before they are handed on. Every logger this module creates is
// wrapped; callers injecting their own loggers should do the same via
// NewRedactingHandler.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next with redaction.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// New builds a redacted text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactingHandler(h))
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, redactAttr(a))
		return true
	})

	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	clean.AddAttrs(attrs...)
	return h.next.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		redacted := make([]any, len(members))
		for i, m := range members {
			redacted[i] = redactAttr(m)
		}
		return slog.Group(a.Key, redacted...)
	}

	key := strings.ToLower(a.Key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return slog.String(a.Key, Redacted)
		}
	}
	return a
}
