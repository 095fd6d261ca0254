package logging

import (
	"context"
	"log/slog"

	"cadence/internal/services"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error attaches err under the "error" key. The JSON handler expands it into
// the message and its services.Kind.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// ItemID tags a line with a content item id.
func ItemID(id string) Attr { return slog.String(FieldItemID, id) }

// GroupID tags a line with a release group id.
func GroupID(id string) Attr { return slog.String(FieldGroupID, id) }

func args(attrs ...Attr) []any {
	out := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attr)
	}
	return out
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

func hasAttrKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// WarnWithContext logs a warning that always carries event_type and
// error_hint. When attrs include an error, its kind is added as error_kind and
// picks the default hint.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	kind := errorKind(attrs)
	if !hasAttrKey(attrs, FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if kind != "" && !hasAttrKey(attrs, FieldErrorKind) {
		attrs = append(attrs, String(FieldErrorKind, kind))
	}
	if !hasAttrKey(attrs, FieldErrorHint) {
		attrs = append(attrs, String(FieldErrorHint, hintForKind(kind)))
	}
	logger.Warn(msg, args(attrs...)...)
}

func errorKind(attrs []Attr) string {
	for _, a := range attrs {
		if a.Key != "error" {
			continue
		}
		if err, ok := a.Value.Any().(error); ok {
			return services.Kind(err)
		}
	}
	return ""
}

func hintForKind(kind string) string {
	switch kind {
	case "not_found":
		return "check the item or group id"
	case "invalid_status":
		return "use one of draft, ready, staged, released"
	case "unknown_profile":
		return "add the profile to the distribution profile table"
	case "partial_failure":
		return "run the group release again to retry failed members"
	case "validation":
		return "correct the input and retry"
	case "configuration":
		return "run cadence doctor"
	default:
		return "see cadence.log for details"
	}
}

// errorGroup expands an error value into its message and kind.
func errorGroup(key string, err error) slog.Attr {
	return slog.Group(key,
		slog.String("message", err.Error()),
		slog.String("kind", services.Kind(err)),
	)
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
