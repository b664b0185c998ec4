package errs

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Wrap adds context and preserves the error chain (errors.Is/As works).
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context and preserves the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	// Append the original err as the last arg for %w.
	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

// KindError tags a cause with a sentinel kind. errors.Is matches both the
// kind and anything in the cause's chain.
type KindError struct {
	kind  error
	cause error
}

func (e *KindError) Error() string   { return e.kind.Error() + ": " + e.cause.Error() }
func (e *KindError) Unwrap() []error { return []error{e.kind, e.cause} }
func (e *KindError) Kind() error     { return e.kind }
func (e *KindError) Cause() error    { return e.cause }

// Mark tags err with kind. An error already matching kind is returned as is.
func Mark(err error, kind error) error {
	if err == nil {
		return nil
	}
	if kind == nil || errors.Is(err, kind) {
		return err
	}
	return &KindError{kind: kind, cause: err}
}

// KindOf returns the outermost kind attached by Mark, or nil.
func KindOf(err error) error {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return nil
}

// WithStack captures a stack trace once (only at the root cause boundary).
// It can still be wrapped later with Wrap/Wrapf or Mark.
func WithStack(err error) error {
	if err == nil {
		return nil
	}

	var se *StackError
	if errors.As(err, &se) {
		return err
	}

	return &StackError{
		err:   err,
		stack: debug.Stack(),
	}
}

// StackError wraps an error and stores a stack trace.
type StackError struct {
	err   error
	stack []byte
}

func (e *StackError) Error() string { return e.err.Error() }
func (e *StackError) Unwrap() error { return e.err }
func (e *StackError) Stack() []byte { return e.stack }

// Loggable makes slog encode the error as structured fields.
// Usage: slog.Any("err", errs.Loggable(err))
func Loggable(err error) slog.LogValuer { return loggable{err: err} }

type loggable struct{ err error }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}

	attrs := []slog.Attr{
		slog.String("message", l.err.Error()),
		slog.Any("chain", ErrorChainStrings(l.err)),
	}
	if kind := KindOf(l.err); kind != nil {
		attrs = append(attrs, slog.String("kind", kind.Error()))
	}

	var se *StackError
	if errors.As(l.err, &se) {
		// Keep it as string for JSON logs.
		attrs = append(attrs, slog.String("stack", string(se.Stack())))
	}
	return slog.GroupValue(attrs...)
}

// ErrorChainStrings returns the unwrap chain as strings (outer -> inner).
// A KindError steps to its cause; its kind is reported by Loggable.
func ErrorChainStrings(err error) []string {
	if err == nil {
		return nil
	}

	out := make([]string, 0, 8)
	for e := err; e != nil; e = next(e) {
		out = append(out, e.Error())
	}
	return out
}

func next(err error) error {
	if ke, ok := err.(*KindError); ok {
		return ke.cause
	}
	return errors.Unwrap(err)
}
