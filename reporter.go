package mlogger

import (
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// ErrorCallback receives failures that the manager could not return to the
// caller. function names the operation that failed (see the Func* constants).
type ErrorCallback func(message, function string)

// errorReporter routes reports to the registered callback, or to the
// diagnostics logger when there is none or the callback panics.
type errorReporter struct {
	callback atomic.Pointer[ErrorCallback]
	fallback zerolog.Logger
	counted  func(function string)
}

func newErrorReporter(fallback zerolog.Logger, counted func(string)) *errorReporter {
	return &errorReporter{fallback: fallback, counted: counted}
}

func (r *errorReporter) setCallback(cb ErrorCallback) {
	if cb == nil {
		r.callback.Store(nil)
		return
	}
	r.callback.Store(&cb)
}

func (r *errorReporter) report(function, message string) {
	if r.counted != nil {
		r.counted(function)
	}
	if r.invoke(function, message) {
		return
	}
	r.fallbackEvent(function).Msg(message)
}

// reportErr flattens err into "outer -> ... -> root" before reporting it.
// The fallback path keeps the operation chain as separate fields.
func (r *errorReporter) reportErr(function string, err error) {
	if err == nil {
		return
	}
	chain, ops, _, rootOp := buildErrorChain(err)
	message := joinChain(chain)

	if r.counted != nil {
		r.counted(function)
	}
	if r.invoke(function, message) {
		return
	}
	ev := r.fallbackEvent(function).Strs("error_ops", ops)
	if rootOp != emptyString {
		ev = ev.Str("error_root_op", rootOp)
	}
	ev.Msg(message)
}

// invoke reports whether a callback was present and returned normally.
func (r *errorReporter) invoke(function, message string) (ok bool) {
	cb := r.callback.Load()
	if cb == nil || *cb == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			r.fallback.Warn().Str(functionFieldName, function).Interface("panic", rec).Msg("error callback panicked")
		}
	}()
	(*cb)(message, function)
	return true
}

func (r *errorReporter) fallbackEvent(function string) *zerolog.Event {
	return r.fallback.Error().Str(functionFieldName, function)
}
