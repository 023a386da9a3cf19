package augment

import (
	"github.com/rs/zerolog"

	"github.com/a-peyrard/augment/option"
)

type (
	// Hook is an auxiliary function invoked around a wrapped call. It
	// receives the call's arguments, never its result, and cannot alter
	// either. A returned error propagates to the caller unmodified.
	Hook func(call *Call) error

	hookStage struct {
		hook   Hook
		before bool
		after  bool
	}
)

// Enter adds a stage running the hook before the call proceeds inward. A hook
// error aborts the call before the wrapped function runs.
func Enter(hook Hook) option.Option[WrapOptions] {
	return Stages(&hookStage{hook: hook, before: true})
}

// Leave adds a stage running the hook after the wrapped function returned.
// The function result is returned unchanged; a hook error propagates even
// though the function already ran.
func Leave(hook Hook) option.Option[WrapOptions] {
	return Stages(&hookStage{hook: hook, after: true})
}

// Around adds a stage running the hook both before and after the call, each
// time with the original arguments.
func Around(hook Hook) option.Option[WrapOptions] {
	return Stages(&hookStage{hook: hook, before: true, after: true})
}

func (s *hookStage) Apply(next Invoker) Invoker {
	return func(call *Call) ([]any, error) {
		if s.before {
			if err := s.hook(call); err != nil {
				return nil, err
			}
		}
		results, err := next(call)
		if err != nil {
			return nil, err
		}
		if s.after {
			if err := s.hook(call); err != nil {
				return nil, err
			}
		}
		return results, nil
	}
}

// LogCalls adds an enter and a leave hook logging the bound arguments of
// every call at debug level.
func LogCalls(logger *zerolog.Logger) option.Option[WrapOptions] {
	return option.Group(
		Enter(logHook(logger, "entering")),
		Leave(logHook(logger, "leaving")),
	)
}

func logHook(logger *zerolog.Logger, phase string) Hook {
	return func(call *Call) error {
		logger.Debug().
			Str("fn", call.Fn()).
			Fields(call.Values()).
			Msg(phase)
		return nil
	}
}
