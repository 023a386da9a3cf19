package augment

import (
	"fmt"
	"sort"

	"github.com/a-peyrard/augment/fn"
	"github.com/a-peyrard/augment/option"
)

type (
	// EnsureOptions tunes the behavior of EnsureArgs and EnsureOneOf.
	EnsureOptions struct {
		handler   fn.Consumer[*ValidationError]
		exclusive bool
	}

	ensureArgsStage struct {
		rules   Rules
		options *EnsureOptions
	}

	ensureOneOfStage struct {
		rules   Rules
		options *EnsureOptions
	}
)

// OnViolation routes the validation aggregate to the given handler instead of
// failing the call. The wrapped function is not called either way.
func OnViolation(handler fn.Consumer[*ValidationError]) option.Option[EnsureOptions] {
	return func(opts *EnsureOptions) {
		opts.handler = handler
	}
}

// Exclusive makes EnsureOneOf require exactly one satisfied constraint
// instead of at least one. It has no effect on EnsureArgs.
func Exclusive() option.Option[EnsureOptions] {
	return func(opts *EnsureOptions) {
		opts.exclusive = true
	}
}

// EnsureArgs adds a validation stage checking every supplied argument against
// its declared constraints, and failing the call with a ValidationError
// aggregating all the violations. Arguments named in the rules but not
// supplied by the call are simply not checked.
func EnsureArgs(rules Rules, opts ...option.Option[EnsureOptions]) option.Option[WrapOptions] {
	return Stages(&ensureArgsStage{rules: rules, options: option.Build(&EnsureOptions{}, opts...)})
}

// EnsureOneOf adds a validation stage requiring at least one (exactly one
// with Exclusive) of the named constraints to be satisfied.
func EnsureOneOf(rules Rules, opts ...option.Option[EnsureOptions]) option.Option[WrapOptions] {
	return Stages(&ensureOneOfStage{rules: rules, options: option.Build(&EnsureOptions{}, opts...)})
}

func (s *ensureArgsStage) Apply(next Invoker) Invoker {
	return func(call *Call) ([]any, error) {
		violations := make(map[string][]string)
		failing := false
		for name, constraints := range s.rules {
			value, bound := call.Value(name)
			if !bound {
				continue
			}
			messages, err := evaluateAll(call, name, value, constraints)
			if err != nil {
				return nil, err
			}
			violations[name] = messages
			if len(messages) > 0 {
				failing = true
			}
		}

		if !failing {
			return next(call)
		}
		return s.options.propagate(&ValidationError{Fn: call.Fn(), Violations: violations})
	}
}

func (s *ensureArgsStage) fault() error {
	return s.rules.fault()
}

func (s *ensureOneOfStage) Apply(next Invoker) Invoker {
	return func(call *Call) ([]any, error) {
		var satisfied []string
		violations := make(map[string][]string)
		for name, constraints := range s.rules {
			value, bound := call.Value(name)
			if !bound {
				// an absent argument counts as not satisfied, but has no
				// value to produce a message for
				continue
			}
			messages, err := evaluateAll(call, name, value, constraints)
			if err != nil {
				return nil, err
			}
			violations[name] = messages
			if len(messages) == 0 {
				satisfied = append(satisfied, name)
			}
		}

		if len(satisfied) == 0 {
			return s.options.propagate(&ValidationError{Fn: call.Fn(), Violations: violations})
		}
		if s.options.exclusive && len(satisfied) > 1 {
			sort.Strings(satisfied)
			return s.options.propagate(&ValidationError{
				Fn:         call.Fn(),
				Violations: make(map[string][]string),
				Surplus:    true,
				Satisfied:  satisfied,
			})
		}
		return next(call)
	}
}

func (s *ensureOneOfStage) fault() error {
	return s.rules.fault()
}

// evaluateAll runs every constraint of one argument, returning the ordered
// failure messages. A broken constraint aborts with a fatal error.
func evaluateAll(call *Call, name string, value any, constraints []Constraint) ([]string, error) {
	messages := make([]string, 0, len(constraints))
	for _, constraint := range constraints {
		ok, message, err := constraint.Evaluate(value)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate constraint on argument %s of '%s':\n\t%w", name, call.Fn(), err)
		}
		if !ok {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

// propagate hands the aggregate to the configured handler, or fails the call
// with it. The wrapped function is not called in either case.
func (o *EnsureOptions) propagate(vErr *ValidationError) ([]any, error) {
	if o.handler != nil {
		o.handler(vErr)
		return nil, nil
	}
	return nil, vErr
}
