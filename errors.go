package augment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/a-peyrard/augment/slices"
)

var (
	// ErrMalformedConstraint reports a constraint that is itself broken
	// (a checked predicate returned an error, or a pattern did not compile).
	// It is always fatal and never ends up in a ValidationError.
	ErrMalformedConstraint = errors.New("malformed constraint")

	// ErrNoSuchAttribute reports a failed attribute resolution, whether the
	// attribute was outside the delegated set or simply does not exist.
	ErrNoSuchAttribute = errors.New("no such attribute")
)

type (
	// ValidationError aggregates every constraint violation of a single call.
	//
	// Violations maps argument names to their ordered violation messages. An
	// argument that was checked and passed is present with an empty slice, an
	// argument without declared constraints (or not supplied) is absent.
	ValidationError struct {
		// Fn is the name of the wrapped function the call was addressed to.
		Fn string

		Violations map[string][]string

		// Surplus is set when an exclusive one-of validation found more than
		// one satisfied constraint. Satisfied then lists the satisfied
		// argument names, and Violations carries no messages.
		Surplus   bool
		Satisfied []string
	}
)

func (e *ValidationError) Error() string {
	if e.Surplus {
		return fmt.Sprintf("errors in '%s': only one of %v must validate, %d did", e.Fn, e.Satisfied, len(e.Satisfied))
	}

	failed := e.Failed()
	parts := slices.Map(failed, func(name string) string {
		messages := slices.Filter(e.Violations[name], func(m string) bool { return m != "" })
		if len(messages) == 0 {
			return fmt.Sprintf("'%s' violates constraint", name)
		}
		return fmt.Sprintf("'%s' %s", name, strings.Join(messages, ", "))
	})
	return fmt.Sprintf("errors in '%s': %s", e.Fn, strings.Join(parts, "; "))
}

// Failed returns the names of the arguments having at least one violation, sorted.
func (e *ValidationError) Failed() []string {
	failed := make([]string, 0, len(e.Violations))
	for name, messages := range e.Violations {
		if len(messages) > 0 {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}
