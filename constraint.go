package augment

import (
	"fmt"
	"regexp"

	"github.com/a-peyrard/augment/fn"
)

type (
	// Constraint decides whether a single argument value is acceptable.
	Constraint interface {
		// Evaluate returns whether the value passes, with the declared
		// failure message when it does not. Evaluation is pure: a given
		// (value, constraint) pair always yields the same result.
		//
		// A non-nil error means the constraint itself is broken; it aborts
		// the call and is never aggregated into a ValidationError.
		Evaluate(value any) (ok bool, message string, err error)
	}

	// Rules associates argument names with their constraints. An argument can
	// carry several constraints, evaluated in order.
	Rules map[string][]Constraint

	predicateConstraint struct {
		predicate fn.Predicate[any]
		message   string
	}

	checkedConstraint struct {
		predicate fn.CheckedPredicate[any]
		message   string
	}

	patternConstraint struct {
		expr       string
		re         *regexp.Regexp
		message    string
		compileErr error
	}
)

// Predicate builds a constraint from a predicate function. The message may be
// empty; the failure then contributes an empty message to the aggregate.
func Predicate(predicate fn.Predicate[any], message string) Constraint {
	return predicateConstraint{predicate: predicate, message: message}
}

// Check builds a constraint from a predicate that can itself fail. A returned
// error is treated as a malformed constraint, fatal for the whole call.
func Check(predicate fn.CheckedPredicate[any], message string) Constraint {
	return checkedConstraint{predicate: predicate, message: message}
}

// Pattern builds a constraint matching the stringified value against the
// given regular expression, anchored at the start of the string. A
// non-compiling expression is reported at wrap time.
func Pattern(expr string, message string) Constraint {
	re, err := regexp.Compile(`\A(?:` + expr + `)`)
	if err != nil {
		return patternConstraint{expr: expr, message: message, compileErr: err}
	}
	return patternConstraint{expr: expr, re: re, message: message}
}

func (c predicateConstraint) Evaluate(value any) (bool, string, error) {
	if c.predicate(value) {
		return true, "", nil
	}
	return false, c.message, nil
}

func (c predicateConstraint) String() string {
	return fmt.Sprintf("<predicate %q>", c.message)
}

func (c checkedConstraint) Evaluate(value any) (bool, string, error) {
	ok, err := c.predicate(value)
	if err != nil {
		return false, "", fmt.Errorf("%w: predicate failed on value %v: %w", ErrMalformedConstraint, value, err)
	}
	if ok {
		return true, "", nil
	}
	return false, c.message, nil
}

func (c checkedConstraint) String() string {
	return fmt.Sprintf("<checked predicate %q>", c.message)
}

func (c patternConstraint) Evaluate(value any) (bool, string, error) {
	if c.compileErr != nil {
		return false, "", c.fault()
	}
	if c.re.MatchString(fmt.Sprint(value)) {
		return true, "", nil
	}
	return false, c.message, nil
}

func (c patternConstraint) fault() error {
	if c.compileErr != nil {
		return fmt.Errorf("%w: pattern %q does not compile: %w", ErrMalformedConstraint, c.expr, c.compileErr)
	}
	return nil
}

func (c patternConstraint) String() string {
	return fmt.Sprintf("<pattern %q>", c.expr)
}

// fault reports the first broken constraint of the rules, if any.
func (r Rules) fault() error {
	for name, constraints := range r {
		for _, constraint := range constraints {
			if f, ok := constraint.(faulty); ok {
				if err := f.fault(); err != nil {
					return fmt.Errorf("invalid constraint on argument %s:\n\t%w", name, err)
				}
			}
		}
	}
	return nil
}
