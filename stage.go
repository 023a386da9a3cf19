package augment

type (
	// Invoker executes a bound call and returns the wrapped function results.
	Invoker func(call *Call) ([]any, error)

	// Stage decorates an Invoker, adding behavior around it. Stages are
	// chained at wrap time in option order: the first declared stage is the
	// outermost one and sees the call first.
	Stage interface {
		Apply(next Invoker) Invoker
	}

	// StageFunc adapts a function into a Stage.
	StageFunc func(next Invoker) Invoker

	// faulty is implemented by stages and constraints that can be broken at
	// configuration time; faults abort Wrap instead of surfacing per call.
	faulty interface {
		fault() error
	}
)

// Apply calls the underlying function.
func (f StageFunc) Apply(next Invoker) Invoker {
	return f(next)
}

// chain wraps the invoker with all the stages, outermost stage first.
func chain(invoker Invoker, stages []Stage) Invoker {
	for i := len(stages) - 1; i >= 0; i-- {
		invoker = stages[i].Apply(invoker)
	}
	return invoker
}
