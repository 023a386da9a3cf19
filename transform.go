package augment

import (
	"github.com/a-peyrard/augment/fn"
	"github.com/a-peyrard/augment/option"
)

type (
	// Transforms associates argument names with a rewrite applied to the
	// bound value before the call proceeds inward.
	Transforms map[string]fn.Mapper[any]

	transformStage struct {
		transforms Transforms
	}
)

// TransformArgs adds a stage rewriting the named arguments of the call.
// Stages declared deeper (closer to the function) observe the transformed
// values, stages declared before this one observe the original values.
// Arguments named in the transforms but not supplied are left alone.
func TransformArgs(transforms Transforms) option.Option[WrapOptions] {
	return Stages(&transformStage{transforms: transforms})
}

func (s *transformStage) Apply(next Invoker) Invoker {
	return func(call *Call) ([]any, error) {
		for name, transform := range s.transforms {
			if value, bound := call.Value(name); bound {
				call.setValue(name, transform(value))
			}
		}
		return next(call)
	}
}
