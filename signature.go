package augment

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/a-peyrard/augment/set"
)

type (
	// signature is the declared-parameter-name table of a wrapped function.
	//
	// Go reflection does not expose parameter names, so the table is supplied
	// at wrap time (Params option), registered beforehand (Declare, typically
	// from code generated by cmd/augment-gen), and validated against the
	// function type.
	signature struct {
		params []string
		kwargs bool // the function declares a trailing Kwargs catch-all
	}
)

func newSignature(fnType reflect.Type, params []string) (*signature, error) {
	kwargs := fnType.NumIn() > 0 && fnType.In(fnType.NumIn()-1) == kwargsType

	expected := fnType.NumIn()
	if kwargs {
		expected--
	}
	if len(params) != expected {
		return nil, fmt.Errorf("declared %d parameter name(s) %v but the function takes %d (plus kwargs: %t)",
			len(params), params, expected, kwargs)
	}
	seen := set.New[string]()
	for _, param := range params {
		if param == "" {
			return nil, fmt.Errorf("parameter names cannot be empty, got %v", params)
		}
		if seen.Contains(param) {
			return nil, fmt.Errorf("duplicated parameter name %s in %v", param, params)
		}
		seen.Add(param)
	}

	return &signature{params: params, kwargs: kwargs}, nil
}

// bind resolves the actual arguments of one call against the declared
// parameter names. It is recomputed for every call, never cached.
func (s *signature) bind(fnName string, args []any) (*Call, error) {
	call := &Call{fn: fnName}

	index := s.index()
	positional := 0
	sawNamed := false
	for _, arg := range args {
		named, isNamed := arg.(NamedArg)
		if !isNamed {
			if sawNamed {
				return nil, fmt.Errorf("positional argument after named argument calling '%s'", fnName)
			}
			if positional >= len(s.params) {
				return nil, fmt.Errorf("too many positional arguments calling '%s': takes %d, got at least %d",
					fnName, len(s.params), positional+1)
			}
			call.bindings = append(call.bindings, binding{name: s.params[positional], value: arg})
			positional++
			continue
		}

		sawNamed = true
		if _, bound := call.Value(named.Name); bound {
			return nil, fmt.Errorf("argument '%s' given twice calling '%s'", named.Name, fnName)
		}
		if index.Contains(named.Name) {
			call.bindings = append(call.bindings, binding{name: named.Name, value: named.Value, byName: true})
			continue
		}
		if !s.kwargs {
			return nil, fmt.Errorf("unknown argument '%s' calling '%s', declared parameters are %v",
				named.Name, fnName, s.params)
		}
		call.bindings = append(call.bindings, binding{name: named.Name, value: named.Value, byName: true, absorbed: true})
	}

	return call, nil
}

func (s *signature) index() set.Set[string] {
	return set.NewWithValues(s.params...)
}

// -------------------------------------- signature registry --------------------------------------

// The registry maps runtime function names to declared parameter names. It is
// written at init time (generated code) and read by Wrap; a single RWMutex is
// enough, there is no per-call state here.
var registry = struct {
	sync.RWMutex
	params map[string][]string
}{params: make(map[string][]string)}

// Declare registers the parameter names of a function so Wrap can be used on
// it without the Params option. This is what cmd/augment-gen emits for
// functions carrying the @augmented tag.
func Declare(fn any, params ...string) {
	name := runtimeName(fn)
	registry.Lock()
	defer registry.Unlock()
	registry.params[name] = params
}

func declaredParams(fn any) ([]string, bool) {
	registry.RLock()
	defer registry.RUnlock()
	params, found := registry.params[runtimeName(fn)]
	return params, found
}

func runtimeName(fn any) string {
	return runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
}
