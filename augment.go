// Package augment attaches declarative behavior to existing functions without
// touching their body: argument validation, argument transformation,
// before/after hooks, and attribute delegation.
//
// A function is wrapped once into a Func, together with its declared
// parameter names and an ordered list of stages; every call then flows
// through the stages, outermost first:
//
//	greet := augment.MustWrap(
//		func(name string, times int) string { ... },
//		augment.Params("name", "times"),
//		augment.EnsureArgs(augment.Rules{
//			"times": {augment.Predicate(func(v any) bool { return v.(int) > 0 }, "must be positive")},
//		}),
//	)
//	out, err := greet.Call("bob", augment.Named("times", 3))
package augment

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/a-peyrard/augment/option"
)

var (
	kwargsType = reflect.TypeOf(Kwargs(nil))
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

type (
	// Func is a wrapped function. It is immutable once built: concurrent
	// calls are safe with respect to the wrapping machinery, every call
	// binds its arguments fresh.
	Func struct {
		name   string
		target reflect.Value
		sig    *signature
		invoke Invoker
	}

	// WrapOptions collects the configuration of one Wrap call.
	WrapOptions struct {
		params    []string
		hasParams bool
		stages    []Stage
	}
)

// Params declares the parameter names of the wrapped function, in declaration
// order, excluding a trailing Kwargs catch-all.
func Params(names ...string) option.Option[WrapOptions] {
	return func(opts *WrapOptions) {
		opts.params = names
		opts.hasParams = true
	}
}

// Stages appends custom stages to the pipeline. The built-in decorations
// (EnsureArgs, TransformArgs, Enter, ...) all reduce to this.
func Stages(stages ...Stage) option.Option[WrapOptions] {
	return func(opts *WrapOptions) {
		opts.stages = append(opts.stages, stages...)
	}
}

// Wrap builds a Func around the given function. Options order is decoration
// order: the first stage declared is the outermost one.
//
// The parameter names must be supplied with Params or registered beforehand
// with Declare; variadic functions are not supported. Methods work through
// their method value (obj.Method) or method expression (Type.Method, the
// receiver then being the first declared parameter).
func Wrap(target any, opts ...option.Option[WrapOptions]) (*Func, error) {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Func {
		return nil, errors.New("target must be a function")
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("variadic functions are not supported, got %s", t)
	}

	options := option.Build(&WrapOptions{}, opts...)

	fullName := runtimeName(target)
	params := options.params
	if !options.hasParams {
		declared, found := declaredParams(target)
		onlyKwargs := t.NumIn() == 1 && t.In(0) == kwargsType
		if !found && t.NumIn() > 0 && !onlyKwargs {
			return nil, fmt.Errorf("no parameter names for %s: use the Params option or Declare (see cmd/augment-gen)", fullName)
		}
		params = declared
	}

	sig, err := newSignature(t, params)
	if err != nil {
		return nil, fmt.Errorf("invalid signature for %s:\n\t%w", fullName, err)
	}

	for _, stage := range options.stages {
		if f, ok := stage.(faulty); ok {
			if fErr := f.fault(); fErr != nil {
				return nil, fmt.Errorf("invalid stage wrapping %s:\n\t%w", fullName, fErr)
			}
		}
	}

	f := &Func{
		name:   filepath.Base(fullName),
		target: reflect.ValueOf(target),
		sig:    sig,
	}
	f.invoke = chain(f.invokeTarget, options.stages)

	return f, nil
}

// MustWrap is like Wrap but panics on configuration errors.
func MustWrap(target any, opts ...option.Option[WrapOptions]) *Func {
	f, err := Wrap(target, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to wrap function:\n\t%v", err))
	}
	return f
}

// Name returns the short name of the wrapped function.
func (f *Func) Name() string {
	return f.name
}

// Call invokes the wrapped function through the stage pipeline. Arguments are
// positional, keyword-style through Named, or a mix (positional first).
//
// The results are the function's return values; a trailing error return is
// split off and merged into Call's own error.
func (f *Func) Call(args ...any) ([]any, error) {
	call, err := f.sig.bind(f.name, args)
	if err != nil {
		return nil, err
	}
	return f.invoke(call)
}

// invokeTarget is the innermost invoker: it materializes the bound call into
// a reflective invocation of the target function.
func (f *Func) invokeTarget(call *Call) ([]any, error) {
	t := f.target.Type()

	in := make([]reflect.Value, 0, t.NumIn())
	for i, param := range f.sig.params {
		value, bound := call.declared(param)
		if !bound {
			return nil, fmt.Errorf("missing argument '%s' calling '%s'", param, f.name)
		}
		reflected, err := conform(value, t.In(i))
		if err != nil {
			return nil, fmt.Errorf("invalid argument '%s' calling '%s':\n\t%w", param, f.name, err)
		}
		in = append(in, reflected)
	}
	if f.sig.kwargs {
		in = append(in, reflect.ValueOf(call.absorbed()))
	}

	// panic recovery, as `Call` can panic on conversion edge cases
	var out []reflect.Value
	var callErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("panic calling '%s': %v", f.name, r)
			}
		}()
		out = f.target.Call(in)
	}()
	if callErr != nil {
		return nil, callErr
	}

	if t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType {
		errVal := out[t.NumOut()-1]
		out = out[:t.NumOut()-1]
		if !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}

	results := make([]any, len(out))
	for i, val := range out {
		results[i] = val.Interface()
	}
	return results, nil
}

// conform turns a bound value into a reflect.Value assignable to the
// parameter type.
func conform(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch typ.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(typ), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot pass nil as %s", typ)
		}
	}
	reflected := reflect.ValueOf(value)
	if reflected.Type().AssignableTo(typ) {
		return reflected, nil
	}
	if reflected.Type().ConvertibleTo(typ) {
		return reflected.Convert(typ), nil
	}
	return reflect.Value{}, fmt.Errorf("value of type %s is not assignable to %s", reflected.Type(), typ)
}
