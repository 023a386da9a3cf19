package augment

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func add(a int, b int) int {
	return a + b
}

func describe(name string, extra Kwargs) string {
	out := name
	if suffix, found := extra["suffix"]; found {
		out += suffix.(string)
	}
	return out
}

func TestWrap(t *testing.T) {
	t.Run("it should reject non function targets", func(t *testing.T) {
		// GIVEN
		notAFunction := "this is not a function"

		// WHEN
		f, err := Wrap(notAFunction)

		// THEN
		require.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "target must be a function")
	})

	t.Run("it should reject variadic functions", func(t *testing.T) {
		// GIVEN
		variadic := func(values ...int) int { return len(values) }

		// WHEN
		f, err := Wrap(variadic, Params("values"))

		// THEN
		require.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "variadic functions are not supported")
	})

	t.Run("it should require parameter names when the function has parameters", func(t *testing.T) {
		// WHEN
		f, err := Wrap(func(a int) int { return a })

		// THEN
		require.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "no parameter names")
	})

	t.Run("it should reject a parameter name count not matching the function", func(t *testing.T) {
		// WHEN
		f, err := Wrap(add, Params("a"))

		// THEN
		require.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "but the function takes 2")
	})

	t.Run("it should reject duplicated parameter names", func(t *testing.T) {
		// WHEN
		f, err := Wrap(add, Params("a", "a"))

		// THEN
		require.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "duplicated parameter name")
	})

	t.Run("it should surface a non compiling pattern at wrap time", func(t *testing.T) {
		// GIVEN
		rules := Rules{"a": {Pattern(`[`, "must match")}}

		// WHEN
		f, err := Wrap(add, Params("a", "b"), EnsureArgs(rules))

		// THEN
		require.Error(t, err)
		assert.Nil(t, f)
		assert.ErrorIs(t, err, ErrMalformedConstraint)
	})

	t.Run("it should wrap a function without parameters", func(t *testing.T) {
		// GIVEN
		f := MustWrap(func() string { return "hello" })

		// WHEN
		results, err := f.Call()

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{"hello"}, results)
	})

	t.Run("it should use declared signatures from the registry", func(t *testing.T) {
		// GIVEN
		Declare(add, "a", "b")

		// WHEN
		f, err := Wrap(add)

		// THEN
		require.NoError(t, err)
		results, err := f.Call(1, Named("b", 2))
		require.NoError(t, err)
		assert.Equal(t, []any{3}, results)
	})
}

func TestFuncCall(t *testing.T) {
	f := MustWrap(add, Params("a", "b"))

	t.Run("it should call with positional arguments", func(t *testing.T) {
		// WHEN
		results, err := f.Call(1, 2)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{3}, results)
	})

	t.Run("it should call with named arguments in any order", func(t *testing.T) {
		// WHEN
		results, err := f.Call(Named("b", 2), Named("a", 1))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{3}, results)
	})

	t.Run("it should mix positional and named arguments", func(t *testing.T) {
		// WHEN
		results, err := f.Call(1, Named("b", 2))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{3}, results)
	})

	t.Run("it should reject positional arguments after named ones", func(t *testing.T) {
		// WHEN
		_, err := f.Call(Named("a", 1), 2)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positional argument after named argument")
	})

	t.Run("it should reject too many positional arguments", func(t *testing.T) {
		// WHEN
		_, err := f.Call(1, 2, 3)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too many positional arguments")
	})

	t.Run("it should reject an argument given twice", func(t *testing.T) {
		// WHEN
		_, err := f.Call(1, Named("a", 1))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "given twice")
	})

	t.Run("it should reject an unknown named argument", func(t *testing.T) {
		// WHEN
		_, err := f.Call(1, Named("nope", 2))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown argument 'nope'")
	})

	t.Run("it should report a missing argument when invoking", func(t *testing.T) {
		// WHEN
		_, err := f.Call(1)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing argument 'b'")
	})

	t.Run("it should absorb undeclared named arguments into kwargs", func(t *testing.T) {
		// GIVEN
		g := MustWrap(describe, Params("name"))

		// WHEN
		results, err := g.Call("bob", Named("suffix", "!"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{"bob!"}, results)
	})

	t.Run("it should pass an empty kwargs bucket when none are supplied", func(t *testing.T) {
		// GIVEN
		g := MustWrap(describe, Params("name"))

		// WHEN
		results, err := g.Call("bob")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{"bob"}, results)
	})

	t.Run("it should split a trailing error return", func(t *testing.T) {
		// GIVEN
		boom := errors.New("boom")
		g := MustWrap(func(fail bool) (string, error) {
			if fail {
				return "", boom
			}
			return "ok", nil
		}, Params("fail"))

		// WHEN
		results, err := g.Call(true)

		// THEN
		require.ErrorIs(t, err, boom)
		assert.Nil(t, results)

		// WHEN
		results, err = g.Call(false)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{"ok"}, results)
	})

	t.Run("it should work on method values", func(t *testing.T) {
		// GIVEN
		counter := &counter{}
		g := MustWrap(counter.Incr, Params("by"))

		// WHEN
		_, err := g.Call(2)
		require.NoError(t, err)
		_, err = g.Call(Named("by", 3))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, int64(5), counter.value.Load())
	})

	t.Run("it should be safe to call concurrently", func(t *testing.T) {
		// GIVEN
		total := atomic.Int64{}
		g := MustWrap(
			func(by int) { total.Add(int64(by)) },
			Params("by"),
			EnsureArgs(Rules{
				"by": {Predicate(func(v any) bool { return v.(int) > 0 }, "must be positive")},
			}),
			TransformArgs(Transforms{"by": func(v any) any { return v.(int) * 2 }}),
		)

		// WHEN
		var group errgroup.Group
		for i := 0; i < 100; i++ {
			group.Go(func() error {
				_, err := g.Call(1)
				return err
			})
		}

		// THEN
		require.NoError(t, group.Wait())
		assert.Equal(t, int64(200), total.Load())
	})

	t.Run("it should accept custom stages", func(t *testing.T) {
		// GIVEN a stage doubling the first result
		doubling := StageFunc(func(next Invoker) Invoker {
			return func(call *Call) ([]any, error) {
				results, err := next(call)
				if err != nil {
					return nil, err
				}
				results[0] = results[0].(int) * 2
				return results, nil
			}
		})
		g := MustWrap(add, Params("a", "b"), Stages(doubling))

		// WHEN
		results, err := g.Call(1, 2)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{6}, results)
	})

	t.Run("it should be deterministic across repeated identical calls", func(t *testing.T) {
		// GIVEN
		g := MustWrap(add, Params("a", "b"),
			TransformArgs(Transforms{"a": func(v any) any { return v.(int) * v.(int) }}),
		)

		// WHEN / THEN
		for i := 0; i < 3; i++ {
			results, err := g.Call(3, 1)
			require.NoError(t, err)
			assert.Equal(t, []any{10}, results)
		}
	})
}

type counter struct {
	value atomic.Int64
}

func (c *counter) Incr(by int) {
	c.value.Add(int64(by))
}
