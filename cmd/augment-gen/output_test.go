package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-peyrard/augment/set"
)

func TestFindSuitableAlias(t *testing.T) {
	t.Run("it should use the last path token", func(t *testing.T) {
		// WHEN
		alias := findSuitableAlias("github.com/a-peyrard/augment/fn", set.NewWithValues[string]())

		// THEN
		assert.Equal(t, "fn", alias)
	})

	t.Run("it should prepend previous token letters on collision", func(t *testing.T) {
		// WHEN
		alias := findSuitableAlias("github.com/a-peyrard/augment/fn", set.NewWithValues("fn"))

		// THEN
		assert.Equal(t, "afn", alias)
	})

	t.Run("it should fall back to a numeric suffix when tokens are exhausted", func(t *testing.T) {
		// WHEN
		alias := findSuitableAlias("github.com/a-peyrard/augment/fn", set.NewWithValues("fn", "afn", "aafn", "gaafn", "gaafn0"))

		// THEN
		assert.Equal(t, "gaafn1", alias)
	})
}

func TestGenerateCode(t *testing.T) {
	t.Run("it should generate Declare calls for usable functions", func(t *testing.T) {
		// GIVEN
		outputPath := filepath.Join(t.TempDir(), "signatures_gen.go")
		definitions := []AugmentedDefinition{
			{
				FnName:     "Greet",
				ImportPath: "github.com/example/app/hello",
				Exported:   true,
				Params:     []string{"name", "times"},
			},
			{
				FnName:     "localHelper",
				ImportPath: "github.com/example/app",
				Exported:   false,
				Params:     []string{"a"},
			},
			{
				FnName:     "hidden",
				ImportPath: "github.com/example/app/other",
				Exported:   false,
				Params:     []string{"x"},
			},
		}

		// WHEN
		err := generateCode(&testLogger, outputPath, "app", "github.com/example/app", definitions)

		// THEN
		require.NoError(t, err)
		generated, err := os.ReadFile(outputPath)
		require.NoError(t, err)

		content := string(generated)
		assert.Contains(t, content, "// Code generated by augment-gen. DO NOT EDIT.")
		assert.Contains(t, content, "package app")
		assert.Contains(t, content, `augment "github.com/a-peyrard/augment"`)
		assert.Contains(t, content, `hello "github.com/example/app/hello"`)
		assert.Contains(t, content, `augment.Declare(hello.Greet, "name", "times")`)
		assert.Contains(t, content, `augment.Declare(localHelper, "a")`)
		assert.NotContains(t, content, "hidden")
	})

	t.Run("it should generate an empty file when nothing is found", func(t *testing.T) {
		// GIVEN
		outputPath := filepath.Join(t.TempDir(), "signatures_gen.go")

		// WHEN
		err := generateCode(&testLogger, outputPath, "app", "github.com/example/app", nil)

		// THEN
		require.NoError(t, err)
		generated, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.NotContains(t, string(generated), "import")
	})
}
