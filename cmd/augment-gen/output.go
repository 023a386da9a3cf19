package main

import (
	"fmt"
	"go/format"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a-peyrard/augment/set"
	"github.com/a-peyrard/augment/slices"
)

const augmentImportPath = "github.com/a-peyrard/augment"

func generateCode(
	logger *zerolog.Logger,
	outputPath string,
	targetPackage string,
	targetImportPath string,
	definitions []AugmentedDefinition,
) error {
	usable := slices.Filter(definitions, func(d AugmentedDefinition) bool {
		if d.Exported || d.ImportPath == targetImportPath {
			return true
		}
		logger.Warn().Msgf("Skipping %s.%s: unexported and not in the target package", d.ImportPath, d.FnName)
		return false
	})
	sort.Slice(usable, func(i, j int) bool {
		if usable[i].ImportPath != usable[j].ImportPath {
			return usable[i].ImportPath < usable[j].ImportPath
		}
		return usable[i].FnName < usable[j].FnName
	})

	// resolve one alias per foreign package
	aliases := map[string]string{augmentImportPath: "augment"}
	used := set.NewWithValues("augment")
	for _, d := range usable {
		if d.ImportPath == targetImportPath {
			continue
		}
		if _, found := aliases[d.ImportPath]; found {
			continue
		}
		alias := findSuitableAlias(d.ImportPath, used)
		used.Add(alias)
		aliases[d.ImportPath] = alias
	}

	var b strings.Builder
	b.WriteString("// Code generated by augment-gen. DO NOT EDIT.\n\n")
	b.WriteString(fmt.Sprintf("package %s\n", targetPackage))
	if len(usable) == 0 {
		logger.Warn().Msg("No augmented function found, generating an empty file")
		return os.WriteFile(outputPath, []byte(b.String()), 0644)
	}
	b.WriteString("\nimport (\n")
	imports := make([]string, 0, len(aliases))
	for importPath := range aliases {
		imports = append(imports, importPath)
	}
	sort.Strings(imports)
	for _, importPath := range imports {
		b.WriteString(fmt.Sprintf("\t%s %q\n", aliases[importPath], importPath))
	}
	b.WriteString(")\n\n")
	b.WriteString("func init() {\n")
	for _, d := range usable {
		reference := d.FnName
		if d.ImportPath != targetImportPath {
			reference = aliases[d.ImportPath] + "." + d.FnName
		}
		args := slices.Map(d.Params, func(p string) string { return fmt.Sprintf("%q", p) })
		b.WriteString(fmt.Sprintf("\taugment.Declare(%s)\n", strings.Join(append([]string{reference}, args...), ", ")))
	}
	b.WriteString("}\n")

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return fmt.Errorf("failed to format generated code:\n\t%w", err)
	}

	return os.WriteFile(outputPath, formatted, 0644)
}

// findSuitableAlias derives an import alias from the last path token,
// prepending the first letter of the previous tokens on collision, then
// falling back to a numeric suffix.
func findSuitableAlias(importPath string, taken set.Set[string]) string {
	tokens := strings.Split(importPath, "/")
	alias := tokens[len(tokens)-1]
	idx := len(tokens) - 2
	for taken.Contains(alias) && idx >= 0 {
		alias = tokens[idx][:1] + alias
		idx--
	}
	if !taken.Contains(alias) {
		return alias
	}
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%s%d", alias, i)
		if !taken.Contains(candidate) {
			return candidate
		}
	}
}
