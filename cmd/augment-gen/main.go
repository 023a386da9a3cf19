// augment-gen scans the module for functions carrying the @augmented doc tag
// and generates the augment.Declare calls exposing their parameter names,
// which Go reflection cannot recover at runtime.
//
// It is meant to be invoked through go:generate:
//
//	//go:generate go run github.com/a-peyrard/augment/cmd/augment-gen
package main

import (
	"fmt"
	"go/ast"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"github.com/a-peyrard/augment/config"
	"github.com/a-peyrard/augment/slices"
)

const augmentedAnnotationTag = "@augmented"

type (
	// Settings are read from AUGMENT_GEN_* environment variables.
	Settings struct {
		LogLevel string `mapstructure:"log_level"`
		DryRun   bool   `mapstructure:"dry_run"`
	}

	AugmentedDefinition struct {
		FnName      string
		PackageName string
		ImportPath  string
		Exported    bool
		Description string

		Params []string
		Kwargs bool
	}
)

func (d AugmentedDefinition) String() string {
	return fmt.Sprintf(
		`✨ Augmented: %s
Description: %s
Import Path: %s
Params: [%s] (kwargs: %t)`,
		d.FnName,
		d.Description,
		d.ImportPath,
		strings.Join(d.Params, ", "),
		d.Kwargs,
	)
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "."
}

func main() {
	settings, err := config.Load[Settings](config.WithEnvPrefix("AUGMENT_GEN"))
	if err != nil {
		log.Fatalf("Failed to load settings: %v\n", err)
	}

	level := zerolog.InfoLevel
	if settings.LogLevel != "" {
		if level, err = zerolog.ParseLevel(strings.ToLower(settings.LogLevel)); err != nil {
			log.Fatalf("Invalid log level %s: %v\n", settings.LogLevel, err)
		}
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	startScan := time.Now()

	// capture the target file/package, where the generator is invoked
	targetFile := os.Getenv("GOFILE")
	targetPackage := os.Getenv("GOPACKAGE")
	currentDir, _ := os.Getwd()
	targetFilePath := filepath.Join(currentDir, targetFile)

	// switch to the root of the module as we want to scan the whole module
	moduleRoot := findModuleRoot()
	if err = os.Chdir(moduleRoot); err != nil {
		log.Fatalf("Failed to change directory to module root: %v\n", err)
	}

	cfg := &packages.Config{
		Mode: packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, _ := packages.Load(cfg, "./...")

	var definitions []AugmentedDefinition
	var targetImportPath string
	for _, pkg := range pkgs {
		logger := logger.With().Str("package", pkg.ID).Logger()
		logger.Debug().Msg("Scanning package")
		for _, file := range pkg.Syntax {
			filePath := pkg.Fset.Position(file.Pos()).Filename
			if filePath == targetFilePath {
				targetImportPath = pkg.ID
			}

			ast.Inspect(file, func(n ast.Node) bool {
				fn, ok := n.(*ast.FuncDecl)
				if !ok {
					return true
				}
				if fn.Recv != nil || fn.Doc == nil || !strings.Contains(fn.Doc.Text(), augmentedAnnotationTag) {
					return true
				}

				logger := logger.With().Str("fn", fn.Name.Name).Logger()
				logger.Debug().Msg("=> Found augmented function")

				annotation := parseAugmentedAnnotation(&logger, fn.Doc.Text())
				params, kwargs := extractParams(fn)
				if declared, found := annotation.Params(); found {
					params = declared
				}

				definitions = append(definitions, AugmentedDefinition{
					FnName:      fn.Name.Name,
					PackageName: file.Name.Name,
					ImportPath:  pkg.ID,
					Exported:    fn.Name.IsExported(),
					Description: annotation.description,
					Params:      params,
					Kwargs:      kwargs,
				})
				return true
			})
		}
	}

	stopScan := time.Now()

	logger.Info().Msgf("🎯 %d augmented function(s) found in the module", len(definitions))
	definitionsLogs := slices.Map(definitions, AugmentedDefinition.String)
	logger.Debug().Msgf("Definitions:\n%s", strings.Join(definitionsLogs, "\n----\n"))
	logger.Info().Msgf("🕵️ Scanning completed in %s", stopScan.Sub(startScan))

	outputPath := filepath.Join(
		filepath.Dir(targetFilePath),
		strings.TrimSuffix(filepath.Base(targetFilePath), ".go")+"_gen.go",
	)
	if settings.DryRun {
		outputPath = filepath.Join("/tmp", filepath.Base(outputPath))
	}

	err = generateCode(&logger, outputPath, targetPackage, targetImportPath, definitions)
	if err != nil {
		logger.Error().Err(err).Msgf("Failed to generate code in %s", outputPath)
		os.Exit(1)
	}
	logger.Info().Msgf("✅ Code generated successfully in %s", outputPath)
}

// extractParams reads the declared parameter names from the AST, leaving out
// a trailing augment.Kwargs catch-all.
func extractParams(fn *ast.FuncDecl) (params []string, kwargs bool) {
	if fn.Type.Params == nil {
		return nil, false
	}
	fields := fn.Type.Params.List
	for i, field := range fields {
		if i == len(fields)-1 && isKwargsType(field.Type) {
			kwargs = true
			break
		}
		for _, name := range field.Names {
			params = append(params, name.Name)
		}
	}
	return params, kwargs
}

func isKwargsType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		return t.Sel.Name == "Kwargs"
	case *ast.Ident:
		return t.Name == "Kwargs"
	}
	return false
}
