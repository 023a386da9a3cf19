package main

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a-peyrard/augment/slices"
)

type AugmentedAnnotation struct {
	logger      *zerolog.Logger
	description string
	properties  map[string]string
}

// Params returns the parameter names overridden in the annotation, e.g.
// `@augmented params="a,b,c"`. When absent, the names come from the AST.
func (a AugmentedAnnotation) Params() (params []string, found bool) {
	raw, found := a.properties["params"]
	if !found {
		return nil, false
	}
	params = slices.Map(strings.Split(raw, ","), strings.TrimSpace)
	params = slices.Filter(params, func(p string) bool { return p != "" })
	if len(params) == 0 {
		a.logger.Warn().Msgf("Empty params property: %q, ignoring it", raw)
		return nil, false
	}
	return params, true
}

var knownProperties = []string{"params"}

func (a AugmentedAnnotation) UnknownProperties() []string {
	var unknown []string
	for key := range a.properties {
		if !contains(knownProperties, key) {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

func parseAugmentedAnnotation(logger *zerolog.Logger, docText string) AugmentedAnnotation {
	lines := strings.Split(docText, "\n")

	var descriptionLines []string
	var annotationLine string

	// separate @augmented line from description
	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, augmentedAnnotationTag) {
			annotationLine = line
		} else if line != "" && !strings.HasPrefix(line, "@") {
			descriptionLines = append(descriptionLines, line)
		}
	}

	return AugmentedAnnotation{
		logger:      logger,
		description: strings.TrimSpace(strings.Join(descriptionLines, "\n")),
		properties:  parseProperties(annotationLine, augmentedAnnotationTag),
	}
}

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	if line == "" {
		return properties
	}

	// remove the "@augmented" prefix
	content := strings.TrimPrefix(line, tag)
	content = strings.TrimSpace(content)

	if content == "" {
		return properties
	}

	// regex to match key=value or key="value" patterns
	re := regexp.MustCompile(`(\w+)=(?:"([^"]*)"|(\w+))`)
	matches := re.FindAllStringSubmatch(content, -1)

	for _, match := range matches {
		key := match[1]
		// match[2] is quoted value, match[3] is unquoted value
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}

	return properties
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
