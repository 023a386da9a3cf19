// Package config loads configuration structs from environment variables.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/a-peyrard/augment/option"
)

type (
	// Config represents a configuration instance backed by Viper
	Config struct {
		*viper.Viper
	}

	Options struct {
		prefix string
	}
)

// WithEnvPrefix namespaces the environment variables to read, e.g. a prefix
// "AUGMENT_GEN" maps the field LogLevel to AUGMENT_GEN_LOG_LEVEL.
func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// Load unmarshals a configuration struct of type T from the environment.
// Field names follow the mapstructure tags when present.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var vT T
	bindEnvs(v, options.prefix, vT)

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return &vT, nil
}

// bindEnvs registers every leaf field with viper, as AutomaticEnv alone does
// not surface keys that were never Set.
func bindEnvs(viperI *viper.Viper, envPrefix string, myStruct any, parts ...string) {
	ifv := reflect.ValueOf(myStruct)
	ift := reflect.TypeOf(myStruct)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = t.Name
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(viperI, envPrefix, v.Interface(), append(parts, tv)...)
		default:
			key := strings.Join(append(parts, tv), ".")
			join := strings.Join(append(parts, toScreamingSnakeCase(tv)), ".")
			_ = viperI.BindEnv(key, mergeWithEnvPrefix(envPrefix, join))
		}
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}

func toScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)
	if len(in) == 0 {
		return in
	}

	sb := strings.Builder{}
	sb.Grow(len(in) + len(in)/3) // estimate space for underscores

	for i, b := range []byte(in) {
		shouldWrite := true
		needsSeparator := false

		switch {
		case 'a' <= b && b <= 'z':
			b -= 'a' - 'A' // convert to uppercase
		case 'A' <= b && b <= 'Z':
			needsSeparator = true
		case b == '_' || b == '-':
			shouldWrite = false
			needsSeparator = true
		case '0' <= b && b <= '9':
			needsSeparator = true
		}

		if i > 0 && needsSeparator {
			sb.WriteByte('_')
		}

		if shouldWrite {
			sb.WriteByte(b)
		}
	}

	return sb.String()
}
