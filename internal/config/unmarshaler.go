package config

import (
	"reflect"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/filescan/pkg/config"
)

// CustomDecoderConfig returns the mapstructure settings used to decode the
// merged koanf data into config.Config. Enum strings go through their Parse
// functions and durations through UnmarshalText, so unknown values fail at
// load time.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			nanosecondsHookFunc(),
			enumHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
	}
}

// nanosecondsHookFunc accepts bare TOML numbers for duration fields and reads
// them as nanoseconds.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func nanosecondsHookFunc() mapstructure.DecodeHookFunc {
	durationType := reflect.TypeFor[config.Duration]()

	return func(_, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}

		var ns int64

		switch v := data.(type) {
		case int64:
			ns = v
		case int:
			ns = int64(v)
		case float64:
			ns = int64(v)
		default:
			return data, nil
		}

		if ns < 0 {
			return nil, errors.Wrapf(config.ErrNegativeDuration, "got %s", time.Duration(ns))
		}

		return config.Duration(ns), nil
	}
}

// enumHookFunc decodes strings into the config enum types.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func enumHookFunc() mapstructure.DecodeHookFunc {
	parsers := map[reflect.Type]func(string) (any, error){
		reflect.TypeFor[config.ScanMode](): func(s string) (any, error) {
			return config.ParseScanMode(s)
		},
		reflect.TypeFor[config.OverflowPolicy](): func(s string) (any, error) {
			return config.ParseOverflowPolicy(s)
		},
		reflect.TypeFor[config.PluginType](): func(s string) (any, error) {
			return config.ParsePluginType(s)
		},
	}

	return func(from, to reflect.Type, data any) (any, error) {
		parse, ok := parsers[to]
		if !ok || from.Kind() != reflect.String {
			return data, nil
		}

		s, _ := data.(string)

		return parse(s)
	}
}
