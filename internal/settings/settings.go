// Package settings loads an mlogger.Config from layered sources.
//
// Precedence, lowest to highest:
//  1. mlogger.DefaultConfig
//  2. an optional YAML file
//  3. MLOGGER_* environment variables (MLOGGER_MAX_FILES -> max_files)
//  4. overrides supplied by the caller, typically command-line flags
package settings

import (
	"strings"

	mlogger "github.com/Furry-Monster/MLogger"
	"github.com/Station-Manager/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables read by Load.
const EnvPrefix = "MLOGGER_"

// Override adjusts the loaded configuration before it is validated.
type Override func(*mlogger.Config)

// Load builds and validates a Config. path may be empty to skip the file
// layer.
func Load(path string, overrides ...Override) (mlogger.Config, error) {
	const op errors.Op = "settings.Load"
	k := koanf.New(".")

	defaults := mlogger.DefaultConfig("")
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return mlogger.Config{}, errors.New(op).Err(err).Msg("failed to load defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return mlogger.Config{}, errors.New(op).Err(err).Msg("failed to load config file " + path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return mlogger.Config{}, errors.New(op).Err(err).Msg("failed to load environment variables")
	}

	var cfg mlogger.Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return mlogger.Config{}, errors.New(op).Err(err).Msg("failed to unmarshal configuration")
	}

	for _, o := range overrides {
		o(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return mlogger.Config{}, err
	}
	return cfg, nil
}

// envTransformFunc maps MLOGGER_MAX_FILE_SIZE to max_file_size.
func envTransformFunc(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
}
