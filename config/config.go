package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys to environment variable suffixes.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// durations lists string fields that must parse with time.ParseDuration.
var durations = []string{key.ScriptCallTimeout, key.CacheTTL}

// Setup binds the environment, applies defaults and reads katalog.toml from where.Config().
// A missing file is not an error.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Katalog)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Katalog)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.SetTypeByDefaultValue(true)

	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	err := viper.ReadInConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		return nil
	}
	return err
}

// Parse converts raw command-line input to the type of the field's default value.
func (f Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no value given", f.Key)
	}

	switch f.Value.(type) {
	case []string:
		return raw, nil
	case []int:
		ints := make([]int, len(raw))
		for i, s := range raw {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, err
			}
			ints[i] = n
		}
		return ints, nil
	case int:
		return strconv.Atoi(raw[0])
	case bool:
		return strconv.ParseBool(raw[0])
	}

	if lo.Contains(durations, f.Key) {
		if _, err := time.ParseDuration(raw[0]); err != nil {
			return nil, err
		}
	}
	return raw[0], nil
}
