package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/anisan-cli/katalog/color"
	"github.com/anisan-cli/katalog/constant"
	"github.com/anisan-cli/katalog/style"
	"github.com/spf13/viper"
)

// Field is a registered configuration key with its default value.
// The default's dynamic type is the type viper coerces the key to.
type Field struct {
	Key         string
	Value       any
	Description string
}

// TypeName names the type of the default value, e.g. "int" or "[]string".
func (f Field) TypeName() string {
	return fmt.Sprintf("%T", f.Value)
}

// Env returns the environment variable bound to the key.
func (f Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Katalog) + "_"
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Pretty renders the description followed by key, env, current value, default and type.
func (f Field) Pretty() string {
	label := style.Fg(color.Blue)
	rows := [][2]string{
		{"Key", style.Fg(color.Key)(f.Key)},
		{"Env", f.Env()},
		{"Value", highlight(viper.Get(f.Key))},
		{"Default", highlight(f.Value)},
		{"Type", f.TypeName()},
	}

	var b strings.Builder
	b.WriteString(style.Faint(f.Description))
	for _, row := range rows {
		fmt.Fprintf(&b, "\n%s %s", label(fmt.Sprintf("%-8s", row[0]+":")), row[1])
	}
	return b.String()
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Success)(strconv.FormatBool(value))
		}
		return style.Fg(color.Failure)(strconv.FormatBool(value))
	case string:
		if value == "" {
			return style.Faint(`""`)
		}
		return style.Fg(color.Value)(value)
	default:
		return fmt.Sprint(value)
	}
}

// MarshalJSON reports the current value next to the default.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Env         string `json:"env"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.TypeName(),
		Env:         f.Env(),
	})
}
