// Package icon renders CLI status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/anisan-cli/katalog/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get renders i in the configured variant, or an empty string for an unknown variant.
func Get(i Icon) string {
	return icons[i].Get()
}

// Icon identifies a symbol.
type Icon int

const (
	Lua Icon = iota
	Native
	Success
	Fail
	Warn
	Search
)

var icons = map[Icon]*iconDef{
	Lua: {
		emoji:   "🌙",
		nerd:    "\ue620",
		plain:   "Lua",
		kaomoji: "(=^･ω･^=)",
		squares: "◧",
	},
	Native: {
		emoji:   "📦",
		nerd:    "\uf487",
		plain:   "Native",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "◨",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "\uf65f ",
		plain:   "Success",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "\uf659 ",
		plain:   "Fail",
		kaomoji: "(╯°□°）╯︵ ┻━┻",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "\uf071 ",
		plain:   "Warn",
		kaomoji: "(￣ω￣;)",
		squares: "🟨",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "\uf002 ",
		plain:   "Search",
		kaomoji: "(⊙_⊙)",
		squares: "🟦",
	},
}
