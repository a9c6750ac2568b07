package extension

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// ManifestName is the file name (without extension) of a package manifest.
const ManifestName = "manifest"

var (
	// ErrInvalidManifest is returned for manifests missing required fields.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrNoManifest is returned when a directory holds no manifest file.
	ErrNoManifest = errors.New("manifest not found")
)

// Package is an unpacked extension package as handed over by the installer.
type Package struct {
	// ID is the package identifier, e.g. "eu.kanade.tachiyomi.extension.en.mangadex".
	ID string `json:"id" mapstructure:"id" jsonschema:"required"`
	// Name is the human readable package name.
	Name string `json:"name" mapstructure:"name"`
	// VersionName is the declared version; its leading components encode the library version.
	VersionName string `json:"version" mapstructure:"version" jsonschema:"required"`
	// Lang is the content language, "all" for multi-language packages.
	Lang string `json:"lang,omitempty" mapstructure:"lang"`
	// Features lists the ecosystem feature strings the package declares.
	Features []string `json:"features" mapstructure:"features"`
	// Metadata holds ecosystem specific keys such as the entry symbol.
	Metadata map[string]string `json:"metadata,omitempty" mapstructure:"metadata"`

	// Dir is the directory the package was read from.
	Dir string `json:"-" mapstructure:"-"`
}

// HasFeature reports whether the package declares the feature.
func (p *Package) HasFeature(feature string) bool {
	return feature != "" && lo.Contains(p.Features, feature)
}

// Meta returns a metadata value.
func (p *Package) Meta(key string) (string, bool) {
	value, ok := p.Metadata[key]
	return value, ok
}

// IsNSFW reports whether the metadata key flags adult content.
func (p *Package) IsNSFW(key string) bool {
	value, ok := p.Meta(key)
	if !ok {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// LibVersion returns the extension library version encoded in VersionName.
// "1.4.12" yields 1.4 and "14" yields 14; an unparsable version yields -1.
func (p *Package) LibVersion() float64 {
	version := strings.TrimPrefix(strings.TrimSpace(p.VersionName), "v")
	if strings.Count(version, ".") >= 2 {
		version = version[:strings.LastIndex(version, ".")]
	}

	parsed, err := strconv.ParseFloat(version, 64)
	if err != nil {
		return -1
	}
	return parsed
}

func (p *Package) String() string {
	return lo.CoalesceOrEmpty(p.Name, p.ID)
}

// ReadManifest reads manifest.{toml,yaml,yml,json} from dir.
func ReadManifest(fs afero.Fs, dir string) (*Package, error) {
	// metadata keys contain dots, so the default key delimiter cannot be used
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetFs(fs)
	v.SetConfigName(ManifestName)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, dir)
		}
		return nil, fmt.Errorf("read manifest in %s: %w", dir, err)
	}

	var pkg Package
	if err := v.Unmarshal(&pkg); err != nil {
		return nil, fmt.Errorf("decode manifest in %s: %w", dir, err)
	}

	if pkg.ID == "" {
		return nil, fmt.Errorf("%w: %s: missing id", ErrInvalidManifest, filepath.Join(dir, ManifestName))
	}

	// the id becomes part of global ids
	if strings.Contains(pkg.ID, ";") {
		return nil, fmt.Errorf("%w: %s: id %q contains ';'", ErrInvalidManifest, filepath.Join(dir, ManifestName), pkg.ID)
	}

	pkg.Dir = dir
	return &pkg, nil
}

// ManifestSchema returns the JSON schema of a package manifest.
func ManifestSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	return reflector.Reflect(&Package{})
}
