package metascene

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Default soft limits. They match the fixed array sizes the scene graph has
// always been tuned for.
const (
	DefaultMaxGroupChildren  = 70
	DefaultMaxMaterialLayers = 4
	DefaultMaxMipmaps        = 6
	DefaultMaxStateDepth     = 20
	DefaultMaxRefCount       = 1000000
)

// Config holds the tunables of a Registry. The zero value is valid; unset
// fields take their defaults in NewRegistry.
type Config struct {
	// MaxGroupChildren bounds the number of children in one Group.
	MaxGroupChildren int `toml:"max_group_children"`
	// MaxMaterialLayers bounds the number of materials on one Geometry.
	MaxMaterialLayers int `toml:"max_material_layers"`
	// MaxMipmaps bounds the number of texture levels on one Material.
	MaxMipmaps int `toml:"max_mipmaps"`
	// MaxStateDepth bounds the render state stack.
	MaxStateDepth int `toml:"max_state_depth"`
	// MaxRefCount is a sanity ceiling; a count above it is treated as corruption.
	MaxRefCount int `toml:"max_ref_count"`
	// Gamma is the display gamma applied to diffuse colors and uploaded
	// texels. Zero or one disables correction.
	Gamma float64 `toml:"gamma"`
	// Debug enables per-frame stats logging and group nesting checks.
	Debug bool `toml:"debug"`

	// Logger receives fatal reports, leak reports and debug stats.
	// Defaults to slog.Default().
	Logger *slog.Logger `toml:"-"`
	// OnFatal, when set, is called with every structural error before the
	// registry panics. Frame drivers typically pass ExitOnFatal.
	OnFatal func(error) `toml:"-"`
}

// withDefaults returns a copy of c with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.MaxGroupChildren <= 0 {
		c.MaxGroupChildren = DefaultMaxGroupChildren
	}
	if c.MaxMaterialLayers <= 0 {
		c.MaxMaterialLayers = DefaultMaxMaterialLayers
	}
	if c.MaxMipmaps <= 0 {
		c.MaxMipmaps = DefaultMaxMipmaps
	}
	if c.MaxStateDepth <= 0 {
		c.MaxStateDepth = DefaultMaxStateDepth
	}
	if c.MaxRefCount <= 0 {
		c.MaxRefCount = DefaultMaxRefCount
	}
	if c.Gamma <= 0 {
		c.Gamma = 1
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// ParseConfig decodes TOML config data. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
