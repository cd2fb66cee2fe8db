package storage

import (
	"fmt"
	"io"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"gopkg.in/yaml.v3"
)

// BundleVersion is written into exported preset bundles.
const BundleVersion = 1

// Bundle is the YAML document presets are exported to and imported from.
type Bundle struct {
	Version int             `yaml:"version"`
	Presets []models.Preset `yaml:"presets"`
}

// EncodeBundle renders presets as a YAML bundle.
func EncodeBundle(presets []*models.Preset) ([]byte, error) {
	b := Bundle{Version: BundleVersion, Presets: make([]models.Preset, 0, len(presets))}
	for _, p := range presets {
		b.Presets = append(b.Presets, *p)
	}
	out, err := yaml.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding preset bundle: %w", err)
	}
	return out, nil
}

// DecodeBundle parses a YAML bundle. Ids and timestamps in the document are
// kept as read; callers importing presets assign fresh ones on Create.
func DecodeBundle(r io.Reader) ([]models.Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding preset bundle: %w", err)
	}
	if b.Version > BundleVersion {
		return nil, fmt.Errorf("preset bundle version %d is newer than supported version %d", b.Version, BundleVersion)
	}
	return b.Presets, nil
}
