package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/climate-spiral/internal/domain"
	"gopkg.in/yaml.v3"
)

// LayoutPresets is the optional LAYOUT_FILE document. Any section present
// replaces the corresponding environment-derived layout.
//
//	ring:
//	  zero_radius: 225
//	  follow_ring: true
//	helix:
//	  zero_radius: 10
//	  spiral_height: 50
//	  scheme: radial
type LayoutPresets struct {
	Ring  *domain.RingLayout  `yaml:"ring"`
	Helix *domain.HelixLayout `yaml:"helix"`
}

// LoadLayouts reads and decodes a layout preset file.
func LoadLayouts(path string) (*LayoutPresets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}

	var presets LayoutPresets
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("decode layout file %s: %w", path, err)
	}
	return &presets, nil
}

// Apply overrides the layouts in cfg. A ring preset without a centre is
// centred on the canvas.
func (p *LayoutPresets) Apply(cfg *Config) {
	if p.Ring != nil {
		ring := *p.Ring
		if ring.CenterX == 0 && ring.CenterY == 0 {
			ring.CenterX = float64(cfg.CanvasSize) / 2
			ring.CenterY = float64(cfg.CanvasSize) / 2
		}
		cfg.Ring = ring
	}
	if p.Helix != nil {
		cfg.Helix = *p.Helix
	}
}
