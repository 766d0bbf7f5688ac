// Package presets loads named typewriter presets from YAML.
//
//	presets:
//	  - name: hero
//	    strings: ["Web Developer", "Designer"]
//	    type_speed_ms: 80
//	    loop: true
package presets

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio-fx/internal/typewriter"
)

// Preset is one named typewriter configuration.
type Preset struct {
	Name          string   `yaml:"name"`
	Strings       []string `yaml:"strings"`
	TypeSpeedMS   int      `yaml:"type_speed_ms"`
	DeleteSpeedMS int      `yaml:"delete_speed_ms"`
	PauseMS       int      `yaml:"pause_ms"`
	Loop          *bool    `yaml:"loop"`
	Cursor        string   `yaml:"cursor"`
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Config converts p to an engine Config. Unset fields keep the engine defaults.
func (p Preset) Config() typewriter.Config {
	return typewriter.Config{
		Sequence:           p.Strings,
		TypeSpeed:          time.Duration(p.TypeSpeedMS) * time.Millisecond,
		DeleteSpeed:        time.Duration(p.DeleteSpeedMS) * time.Millisecond,
		PauseAfterComplete: time.Duration(p.PauseMS) * time.Millisecond,
		Loop:               p.Loop,
		Cursor:             p.Cursor,
	}
}

// Load reads and parses the preset file at path.
func Load(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("presets: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes presets from YAML. Unknown keys are ignored.
func Parse(data []byte) ([]Preset, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("presets: parse: %w", err)
	}

	seen := make(map[string]bool, len(f.Presets))
	for i, p := range f.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("presets: entry %d has no name", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("presets: duplicate name %q", p.Name)
		}
		seen[p.Name] = true
		if len(p.Strings) == 0 {
			return nil, fmt.Errorf("presets: %q has no strings", p.Name)
		}
		if err := p.Config().WithDefaults().Validate(); err != nil {
			return nil, fmt.Errorf("presets: %q: %w", p.Name, err)
		}
	}
	return f.Presets, nil
}

// Find returns the preset named name.
func Find(list []Preset, name string) (Preset, bool) {
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
