package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfileYAML []byte

// Platform is one social channel and its audience size.
type Platform struct {
	Name     string `yaml:"name"`
	Audience string `yaml:"audience"`
}

// Profile holds the creator facts every prompt repeats.
type Profile struct {
	Name              string     `yaml:"name"`
	FirstName         string     `yaml:"first_name"`
	Summary           string     `yaml:"summary"`
	Platforms         []Platform `yaml:"platforms"`
	Aesthetic         string     `yaml:"aesthetic"`
	PastPartners      []string   `yaml:"past_partners"`
	ContentCategories []string   `yaml:"content_categories"`
}

// LoadProfile reads a creator profile from path. An empty path returns the
// built-in profile.
func LoadProfile(path string) (*Profile, error) {
	data := defaultProfileYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read creator profile: %w", err)
		}
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse creator profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("creator profile must set name")
	}
	if p.FirstName == "" {
		p.FirstName = strings.Fields(p.Name)[0]
	}
	return &p, nil
}
