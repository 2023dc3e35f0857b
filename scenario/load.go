package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a scenario from a YAML or JSON file. YAML is tried
// first, then JSON, so either format works regardless of extension.
func LoadFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	s := &Scenario{}

	if err := yaml.Unmarshal(data, s); err != nil {
		if jsonErr := json.Unmarshal(data, s); jsonErr != nil {
			return nil, fmt.Errorf("parse scenario (tried YAML and JSON): %w", jsonErr)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
