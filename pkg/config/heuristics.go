package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mail-triage-backend/internal/triage/scoring"
)

// LoadHeuristics reads the scoring pattern lists from a YAML file. An empty
// path returns the built-in defaults; a partial file only overrides the
// lists it names.
func LoadHeuristics(path string) (scoring.Heuristics, error) {
	if path == "" {
		return scoring.DefaultHeuristics(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Heuristics{}, fmt.Errorf("failed to read heuristics file: %w", err)
	}

	var h scoring.Heuristics
	if err := yaml.Unmarshal(data, &h); err != nil {
		return scoring.Heuristics{}, fmt.Errorf("failed to parse heuristics file: %w", err)
	}

	return h, nil
}
