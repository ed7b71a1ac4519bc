// ABOUTME: Configuration management for genetic algorithm parameters and server settings
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GAConfig holds all tunable genetic algorithm and server parameters.
type GAConfig struct {
	// Evolution loop parameters (spec.md §4.4)
	PopulationSize int     `toml:"population_size"`
	Generations    int     `toml:"generations"`
	CrossoverRate  float64 `toml:"crossover_rate"`
	MutationRate   float64 `toml:"mutation_rate"`
	Elitism        int     `toml:"elitism"`

	// Solver driver (spec.md §4.5)
	Runs int `toml:"runs"`

	// HTTP dispatch server (spec.md §7)
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Dispatch concurrency bound (SPEC_FULL §3)
	MaxConcurrentSolves int `toml:"max_concurrent_solves"`
}

// GetConfigPath returns the default config file path.
// First tries the current directory, then falls back to
// ~/.config/ga-assign/config.toml.
func GetConfigPath() string {
	if _, err := os.Stat("./ga-assign.toml"); err == nil {
		return "./ga-assign.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./ga-assign.toml"
	}

	return filepath.Join(home, ".config", "ga-assign", "config.toml")
}

// LoadConfig loads configuration from a TOML file. If the file doesn't
// exist, it returns defaults without error.
func LoadConfig(path string) (GAConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file, creating parent
// directories as needed.
func SaveConfig(path string, config GAConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default GA and server configuration, matching
// the constants named in spec.md §4.4, §4.5 and §7.
func DefaultConfig() GAConfig {
	return GAConfig{
		PopulationSize:      120,
		Generations:         200,
		CrossoverRate:       1.0,
		MutationRate:        0.28,
		Elitism:             6,
		Runs:                5,
		Host:                "0.0.0.0",
		Port:                8000,
		MaxConcurrentSolves: 4,
	}
}
