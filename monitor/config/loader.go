// Package config loads the per-chain monitoring configuration from a
// TOML file and merges the shared defaults table under every chain.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Chains holds the loaded per-chain configurations.
type Chains struct {
	byName map[string]*ChainConfig
}

// Load reads and parses a chain configuration file.
func Load(filePath string) (*Chains, error) {
	if !strings.HasSuffix(filePath, ".toml") {
		return nil, fmt.Errorf("config file must be a .toml file: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	var file fileFormat
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	if len(file.Chains) == 0 {
		return nil, fmt.Errorf("no chains defined in %s", filePath)
	}

	for _, chain := range file.Chains {
		mergeDefaults(chain, &file.Defaults)
	}

	return &Chains{byName: file.Chains}, nil
}

// mergeDefaults fills unset chain fields from the defaults table.
// Chain-specific values always win.
func mergeDefaults(chain, defaults *ChainConfig) {
	if chain.RestAPIURL == "" {
		chain.RestAPIURL = defaults.RestAPIURL
	}
	if chain.Decimals == nil {
		chain.Decimals = defaults.Decimals
	}
	if chain.RPCURL == "" {
		chain.RPCURL = defaults.RPCURL
	}
	for _, field := range DiscoverableFields {
		if chain.DiscoverableValue(field) == "" {
			chain.SetDiscoverableValue(field, defaults.DiscoverableValue(field))
		}
	}
}

// NewChains wraps an already-built chain map. Used by callers that do
// not load from a file, such as tests.
func NewChains(byName map[string]*ChainConfig) *Chains {
	return &Chains{byName: byName}
}

// Get returns the configuration for a single chain.
func (c *Chains) Get(name string) (*ChainConfig, bool) {
	chain, ok := c.byName[name]
	return chain, ok
}

// Names returns all chain names in lexicographic order. Every pipeline
// stage iterates chains in this order so that runs are deterministic.
func (c *Chains) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of configured chains.
func (c *Chains) Len() int {
	return len(c.byName)
}
