package config

// DiscoverableFields lists the per-chain parameters that can be resolved
// automatically (manual config -> cache -> REST discovery) instead of
// being required in the config file. Order is significant: it is the
// order used in warnings, errors and merge operations.
var DiscoverableFields = []string{
	"valoper_prefix",
	"valcons_prefix",
	"base_denom",
	"token_symbol",
}

// ChainConfig is the flat per-chain configuration as loaded from the
// config file, after defaults have been merged in.
//
// Decimals is deliberately untyped: a misconfigured value such as
// decimals = "6" must reach the validation engine as-is so it can be
// reported as a per-chain error instead of failing the whole file load.
type ChainConfig struct {
	RestAPIURL string `toml:"rest_api_url"`
	Decimals   any    `toml:"decimals"`

	// Discoverable parameters; empty means unresolved.
	ValoperPrefix string `toml:"valoper_prefix"`
	ValconsPrefix string `toml:"valcons_prefix"`
	BaseDenom     string `toml:"base_denom"`
	TokenSymbol   string `toml:"token_symbol"`

	// Opaque to the resolution pipeline, passed through untouched.
	RPCURL     string `toml:"rpc_url"`
	PrettyName string `toml:"pretty_name"`
}

// DecimalsInt returns the decimals value if it is an integer, and
// whether it was one. TOML integers decode as int64.
func (c *ChainConfig) DecimalsInt() (int64, bool) {
	switch v := c.Decimals.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// DiscoverableValue returns the current value of one of the four
// discoverable fields by its config key.
func (c *ChainConfig) DiscoverableValue(field string) string {
	switch field {
	case "valoper_prefix":
		return c.ValoperPrefix
	case "valcons_prefix":
		return c.ValconsPrefix
	case "base_denom":
		return c.BaseDenom
	case "token_symbol":
		return c.TokenSymbol
	}
	return ""
}

// SetDiscoverableValue sets one of the four discoverable fields by its
// config key. Unknown keys are ignored.
func (c *ChainConfig) SetDiscoverableValue(field, value string) {
	switch field {
	case "valoper_prefix":
		c.ValoperPrefix = value
	case "valcons_prefix":
		c.ValconsPrefix = value
	case "base_denom":
		c.BaseDenom = value
	case "token_symbol":
		c.TokenSymbol = value
	}
}

// MissingDiscoverable returns the discoverable fields that are still
// unresolved, in DiscoverableFields order.
func (c *ChainConfig) MissingDiscoverable() []string {
	missing := make([]string, 0, len(DiscoverableFields))
	for _, field := range DiscoverableFields {
		if c.DiscoverableValue(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// fileFormat is the on-disk layout: a defaults table applied under every
// chain, and one table per chain keyed by chain name.
type fileFormat struct {
	Defaults ChainConfig             `toml:"defaults"`
	Chains   map[string]*ChainConfig `toml:"chains"`
}
