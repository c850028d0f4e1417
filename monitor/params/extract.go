// Package params contains the pure helpers that derive chain parameters
// from on-chain strings: token symbols from base denominations and
// bech32 prefixes from validator addresses.
package params

import "strings"

// denomPrefixes are the metric prefixes commonly used for base
// denominations (micro, atto, nano, milli). At most one is stripped.
var denomPrefixes = []string{"u", "a", "n", "m"}

// DeriveTokenSymbol derives a display symbol from a base denomination.
//
// Examples:
//
//	"uatom" -> "ATOM"
//	"ahp"   -> "HP"
//	"x"     -> "X"
func DeriveTokenSymbol(baseDenom string) string {
	symbol := baseDenom
	for _, prefix := range denomPrefixes {
		if strings.HasPrefix(symbol, prefix) && len(symbol) > 1 {
			symbol = symbol[1:]
			break
		}
	}
	return strings.ToUpper(symbol)
}

// ExtractBech32Prefix extracts the human-readable prefix from a bech32
// address: the leading run of lowercase letters immediately followed by
// the separator '1'. Returns "" when the address is empty or does not
// start with such a run.
//
// Example: "cosmosvaloper1abc..." -> "cosmosvaloper"
func ExtractBech32Prefix(address string) string {
	if address == "" {
		return ""
	}
	i := 0
	for i < len(address) && address[i] >= 'a' && address[i] <= 'z' {
		i++
	}
	if i == 0 || i >= len(address) || address[i] != '1' {
		return ""
	}
	return address[:i]
}

// DeriveConsensusPrefix derives the consensus-address prefix from a
// validator operator prefix by replacing "valoper" with "valcons".
// Returns "" when the operator prefix does not follow the valoper
// pattern; guessing a consensus prefix from an unknown pattern would be
// worse than reporting it as unresolved.
//
// Example: "cosmosvaloper" -> "cosmosvalcons"
func DeriveConsensusPrefix(operatorPrefix string) string {
	if !strings.Contains(operatorPrefix, "valoper") {
		return ""
	}
	return strings.Replace(operatorPrefix, "valoper", "valcons", 1)
}
