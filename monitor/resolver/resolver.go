// Package resolver merges the three parameter sources for each chain:
// manual configuration always wins, then the persisted cache (when its
// endpoint still matches), then live discovery. Chains are resolved
// independently; one chain's network failure never affects another.
package resolver

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/chainwatch/monitor/cache"
	"github.com/Cogwheel-Validator/chainwatch/monitor/config"
	"github.com/Cogwheel-Validator/chainwatch/monitor/discovery"
	"github.com/Cogwheel-Validator/chainwatch/monitor/params"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "resolver").Logger()
}

// DiscoveryEngine discovers chain parameters over the network.
type DiscoveryEngine interface {
	Discover(chainName, restAPIURL string) discovery.Outcome
}

// ParamsCache persists discovered parameters between runs. The resolver
// never deletes records; a stale record is simply overwritten on the
// next successful discovery.
type ParamsCache interface {
	Get(chainName string) (*cache.Record, bool)
	Put(chainName string, outcome discovery.Outcome, restAPIURL string)
}

// Resolver fills the discoverable fields of chain configurations.
type Resolver struct {
	engine DiscoveryEngine
	cache  ParamsCache
}

// New creates a resolver. The cache may be a nil *cache.Store; the
// resolver then always discovers and never persists.
func New(engine DiscoveryEngine, paramsCache ParamsCache) *Resolver {
	return &Resolver{engine: engine, cache: paramsCache}
}

// ResolveAll resolves every chain in deterministic order, mutating the
// chain configurations in place.
func (r *Resolver) ResolveAll(chains *config.Chains) {
	log.Info().Int("chains", chains.Len()).Msg("Starting chain parameter resolution")
	for _, chainName := range chains.Names() {
		chain, _ := chains.Get(chainName)
		r.Resolve(chainName, chain)
	}
	log.Info().Msg("Chain parameter resolution completed")
}

// Resolve fills the missing discoverable fields of one chain from the
// cache or from live discovery. Manual values are never overwritten.
// A fully specified chain performs no I/O at all.
func (r *Resolver) Resolve(chainName string, chain *config.ChainConfig) {
	missing := chain.MissingDiscoverable()
	if len(missing) == 0 {
		log.Info().Str("chain", chainName).Msg("All parameters present, skipping discovery")
		fieldsResolved.WithLabelValues("manual").Add(float64(len(config.DiscoverableFields)))
		return
	}

	log.Info().Str("chain", chainName).Strs("missing", missing).Msg("Resolving missing parameters")

	discovered, fromCache := r.lookupOrDiscover(chainName, chain.RestAPIURL)

	source := "discovery"
	if fromCache {
		source = "cache"
	} else if decimals, ok := chain.DecimalsInt(); ok {
		logDiscoveredStake(chainName, discovered, int(decimals))
	}
	for _, field := range missing {
		if value := discoveredValue(discovered, field); value != "" {
			chain.SetDiscoverableValue(field, value)
			fieldsResolved.WithLabelValues(source).Inc()
		}
	}
	fieldsResolved.WithLabelValues("manual").Add(float64(len(config.DiscoverableFields) - len(missing)))

	// The token symbol follows from the base denom, so a manually
	// configured denom can still fill it when the staking-params fetch
	// came back empty.
	if chain.TokenSymbol == "" && chain.BaseDenom != "" {
		chain.TokenSymbol = params.DeriveTokenSymbol(chain.BaseDenom)
		fieldsResolved.WithLabelValues("derived").Inc()
		log.Info().Str("chain", chainName).
			Str("token_symbol", chain.TokenSymbol).
			Msg("Derived token symbol from configured base denom")
	}
}

// lookupOrDiscover returns the discovered parameter set for a chain,
// served from the cache when a record exists for the currently
// configured endpoint, otherwise from a live discovery run whose result
// is cached when anything was found.
func (r *Resolver) lookupOrDiscover(chainName, restAPIURL string) (discovery.Outcome, bool) {
	if record, ok := r.cache.Get(chainName); ok {
		if record.RestAPIURL == restAPIURL {
			log.Info().Str("chain", chainName).Msg("Using cached parameters")
			cacheHits.WithLabelValues(chainName).Inc()
			return discovery.Outcome{
				ValoperPrefix: record.ValoperPrefix,
				ValconsPrefix: record.ValconsPrefix,
				BaseDenom:     record.BaseDenom,
				TokenSymbol:   record.TokenSymbol,
			}, true
		}
		log.Info().Str("chain", chainName).
			Str("cached_url", record.RestAPIURL).
			Str("current_url", restAPIURL).
			Msg("Cached parameters are stale, re-discovering")
		staleRecords.WithLabelValues(chainName).Inc()
	}

	discoveryRuns.WithLabelValues(chainName).Inc()
	outcome := r.engine.Discover(chainName, restAPIURL)
	if !outcome.Empty() {
		r.cache.Put(chainName, outcome, restAPIURL)
	}
	return outcome, false
}

// logDiscoveredStake logs the sampled validator's bonded stake in
// display units. Purely informational; failures to parse are ignored.
func logDiscoveredStake(chainName string, outcome discovery.Outcome, decimals int) {
	if outcome.ValidatorTokens == "" {
		return
	}
	stake, err := params.DisplayAmount(outcome.ValidatorTokens, decimals)
	if err != nil {
		return
	}
	symbol := outcome.TokenSymbol
	if symbol == "" {
		symbol = outcome.BaseDenom
	}
	log.Info().Str("chain", chainName).
		Str("stake", stake.StringFixed(2)).
		Str("symbol", symbol).
		Msg("Sampled validator stake")
}

func discoveredValue(outcome discovery.Outcome, field string) string {
	switch field {
	case "valoper_prefix":
		return outcome.ValoperPrefix
	case "valcons_prefix":
		return outcome.ValconsPrefix
	case "base_denom":
		return outcome.BaseDenom
	case "token_symbol":
		return outcome.TokenSymbol
	}
	return ""
}
