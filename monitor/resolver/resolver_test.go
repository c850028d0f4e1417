package resolver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zeebo/assert"

	"github.com/Cogwheel-Validator/chainwatch/monitor/cache"
	"github.com/Cogwheel-Validator/chainwatch/monitor/config"
	"github.com/Cogwheel-Validator/chainwatch/monitor/discovery"
)

type fakeEngine struct {
	outcome discovery.Outcome
	calls   int
}

func (f *fakeEngine) Discover(chainName, restAPIURL string) discovery.Outcome {
	f.calls++
	return f.outcome
}

type fakeCache struct {
	records map[string]*cache.Record
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{records: make(map[string]*cache.Record)}
}

func (f *fakeCache) Get(chainName string) (*cache.Record, bool) {
	record, ok := f.records[chainName]
	return record, ok
}

func (f *fakeCache) Put(chainName string, outcome discovery.Outcome, restAPIURL string) {
	f.puts++
	f.records[chainName] = &cache.Record{
		ChainName:     chainName,
		ValoperPrefix: outcome.ValoperPrefix,
		ValconsPrefix: outcome.ValconsPrefix,
		BaseDenom:     outcome.BaseDenom,
		TokenSymbol:   outcome.TokenSymbol,
		RestAPIURL:    restAPIURL,
	}
}

func TestResolveFullySpecifiedChainDoesNoIO(t *testing.T) {
	engine := &fakeEngine{}
	store := newFakeCache()

	chain := &config.ChainConfig{
		RestAPIURL:    "https://rest.example",
		ValoperPrefix: "cosmosvaloper",
		ValconsPrefix: "cosmosvalcons",
		BaseDenom:     "uatom",
		TokenSymbol:   "ATOM",
	}

	New(engine, store).Resolve("cosmoshub", chain)

	assert.Equal(t, 0, engine.calls)
	assert.Equal(t, 0, store.puts)
	assert.Equal(t, "uatom", chain.BaseDenom)
}

func TestResolveManualAlwaysWins(t *testing.T) {
	engine := &fakeEngine{outcome: discovery.Outcome{
		ValoperPrefix: "testchainvaloper",
		ValconsPrefix: "testchainvalcons",
		BaseDenom:     "utest",
		TokenSymbol:   "TEST",
	}}
	store := newFakeCache()

	chain := &config.ChainConfig{
		RestAPIURL: "https://rest.example",
		BaseDenom:  "uatom", // manual value, must survive
	}

	New(engine, store).Resolve("testchain", chain)

	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, "uatom", chain.BaseDenom)
	assert.Equal(t, "testchainvaloper", chain.ValoperPrefix)
	assert.Equal(t, "testchainvalcons", chain.ValconsPrefix)
	assert.Equal(t, "TEST", chain.TokenSymbol)
}

func TestResolveUsesCacheOnEndpointMatch(t *testing.T) {
	engine := &fakeEngine{}
	store := newFakeCache()
	store.records["empower"] = &cache.Record{
		ChainName:     "empower",
		ValoperPrefix: "empevaloper",
		ValconsPrefix: "empevalcons",
		BaseDenom:     "uempe",
		TokenSymbol:   "EMPE",
		RestAPIURL:    "https://rest.empower.example",
	}

	chain := &config.ChainConfig{RestAPIURL: "https://rest.empower.example"}
	New(engine, store).Resolve("empower", chain)

	assert.Equal(t, 0, engine.calls)
	assert.Equal(t, 0, store.puts)
	assert.Equal(t, "uempe", chain.BaseDenom)
	assert.Equal(t, "empevaloper", chain.ValoperPrefix)
}

func TestResolveStaleCacheTriggersDiscovery(t *testing.T) {
	engine := &fakeEngine{outcome: discovery.Outcome{BaseDenom: "uempe", TokenSymbol: "EMPE"}}
	store := newFakeCache()
	store.records["empower"] = &cache.Record{
		ChainName:  "empower",
		BaseDenom:  "uoldempe",
		RestAPIURL: "https://old-endpoint.example",
	}

	chain := &config.ChainConfig{RestAPIURL: "https://new-endpoint.example"}
	New(engine, store).Resolve("empower", chain)

	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, 1, store.puts)
	assert.Equal(t, "uempe", chain.BaseDenom)
	assert.Equal(t, "https://new-endpoint.example", store.records["empower"].RestAPIURL)
}

func TestResolveEmptyOutcomeIsNotCached(t *testing.T) {
	engine := &fakeEngine{} // discovers nothing
	store := newFakeCache()

	chain := &config.ChainConfig{RestAPIURL: "https://rest.example"}
	New(engine, store).Resolve("ghost", chain)

	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, 0, store.puts)
	assert.Equal(t, 4, len(chain.MissingDiscoverable()))
}

func TestResolveDerivesSymbolFromManualDenom(t *testing.T) {
	engine := &fakeEngine{} // discovery finds nothing
	store := newFakeCache()

	chain := &config.ChainConfig{
		RestAPIURL: "https://rest.example",
		BaseDenom:  "uatom",
	}
	New(engine, store).Resolve("cosmoshub", chain)

	assert.Equal(t, "ATOM", chain.TokenSymbol)
	assert.Equal(t, "uatom", chain.BaseDenom)
}

func TestResolveManualDenomSurvivesParamsOutage(t *testing.T) {
	// The staking-params endpoint is down but validators still answer:
	// the prefixes come from discovery while the token symbol is derived
	// from the configured base denom instead of the unreachable one.
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/params", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/cosmos/staking/v1beta1/validators", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"validators": [{"operator_address": "testchainvaloper1xyz", "tokens": "1000000", "description": {"moniker": "node"}}]}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	chain := &config.ChainConfig{
		RestAPIURL: server.URL,
		BaseDenom:  "uatom",
	}
	New(discovery.NewEngine(5*time.Second), (*cache.Store)(nil)).Resolve("testchain", chain)

	assert.Equal(t, "testchainvaloper", chain.ValoperPrefix)
	assert.Equal(t, "testchainvalcons", chain.ValconsPrefix)
	assert.Equal(t, "uatom", chain.BaseDenom)
	assert.Equal(t, "ATOM", chain.TokenSymbol)
	assert.Equal(t, 0, len(chain.MissingDiscoverable()))
}

func TestResolveAllChainsAreIndependent(t *testing.T) {
	engine := &fakeEngine{outcome: discovery.Outcome{BaseDenom: "udenom", TokenSymbol: "DENOM"}}
	store := newFakeCache()

	chains := config.NewChains(map[string]*config.ChainConfig{
		"alpha": {RestAPIURL: "https://rest.alpha.example"},
		"beta": {
			RestAPIURL:    "https://rest.beta.example",
			ValoperPrefix: "betavaloper",
			ValconsPrefix: "betavalcons",
			BaseDenom:     "ubeta",
			TokenSymbol:   "BETA",
		},
	})

	New(engine, store).ResolveAll(chains)

	// Only alpha was missing anything.
	assert.Equal(t, 1, engine.calls)
	alpha, _ := chains.Get("alpha")
	assert.Equal(t, "udenom", alpha.BaseDenom)
	beta, _ := chains.Get("beta")
	assert.Equal(t, "ubeta", beta.BaseDenom)
}
