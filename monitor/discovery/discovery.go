// Package discovery derives chain parameters from a chain's REST API.
// Every sub-step is independently guarded: a failed fetch contributes an
// empty field instead of an error, and the caller decides what an
// incomplete outcome means.
package discovery

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/chainwatch/monitor/params"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "discovery").Logger()
}

// DefaultTimeout matches the HTTP client timeout of the reference
// deployment. A timeout surfaces as a plain network failure.
const DefaultTimeout = 20 * time.Second

// Engine fetches chain parameters over REST. It performs no retries;
// the resolution layer decides whether to invalidate the cache and try
// again on a later run.
type Engine struct {
	client *http.Client
}

// NewEngine creates a discovery engine. A non-positive timeout falls
// back to DefaultTimeout.
func NewEngine(timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		client: &http.Client{Timeout: timeout},
	}
}

// Discover attempts to resolve all four chain parameters from the REST
// API. It never fails as a whole; inspect the returned Outcome for
// per-field results.
func (e *Engine) Discover(chainName, restAPIURL string) Outcome {
	restAPIURL = strings.TrimSuffix(restAPIURL, "/")

	log.Info().Str("chain", chainName).Str("url", restAPIURL).Msg("Starting parameter discovery")

	var outcome Outcome

	bondDenom, err := e.fetchBondDenom(restAPIURL)
	if err != nil {
		log.Warn().Str("chain", chainName).Err(err).Msg("Failed to discover base_denom")
	} else {
		outcome.BaseDenom = bondDenom
		outcome.TokenSymbol = params.DeriveTokenSymbol(bondDenom)
	}

	operatorAddress, tokens, err := e.fetchFirstValidator(restAPIURL)
	if err != nil {
		log.Warn().Str("chain", chainName).Err(err).Msg("Failed to discover prefixes")
	} else {
		outcome.ValoperPrefix = params.ExtractBech32Prefix(operatorAddress)
		outcome.ValconsPrefix = params.DeriveConsensusPrefix(outcome.ValoperPrefix)
		outcome.ValidatorTokens = tokens
		if outcome.ValoperPrefix == "" {
			log.Warn().Str("chain", chainName).Str("operator_address", operatorAddress).
				Msg("Operator address has no bech32 prefix")
		} else if outcome.ValconsPrefix == "" {
			// The operator prefix does not follow the valoper pattern;
			// leave the consensus prefix unresolved rather than guess.
			log.Warn().Str("chain", chainName).Str("valoper_prefix", outcome.ValoperPrefix).
				Msg("Operator prefix has no valoper pattern, consensus prefix left unresolved")
		}
	}

	log.Info().Str("chain", chainName).
		Int("discovered", outcome.FieldCount()).
		Int("total", 4).
		Msg("Discovery completed")
	for _, field := range []struct{ name, value string }{
		{"valoper_prefix", outcome.ValoperPrefix},
		{"valcons_prefix", outcome.ValconsPrefix},
		{"base_denom", outcome.BaseDenom},
		{"token_symbol", outcome.TokenSymbol},
	} {
		if field.value != "" {
			log.Debug().Str("chain", chainName).Str(field.name, field.value).Msg("Discovered parameter")
		}
	}

	return outcome
}

// fetchBondDenom reads the staking bond denom from the staking params
// endpoint.
func (e *Engine) fetchBondDenom(restAPIURL string) (string, error) {
	fullURL := fmt.Sprintf("%s/cosmos/staking/v1beta1/params", restAPIURL)

	body, err := e.doGet(fullURL)
	if err != nil {
		return "", err
	}

	var response stakingParamsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse staking params response: %w", err)
	}

	if response.Params.BondDenom == "" {
		return "", fmt.Errorf("bond_denom not found in staking params")
	}
	return response.Params.BondDenom, nil
}

// fetchFirstValidator fetches a single validator record and returns its
// operator address and bonded tokens. One record is enough to extract
// the address prefixes.
func (e *Engine) fetchFirstValidator(restAPIURL string) (address, tokens string, err error) {
	fullURL := fmt.Sprintf("%s/cosmos/staking/v1beta1/validators?pagination.limit=1", restAPIURL)

	body, err := e.doGet(fullURL)
	if err != nil {
		return "", "", err
	}

	var response validatorsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", "", fmt.Errorf("failed to parse validators response: %w", err)
	}

	if len(response.Validators) == 0 {
		return "", "", fmt.Errorf("no validators returned")
	}
	validator := response.Validators[0]
	return validator.OperatorAddress, validator.Tokens, nil
}

func (e *Engine) doGet(fullURL string) ([]byte, error) {
	resp, err := e.client.Get(fullURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, fullURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
