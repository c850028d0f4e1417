// Package validation checks chain configurations in two passes: a
// structural pass before parameter resolution (required fields, formats)
// and a completeness pass after it (all discoverable fields resolved).
// Both passes produce the same Result shape so the caller can merge them
// into one report.
package validation

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/chainwatch/monitor/config"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "validation").Logger()
}

// Result accumulates the outcome of one validation pass. Messages are
// chain-tagged and kept in chain order.
type Result struct {
	Errors      []string
	Warnings    []string
	Success     []string
	TotalChains int
	ValidChains int
}

// AddError records an error for a chain.
func (r *Result) AddError(chainName, message string) {
	r.Errors = append(r.Errors, fmt.Sprintf("**%s**: %s", chainName, message))
}

// AddWarning records a warning for a chain.
func (r *Result) AddWarning(chainName, message string) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("**%s**: %s", chainName, message))
}

// AddSuccess marks a chain as valid.
func (r *Result) AddSuccess(chainName string) {
	r.Success = append(r.Success, chainName)
	r.ValidChains++
}

// IsValid reports whether no chain produced an error.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any chain produced a warning.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Merge folds a completeness-pass result into this structural-pass
// result: errors are appended and the valid-chain count is replaced by
// the completeness pass's count, while the structural warnings and
// success list stay as the base.
func (r *Result) Merge(post *Result) {
	r.Errors = append(r.Errors, post.Errors...)
	r.ValidChains = post.ValidChains
}

// ValidateAll runs the structural pass over every chain. Warnings about
// not-yet-resolved discoverable fields are informational and never block
// a chain from passing.
func ValidateAll(chains *config.Chains) *Result {
	result := &Result{TotalChains: chains.Len()}

	log.Info().Int("chains", result.TotalChains).Msg("Validating chain configurations")

	for _, chainName := range chains.Names() {
		chain, _ := chains.Get(chainName)
		errors, warnings := validateChain(chain)

		if len(errors) == 0 {
			result.AddSuccess(chainName)
			log.Info().Str("chain", chainName).Msg("Validation passed")
		} else {
			for _, message := range errors {
				result.AddError(chainName, message)
				log.Error().Str("chain", chainName).Msg(message)
			}
		}
		for _, message := range warnings {
			result.AddWarning(chainName, message)
			log.Warn().Str("chain", chainName).Msg(message)
		}
	}

	return result
}

// validateChain runs the structural checks for one chain.
func validateChain(chain *config.ChainConfig) (errors, warnings []string) {
	if chain.RestAPIURL == "" {
		errors = append(errors, "Missing required parameter: `rest_api_url`")
	} else if !strings.HasPrefix(chain.RestAPIURL, "http://") && !strings.HasPrefix(chain.RestAPIURL, "https://") {
		errors = append(errors, "Invalid `rest_api_url` format: must start with http:// or https://")
	}

	if chain.Decimals == nil {
		errors = append(errors, "Missing required parameter: `decimals`")
	} else if decimals, ok := chain.DecimalsInt(); !ok || decimals < 0 || decimals > 18 {
		errors = append(errors, "Invalid `decimals` value: must be integer between 0-18")
	}

	if missing := chain.MissingDiscoverable(); len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("Will auto-discover: %s", backtickList(missing)))
	}

	return errors, warnings
}

// ValidatePostDiscovery runs the completeness pass: after resolution,
// every discoverable field must be present from some source.
func ValidatePostDiscovery(chains *config.Chains) *Result {
	result := &Result{TotalChains: chains.Len()}

	log.Info().Msg("Validating post-discovery parameters")

	for _, chainName := range chains.Names() {
		chain, _ := chains.Get(chainName)

		missing := chain.MissingDiscoverable()
		if len(missing) == 0 {
			result.AddSuccess(chainName)
			log.Info().Str("chain", chainName).Msg("Post-discovery validation passed")
			continue
		}

		message := fmt.Sprintf("Missing critical parameters (auto-discovery failed): %s", backtickList(missing))
		result.AddError(chainName, message)
		log.Error().Str("chain", chainName).Msg(message)
	}

	return result
}

func backtickList(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = "`" + field + "`"
	}
	return strings.Join(quoted, ", ")
}
