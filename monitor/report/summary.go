// Package report turns a validation result into a size-bounded summary
// that any notification surface can render. The truncation rules exist
// because downstream display fields cap out at 1024 characters; they are
// part of the contract and must not change.
package report

import (
	"fmt"
	"strings"

	"github.com/Cogwheel-Validator/chainwatch/monitor/validation"
)

// State is the overall outcome of a validation run.
type State string

const (
	StateValid             State = "valid"
	StateValidWithWarnings State = "valid_with_warnings"
	StateInvalid           State = "invalid"
)

// Display limits for rendered blocks.
const (
	maxEntries     = 10
	maxBlockLength = 1024
	// truncateAt leaves room for the ellipsis marker inside the limit.
	truncateAt = 1020
)

// Summary is the presentable form of a validation run.
type Summary struct {
	State        State `json:"state"`
	TotalChains  int   `json:"total_chains"`
	ValidChains  int   `json:"valid_chains"`
	ErrorCount   int   `json:"error_count"`
	WarningCount int   `json:"warning_count"`

	// Rendered display blocks, each at most 1024 characters.
	ValidChainsBlock string `json:"valid_chains_block"`
	ErrorsBlock      string `json:"errors_block"`
	WarningsBlock    string `json:"warnings_block"`
}

// BuildSummary assembles the summary for one merged validation result.
func BuildSummary(result *validation.Result) Summary {
	state := StateValid
	switch {
	case !result.IsValid():
		state = StateInvalid
	case result.HasWarnings():
		state = StateValidWithWarnings
	}

	return Summary{
		State:            state,
		TotalChains:      result.TotalChains,
		ValidChains:      result.ValidChains,
		ErrorCount:       len(result.Errors),
		WarningCount:     len(result.Warnings),
		ValidChainsBlock: renderChainList(result.Success),
		ErrorsBlock:      renderLines(result.Errors, "errors"),
		WarningsBlock:    renderLines(result.Warnings, "warnings"),
	}
}

// renderChainList renders the passing chains as a comma-separated list
// of backticked names, capped at maxEntries with an "and N more" suffix.
func renderChainList(chains []string) string {
	if len(chains) == 0 {
		return ""
	}

	shown := chains
	if len(shown) > maxEntries {
		shown = shown[:maxEntries]
	}
	quoted := make([]string, len(shown))
	for i, chain := range shown {
		quoted[i] = "`" + chain + "`"
	}
	text := strings.Join(quoted, ", ")
	if len(chains) > maxEntries {
		text += fmt.Sprintf(", ... and %d more", len(chains)-maxEntries)
	}
	return hardTruncate(text)
}

// renderLines renders newline-separated messages, capped at maxEntries
// with an "and N more <kind>" suffix.
func renderLines(lines []string, kind string) string {
	if len(lines) == 0 {
		return ""
	}

	shown := lines
	if len(shown) > maxEntries {
		shown = shown[:maxEntries]
	}
	text := strings.Join(shown, "\n")
	if len(lines) > maxEntries {
		text += fmt.Sprintf("\n... and %d more %s", len(lines)-maxEntries, kind)
	}
	return hardTruncate(text)
}

// hardTruncate enforces the display-field size limit: blocks over 1024
// characters are cut to 1020 and marked with an ellipsis. Counted in
// runes, matching the character semantics of the downstream renderer.
func hardTruncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxBlockLength {
		return text
	}
	return string(runes[:truncateAt]) + "..."
}
