package discovery

// Outcome is the result of one discovery attempt against a chain's REST
// API. Each field is independently empty when its sub-step failed; the
// two prefix fields share the validator fetch as their source.
type Outcome struct {
	ValoperPrefix string
	ValconsPrefix string
	BaseDenom     string
	TokenSymbol   string

	// ValidatorTokens is the bonded stake of the sampled validator, in
	// base units. Informational only: logged, never cached or validated.
	ValidatorTokens string
}

// Empty reports whether no discoverable field was resolved.
func (o Outcome) Empty() bool {
	return o.ValoperPrefix == "" && o.ValconsPrefix == "" &&
		o.BaseDenom == "" && o.TokenSymbol == ""
}

// FieldCount returns how many of the four discoverable fields were
// resolved.
func (o Outcome) FieldCount() int {
	count := 0
	for _, v := range []string{o.ValoperPrefix, o.ValconsPrefix, o.BaseDenom, o.TokenSymbol} {
		if v != "" {
			count++
		}
	}
	return count
}

// stakingParamsResponse mirrors /cosmos/staking/v1beta1/params.
type stakingParamsResponse struct {
	Params struct {
		BondDenom string `json:"bond_denom"`
	} `json:"params"`
}

// validatorsResponse mirrors /cosmos/staking/v1beta1/validators.
type validatorsResponse struct {
	Validators []struct {
		OperatorAddress string `json:"operator_address"`
		Tokens          string `json:"tokens"`
		Description     struct {
			Moniker string `json:"moniker"`
		} `json:"description"`
	} `json:"validators"`
}
