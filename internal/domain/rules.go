package domain

// RuleConfig is one JsonLogic rule of a loaded pack. Phase "filter"
// rules run per shipping option; phase "guards" rules run against the
// cart during validation.
type RuleConfig struct {
	ID           string         `json:"id"`
	Phase        string         `json:"phase"`
	Logic        map[string]any `json:"logic"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// RulePack define a estrutura de um conjunto de regras carregado.
type RulePack struct {
	Version     string       `json:"version"`
	Description string       `json:"description,omitempty"`
	Rules       []RuleConfig `json:"rules"`
}

// ByPhase returns the rules of the given phase, in pack order.
func (p *RulePack) ByPhase(phase string) []RuleConfig {
	var out []RuleConfig
	for _, r := range p.Rules {
		if r.Phase == phase {
			out = append(out, r)
		}
	}
	return out
}
