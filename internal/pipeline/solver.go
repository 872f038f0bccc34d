package pipeline

import (
	"fmt"

	"github.com/cinememory/backend/internal/types"
)

// Solver is a cost/accuracy-tiered strategy for producing candidates.
type Solver string

const (
	// Low cost.
	SolverKeywordMatch Solver = "KEYWORD_MATCH"
	SolverRuleBased    Solver = "RULE_BASED"
	SolverCacheLookup  Solver = "CACHE_LOOKUP"
	// Medium cost.
	SolverEmbeddingSimilarity Solver = "EMBEDDING_SIMILARITY"
	SolverPatternMatch        Solver = "PATTERN_MATCH"
	// High cost, confidence-gated.
	SolverLLMReasoning  Solver = "LLM_REASONING"
	SolverMultiStageLLM Solver = "MULTI_STAGE_LLM"
)

type AccuracyLevel string

const (
	AccuracyLow    AccuracyLevel = "LOW"
	AccuracyMedium AccuracyLevel = "MEDIUM"
	AccuracyHigh   AccuracyLevel = "HIGH"
)

type SolverConfig struct {
	Type                Solver          `json:"type"`
	CostLevel           types.CostLevel `json:"cost_level"`
	AccuracyLevel       AccuracyLevel   `json:"accuracy_level"`
	ConfidenceThreshold float64         `json:"confidence_threshold"`
	MaxCandidates       int             `json:"max_candidates"`
}

// solverConfigs is the static tier table, initialized once and never
// mutated: safe for unlimited concurrent readers.
var solverConfigs = map[Solver]SolverConfig{
	SolverKeywordMatch:        {Type: SolverKeywordMatch, CostLevel: types.CostLow, AccuracyLevel: AccuracyLow, ConfidenceThreshold: 0.0, MaxCandidates: 10},
	SolverRuleBased:           {Type: SolverRuleBased, CostLevel: types.CostLow, AccuracyLevel: AccuracyMedium, ConfidenceThreshold: 0.0, MaxCandidates: 5},
	SolverCacheLookup:         {Type: SolverCacheLookup, CostLevel: types.CostLow, AccuracyLevel: AccuracyMedium, ConfidenceThreshold: 0.0, MaxCandidates: 3},
	SolverEmbeddingSimilarity: {Type: SolverEmbeddingSimilarity, CostLevel: types.CostMedium, AccuracyLevel: AccuracyMedium, ConfidenceThreshold: 0.3, MaxCandidates: 5},
	SolverPatternMatch:        {Type: SolverPatternMatch, CostLevel: types.CostMedium, AccuracyLevel: AccuracyHigh, ConfidenceThreshold: 0.4, MaxCandidates: 3},
	SolverLLMReasoning:        {Type: SolverLLMReasoning, CostLevel: types.CostHigh, AccuracyLevel: AccuracyHigh, ConfidenceThreshold: 0.6, MaxCandidates: 3},
	SolverMultiStageLLM:       {Type: SolverMultiStageLLM, CostLevel: types.CostHigh, AccuracyLevel: AccuracyHigh, ConfidenceThreshold: 0.7, MaxCandidates: 3},
}

type SolverAlternative struct {
	Solver Solver `json:"solver"`
	Reason string `json:"reason"`
}

type SolverResult struct {
	Selected     Solver              `json:"selected_solver"`
	Config       SolverConfig        `json:"config"`
	Reasoning    string              `json:"reasoning"`
	Alternatives []SolverAlternative `json:"alternatives,omitempty"`
}

// SelectSolver picks a solver from the genre policy, then enforces the
// cost gate: if confidence is below the selected solver's threshold the
// selection downgrades to KEYWORD_MATCH unconditionally. High-cost solvers
// never run below their stated confidence floor.
func SelectSolver(genre Genre, tags []Tag, confidence float64) SolverResult {
	var (
		selected  Solver
		reasoning string
	)

	switch genre {
	case GenreExploratoryDiscovery:
		if confidence >= 0.4 {
			selected = SolverEmbeddingSimilarity
		} else {
			selected = SolverKeywordMatch
		}
		reasoning = "Exploratory discovery: diversity over precision, low cost"
	case GenrePrecisionLookup:
		switch {
		case confidence >= 0.7:
			selected = SolverPatternMatch
		case confidence >= 0.5:
			selected = SolverEmbeddingSimilarity
		default:
			selected = SolverCacheLookup
		}
		reasoning = "Precision lookup: accuracy first, cache preferred"
	case GenreComparativeDecision:
		if confidence >= 0.6 {
			selected = SolverLLMReasoning
		} else {
			selected = SolverRuleBased
		}
		reasoning = "Comparative decision: structure criteria first"
	case GenreAdvisoryCuration:
		if confidence >= 0.6 {
			selected = SolverLLMReasoning
		} else {
			selected = SolverEmbeddingSimilarity
		}
		reasoning = "Advisory/curation: user history required"
	case GenreMetaSystemInquiry:
		selected = SolverLLMReasoning
		reasoning = "Meta inquiry: decision log reference required"
	default:
		selected = SolverRuleBased
		reasoning = "Default solver for unknown genre"
	}

	if cfg := solverConfigs[selected]; confidence < cfg.ConfidenceThreshold {
		reasoning += fmt.Sprintf(" (downgraded due to low confidence: %.2f < %.2f)", confidence, cfg.ConfidenceThreshold)
		selected = SolverKeywordMatch
	}

	return SolverResult{
		Selected:     selected,
		Config:       solverConfigs[selected],
		Reasoning:    reasoning,
		Alternatives: solverAlternatives(confidence, selected),
	}
}

// solverAlternatives are purely advisory: a low-cost option under low
// confidence, a high-accuracy option under high confidence.
func solverAlternatives(confidence float64, primary Solver) []SolverAlternative {
	var alternatives []SolverAlternative
	if confidence < 0.5 && primary != SolverKeywordMatch {
		alternatives = append(alternatives, SolverAlternative{
			Solver: SolverKeywordMatch,
			Reason: "Lower cost alternative for low confidence",
		})
	}
	if confidence > 0.7 && primary != SolverLLMReasoning {
		alternatives = append(alternatives, SolverAlternative{
			Solver: SolverLLMReasoning,
			Reason: "Higher accuracy alternative for high confidence",
		})
	}
	return alternatives
}

// SolverConfigFor exposes the static config for a solver.
func SolverConfigFor(solver Solver) (SolverConfig, bool) {
	cfg, ok := solverConfigs[solver]
	return cfg, ok
}
