package pipeline

import (
	"context"
)

type ResultCandidate struct {
	MovieID         string  `json:"movie_id"`
	Rank            int     `json:"rank"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ResultEnvelope is the raw output of a solver dispatch.
type ResultEnvelope struct {
	Type       string            `json:"type"`
	Candidates []ResultCandidate `json:"candidates"`
}

// SolverRunner dispatches to the selected solver. The default runner only
// produces empty envelopes; real candidate work happens in the candidate
// ranker, outside the pipeline. Injectable so the executor's failure path
// stays testable.
type SolverRunner interface {
	Run(ctx context.Context, solver Solver, userInput string, genre Genre, tags []Tag) (*ResultEnvelope, error)
}

type staticSolverRunner struct{}

func NewStaticSolverRunner() SolverRunner {
	return staticSolverRunner{}
}

func (staticSolverRunner) Run(ctx context.Context, solver Solver, userInput string, genre Genre, tags []Tag) (*ResultEnvelope, error) {
	switch solver {
	case SolverKeywordMatch:
		return &ResultEnvelope{Type: "keyword_match", Candidates: []ResultCandidate{}}, nil
	case SolverRuleBased:
		return &ResultEnvelope{Type: "rule_based", Candidates: []ResultCandidate{}}, nil
	case SolverCacheLookup:
		return &ResultEnvelope{Type: "cache_lookup", Candidates: []ResultCandidate{}}, nil
	case SolverEmbeddingSimilarity:
		return &ResultEnvelope{Type: "embedding_similarity", Candidates: []ResultCandidate{}}, nil
	case SolverPatternMatch:
		return &ResultEnvelope{Type: "pattern_match", Candidates: []ResultCandidate{}}, nil
	case SolverLLMReasoning:
		return &ResultEnvelope{Type: "llm_reasoning", Candidates: []ResultCandidate{}}, nil
	case SolverMultiStageLLM:
		return &ResultEnvelope{Type: "multi_stage_llm", Candidates: []ResultCandidate{}}, nil
	default:
		return nil, nil
	}
}
