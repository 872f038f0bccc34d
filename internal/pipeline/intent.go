package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

// Intent is the classified purpose of a user's request.
type Intent string

const (
	IntentSearch    Intent = "SEARCH"
	IntentBrowse    Intent = "BROWSE"
	IntentCompare   Intent = "COMPARE"
	IntentRecommend Intent = "RECOMMEND"
	IntentExplain   Intent = "EXPLAIN"
	IntentUnknown   Intent = "UNKNOWN"
)

// intentOrder fixes the tie-break order for equal scores: the first intent
// in this list with the maximum score wins. This order is part of the
// contract, independent of map iteration.
var intentOrder = []Intent{
	IntentSearch,
	IntentBrowse,
	IntentCompare,
	IntentRecommend,
	IntentExplain,
	IntentUnknown,
}

// intentWeights is the score added when an intent's keyword pattern matches.
var intentWeights = map[Intent]float64{
	IntentSearch:    0.8,
	IntentBrowse:    0.7,
	IntentCompare:   0.8,
	IntentRecommend: 0.8,
	IntentExplain:   0.7,
}

var intentReasons = map[Intent]string{
	IntentSearch:    "User is searching for a specific movie they remember",
	IntentBrowse:    "User wants to explore or browse movies",
	IntentCompare:   "User wants to compare movies or make a choice",
	IntentRecommend: "User is asking for recommendations or advice",
	IntentExplain:   "User wants explanation about system decisions",
	IntentUnknown:   "Intent unclear from input",
}

type IntentAlternative struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type IntentResult struct {
	Intent           Intent              `json:"intent"`
	Confidence       float64             `json:"confidence"`
	Reasoning        string              `json:"reasoning"`
	Alternatives     []IntentAlternative `json:"alternatives,omitempty"`
	UncertaintyScore float64             `json:"uncertainty_score"`
}

// IntentClassifier maps raw text to an intent via weighted keyword patterns.
// Pure: no external calls, no failure modes beyond UNKNOWN with confidence 0.
type IntentClassifier struct {
	patterns map[Intent]*regexp.Regexp
}

func NewIntentClassifier(cfg *KeywordConfig) *IntentClassifier {
	if cfg == nil {
		cfg = DefaultKeywordConfig()
	}
	patterns := make(map[Intent]*regexp.Regexp, len(cfg.Intents))
	for intent := range intentWeights {
		patterns[intent] = compileKeywordPattern(cfg.Intents[string(intent)])
	}
	return &IntentClassifier{patterns: patterns}
}

func (ic *IntentClassifier) Classify(userInput string) IntentResult {
	lower := strings.ToLower(userInput)

	scores := make(map[Intent]float64, len(intentOrder))
	for _, intent := range intentOrder {
		scores[intent] = 0
	}
	for intent, pattern := range ic.patterns {
		if pattern != nil && pattern.MatchString(lower) {
			scores[intent] += intentWeights[intent]
		}
	}

	primary := IntentUnknown
	maxScore := 0.0
	for _, intent := range intentOrder {
		if scores[intent] > maxScore {
			maxScore = scores[intent]
			primary = intent
		}
	}

	alternatives := make([]IntentAlternative, 0, 2)
	for _, intent := range intentOrder {
		if intent == primary || scores[intent] <= 0.3 {
			continue
		}
		alternatives = append(alternatives, IntentAlternative{
			Intent:     intent,
			Confidence: scores[intent],
			Reason:     intentReasons[intent],
		})
	}
	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Confidence > alternatives[j].Confidence
	})
	if len(alternatives) > 2 {
		alternatives = alternatives[:2]
	}

	return IntentResult{
		Intent:           primary,
		Confidence:       maxScore,
		Reasoning:        intentReasons[primary],
		Alternatives:     alternatives,
		UncertaintyScore: intentUncertainty(scores),
	}
}

// intentUncertainty is 1 − (top − second) clamped to [0,1]; 0.5 when there
// is no second candidate to compare against.
func intentUncertainty(scores map[Intent]float64) float64 {
	sorted := make([]float64, 0, len(scores))
	for _, s := range scores {
		sorted = append(sorted, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if len(sorted) < 2 {
		return 0.5
	}
	return clamp01(1 - (sorted[0] - sorted[1]))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
