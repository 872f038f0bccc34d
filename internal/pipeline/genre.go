package pipeline

import (
	"regexp"
	"strings"
)

// Genre is the category of reasoning strategy a request requires. It is the
// primary key for solver selection.
type Genre string

const (
	GenreExploratoryDiscovery Genre = "G1_EXPLORATORY_DISCOVERY"
	GenrePrecisionLookup      Genre = "G2_PRECISION_LOOKUP"
	GenreComparativeDecision  Genre = "G3_COMPARATIVE_DECISION"
	GenreAdvisoryCuration     Genre = "G4_ADVISORY_CURATION"
	GenreMetaSystemInquiry    Genre = "G5_META_SYSTEM_INQUIRY"
)

type GenreAlternative struct {
	Genre      Genre   `json:"genre"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type GenreResult struct {
	Genre            Genre              `json:"genre"`
	Confidence       float64            `json:"confidence"`
	Reasoning        string             `json:"reasoning"`
	Alternatives     []GenreAlternative `json:"alternatives,omitempty"`
	UncertaintyScore float64            `json:"uncertainty_score"`
}

// precisionIndicators mark a SEARCH as a precise lookup rather than an
// exploratory one: explicit recall cues, named entity words, 4-digit years.
var precisionIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\b(remember|specific|exactly|definitely|sure)\b`),
	regexp.MustCompile(`\b(scene|line|dialogue|character|actor|director)\b`),
	regexp.MustCompile(`\d{4}`),
}

// DecideGenre maps (intent, text) to a genre. Pure function: every intent
// has a fixed mapping except SEARCH, which bifurcates on precision
// indicators in the text.
func DecideGenre(intent Intent, userInput string) GenreResult {
	lower := strings.ToLower(userInput)

	var (
		primary    Genre
		reasoning  string
		confidence = 0.8
	)

	switch intent {
	case IntentSearch:
		if isPreciseSearch(lower) {
			primary = GenrePrecisionLookup
			reasoning = "User has specific memory/details about a movie"
		} else {
			primary = GenreExploratoryDiscovery
			reasoning = "User is exploring without clear target"
		}
	case IntentBrowse:
		primary = GenreExploratoryDiscovery
		reasoning = "User wants to browse and discover"
	case IntentCompare:
		primary = GenreComparativeDecision
		reasoning = "User wants to compare or choose between options"
	case IntentRecommend:
		primary = GenreAdvisoryCuration
		reasoning = "User is asking for recommendations or advice"
	case IntentExplain:
		primary = GenreMetaSystemInquiry
		reasoning = "User wants to understand system decisions"
	default:
		primary = GenreExploratoryDiscovery
		reasoning = "Default to exploratory for unknown intent"
		confidence = 0.5
	}

	alternatives := genreAlternatives(intent, primary)

	uncertainty := 0.2
	if len(alternatives) > 0 && alternatives[0].Confidence > 0.4 {
		uncertainty = 0.4
	}

	return GenreResult{
		Genre:            primary,
		Confidence:       confidence,
		Reasoning:        reasoning,
		Alternatives:     alternatives,
		UncertaintyScore: uncertainty,
	}
}

func isPreciseSearch(lower string) bool {
	for _, pattern := range precisionIndicators {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

func genreAlternatives(intent Intent, primary Genre) []GenreAlternative {
	var alternatives []GenreAlternative

	if intent == IntentSearch {
		if primary == GenrePrecisionLookup {
			alternatives = append(alternatives, GenreAlternative{
				Genre:      GenreExploratoryDiscovery,
				Confidence: 0.3,
				Reason:     "Could be exploratory if details are vague",
			})
		} else {
			alternatives = append(alternatives, GenreAlternative{
				Genre:      GenrePrecisionLookup,
				Confidence: 0.3,
				Reason:     "Could be precise if user remembers more details",
			})
		}
	}

	filtered := alternatives[:0]
	for _, alt := range alternatives {
		if alt.Confidence > 0.2 {
			filtered = append(filtered, alt)
		}
	}
	return filtered
}
