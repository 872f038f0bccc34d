package pipeline

import (
	"regexp"
	"strings"
)

// Tag is a genre-scoped control signal steering solver choice, not a
// display label.
type Tag struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type TagResult struct {
	PrimaryTags      []Tag   `json:"primary_tags"`
	AlternativeTags  []Tag   `json:"alternative_tags"`
	UncertaintyScore float64 `json:"uncertainty_score"`
	Genre            Genre   `json:"genre"`
}

type tagPattern struct {
	pattern *regexp.Regexp
	tag     Tag
}

type genreTagSet struct {
	patterns    []tagPattern
	fallback    Tag
	uncertainty float64
}

var genreTagSets = map[Genre]genreTagSet{
	GenreExploratoryDiscovery: {
		patterns: []tagPattern{
			{regexp.MustCompile(`\b(similar|like|same|kind of|type of)\b`), Tag{Code: "G1_TAG_SIMILARITY", Name: "Similarity-based exploration", Confidence: 0.8, Reasoning: "User wants similar movies"}},
			{regexp.MustCompile(`\b(new|different|other|explore|discover)\b`), Tag{Code: "G1_TAG_NOVELTY", Name: "Novelty-seeking", Confidence: 0.7, Reasoning: "User wants to discover new movies"}},
			{regexp.MustCompile(`\b(genre|type|category)\b`), Tag{Code: "G1_TAG_GENRE_BASED", Name: "Genre-based exploration", Confidence: 0.8, Reasoning: "User exploring by genre"}},
		},
		fallback:    Tag{Code: "G1_TAG_GENERIC", Name: "Generic exploration", Confidence: 0.5, Reasoning: "Generic exploratory request"},
		uncertainty: 0.3,
	},
	GenrePrecisionLookup: {
		patterns: []tagPattern{
			{regexp.MustCompile(`\b(scene|dialogue|line|quote)\b`), Tag{Code: "G2_TAG_CONTENT_MEMORY", Name: "Content-based memory", Confidence: 0.9, Reasoning: "User remembers specific content"}},
			{regexp.MustCompile(`\b(actor|actress|director|character|star)\b`), Tag{Code: "G2_TAG_PERSON_BASED", Name: "Person-based lookup", Confidence: 0.8, Reasoning: "User remembers people involved"}},
			{regexp.MustCompile(`\d{4}|\b(year|decade|old|recent|new)\b`), Tag{Code: "G2_TAG_TEMPORAL", Name: "Temporal memory", Confidence: 0.7, Reasoning: "User remembers time period"}},
		},
		fallback:    Tag{Code: "G2_TAG_GENERIC", Name: "Generic precision lookup", Confidence: 0.6, Reasoning: "Generic precise search"},
		uncertainty: 0.2,
	},
	GenreComparativeDecision: {
		patterns: []tagPattern{
			{regexp.MustCompile(`\b(vs|versus|compare|between)\b`), Tag{Code: "G3_TAG_DIRECT_COMPARE", Name: "Direct comparison", Confidence: 0.9, Reasoning: "User comparing specific items"}},
			{regexp.MustCompile(`\b(best|top|worst|better|prefer|choose)\b`), Tag{Code: "G3_TAG_RANKING", Name: "Ranking/selection", Confidence: 0.8, Reasoning: "User wants ranking or selection"}},
		},
		fallback:    Tag{Code: "G3_TAG_GENERIC", Name: "Generic comparison", Confidence: 0.6, Reasoning: "Generic comparison request"},
		uncertainty: 0.3,
	},
	GenreAdvisoryCuration: {
		patterns: []tagPattern{
			{regexp.MustCompile(`\b(like|enjoy|watched|seen|favorite)\b`), Tag{Code: "G4_TAG_PERSONALIZED", Name: "Personalized recommendation", Confidence: 0.8, Reasoning: "User wants personalized suggestions"}},
			{regexp.MustCompile(`\b(mood|feel|want|need|looking for)\b`), Tag{Code: "G4_TAG_CONTEXTUAL", Name: "Contextual recommendation", Confidence: 0.7, Reasoning: "User wants context-based suggestions"}},
		},
		fallback:    Tag{Code: "G4_TAG_GENERIC", Name: "Generic recommendation", Confidence: 0.6, Reasoning: "Generic recommendation request"},
		uncertainty: 0.4,
	},
	GenreMetaSystemInquiry: {
		patterns: []tagPattern{
			{regexp.MustCompile(`\b(why|how|reason|because|explain)\b`), Tag{Code: "G5_TAG_DECISION_EXPLANATION", Name: "Decision explanation", Confidence: 0.9, Reasoning: "User wants to understand decision"}},
			{regexp.MustCompile(`\b(criteria|standard|basis|how did|what made)\b`), Tag{Code: "G5_TAG_CRITERIA_INQUIRY", Name: "Criteria inquiry", Confidence: 0.8, Reasoning: "User asking about criteria"}},
		},
		fallback:    Tag{Code: "G5_TAG_GENERIC", Name: "Generic system inquiry", Confidence: 0.6, Reasoning: "Generic system question"},
		uncertainty: 0.2,
	},
}

// GranularizeTags maps (genre, text) to one or more control-signal tags.
// When no pattern matches it emits exactly one genre-specific fallback tag:
// the pipeline never proceeds with zero tags.
func GranularizeTags(genre Genre, userInput string) TagResult {
	lower := strings.ToLower(userInput)

	set, ok := genreTagSets[genre]
	if !ok {
		return TagResult{
			PrimaryTags: []Tag{
				{Code: "TAG_UNKNOWN_GENRE", Name: "Unclassified request", Confidence: 0.3, Reasoning: "No tag set for genre"},
			},
			AlternativeTags:  []Tag{},
			UncertaintyScore: 1.0,
			Genre:            genre,
		}
	}

	var tags []Tag
	for _, tp := range set.patterns {
		if tp.pattern.MatchString(lower) {
			tags = append(tags, tp.tag)
		}
	}
	if len(tags) == 0 {
		tags = []Tag{set.fallback}
	}

	return TagResult{
		PrimaryTags:      tags,
		AlternativeTags:  []Tag{},
		UncertaintyScore: set.uncertainty,
		Genre:            genre,
	}
}
