package pipeline

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordConfig holds the intent keyword dictionaries. The word lists are
// replaceable configuration: defaults are embedded, and an operator can
// override them from a YAML file without touching the pipeline logic.
type KeywordConfig struct {
	Intents map[string][]string `yaml:"intents"`
}

func DefaultKeywordConfig() *KeywordConfig {
	return &KeywordConfig{
		Intents: map[string][]string{
			string(IntentSearch):    {"find", "search", "looking for", "remember", "forgot", "what was", "what movie"},
			string(IntentBrowse):    {"show", "list", "browse", "explore", "see", "what", "movies in", "genre"},
			string(IntentCompare):   {"vs", "versus", "compare", "difference", "better", "which", "prefer"},
			string(IntentRecommend): {"recommend", "suggest", "should", "what should", "advice", "opinion"},
			string(IntentExplain):   {"why", "how", "explain", "reason", "because", "what is", "tell me about"},
		},
	}
}

// LoadKeywordConfig reads a YAML override file. Intents missing from the
// file keep their embedded defaults.
func LoadKeywordConfig(path string) (*KeywordConfig, error) {
	cfg := DefaultKeywordConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyword config: %w", err)
	}
	var override KeywordConfig
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("parsing keyword config: %w", err)
	}
	for intent, words := range override.Intents {
		if len(words) > 0 {
			cfg.Intents[intent] = words
		}
	}
	return cfg, nil
}

// compileKeywordPattern builds a whole-word alternation for a keyword list.
func compileKeywordPattern(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
}
