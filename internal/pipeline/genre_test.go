package pipeline

import (
	"testing"
)

func TestDecideGenre_FixedIntentMappings(t *testing.T) {
	cases := []struct {
		name      string
		intent    Intent
		input     string
		wantGenre Genre
		wantConf  float64
	}{
		{"browse", IntentBrowse, "browse some movies", GenreExploratoryDiscovery, 0.8},
		{"compare", IntentCompare, "a or b", GenreComparativeDecision, 0.8},
		{"recommend", IntentRecommend, "something for tonight", GenreAdvisoryCuration, 0.8},
		{"explain", IntentExplain, "why did you pick that", GenreMetaSystemInquiry, 0.8},
		{"unknown", IntentUnknown, "gibberish", GenreExploratoryDiscovery, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecideGenre(tc.intent, tc.input)
			if got.Genre != tc.wantGenre {
				t.Fatalf("expected %s, got %s", tc.wantGenre, got.Genre)
			}
			if got.Confidence != tc.wantConf {
				t.Fatalf("expected confidence %.2f, got %.2f", tc.wantConf, got.Confidence)
			}
		})
	}
}

func TestDecideGenre_SearchBifurcatesOnPrecisionIndicators(t *testing.T) {
	precise := []string{
		"I remember a movie about a heist",
		"the scene where they dance",
		"that actor from the submarine film",
		"a movie from 1994",
	}
	for _, input := range precise {
		got := DecideGenre(IntentSearch, input)
		if got.Genre != GenrePrecisionLookup {
			t.Fatalf("input %q: expected precision lookup, got %s", input, got.Genre)
		}
	}

	vague := DecideGenre(IntentSearch, "find something about space")
	if vague.Genre != GenreExploratoryDiscovery {
		t.Fatalf("expected exploratory for vague search, got %s", vague.Genre)
	}
}

func TestDecideGenre_SearchCarriesCrossAlternative(t *testing.T) {
	got := DecideGenre(IntentSearch, "I remember the scene exactly")
	if len(got.Alternatives) != 1 {
		t.Fatalf("expected one alternative, got %d", len(got.Alternatives))
	}
	if got.Alternatives[0].Genre != GenreExploratoryDiscovery {
		t.Fatalf("expected exploratory alternative, got %s", got.Alternatives[0].Genre)
	}
	if got.Alternatives[0].Confidence != 0.3 {
		t.Fatalf("expected alternative confidence 0.3, got %.2f", got.Alternatives[0].Confidence)
	}

	got = DecideGenre(IntentSearch, "find something about space")
	if len(got.Alternatives) != 1 || got.Alternatives[0].Genre != GenrePrecisionLookup {
		t.Fatalf("expected precision alternative for vague search")
	}
}

func TestDecideGenre_NonSearchIntentsHaveNoAlternatives(t *testing.T) {
	got := DecideGenre(IntentRecommend, "movie night picks")
	if len(got.Alternatives) != 0 {
		t.Fatalf("expected no alternatives, got %d", len(got.Alternatives))
	}
	if got.UncertaintyScore != 0.2 {
		t.Fatalf("expected uncertainty 0.2, got %.2f", got.UncertaintyScore)
	}
}
