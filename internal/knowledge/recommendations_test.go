package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/logger"
)

const testRecommendations = "\ufeff" + `{
  "fear": {
    "short_term": ["Сделайте три медленных вдоха"],
    "scientific_references": ["Craske et al., 2014"],
    "about": {"description": "Реакция на угрозу", "causes": ["неопределённость"]}
  },
  "Грусть": {"short_term": ["Позвоните близкому человеку"]}
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLookupToleratesBOMAndCase(t *testing.T) {
	r := LoadRecommendations(writeFile(t, "recommendations.json", testRecommendations), logger.Nop())
	if r.Err() != nil {
		t.Fatalf("unexpected load error: %v", r.Err())
	}

	doc := r.Lookup("FEAR")
	if len(doc.ShortTerm) != 1 || doc.ShortTerm[0] != "Сделайте три медленных вдоха" {
		t.Fatalf("unexpected short_term %v", doc.ShortTerm)
	}
	if doc.About.Description != "Реакция на угрозу" {
		t.Fatalf("unexpected about %+v", doc.About)
	}

	sad := r.Lookup("грусть")
	if len(sad.ShortTerm) != 1 {
		t.Fatalf("expected mixed-case key to be found, got %+v", sad)
	}
	if sad.ScientificReferences == nil || sad.About.Causes == nil {
		t.Fatalf("missing arrays should be empty, got %+v", sad)
	}
}

func TestLookupFallbackMatchesUnavailableTable(t *testing.T) {
	loaded := LoadRecommendations(writeFile(t, "recommendations.json", testRecommendations), logger.Nop())
	missing := LoadRecommendations(filepath.Join(t.TempDir(), "missing.json"), logger.Nop())

	if !errors.Is(missing.Err(), ErrTableUnavailable) {
		t.Fatalf("expected ErrTableUnavailable, got %v", missing.Err())
	}

	fromUnknown := loaded.Lookup("nonexistent_emotion")
	fromMissing := missing.Lookup("fear")
	if !reflect.DeepEqual(fromUnknown, fromMissing) {
		t.Fatalf("fallbacks differ: %+v vs %+v", fromUnknown, fromMissing)
	}
	if !reflect.DeepEqual(fromUnknown, DefaultRecommendation()) {
		t.Fatalf("unexpected fallback %+v", fromUnknown)
	}
}

func TestLoadRecommendationsInvalidJSON(t *testing.T) {
	r := LoadRecommendations(writeFile(t, "recommendations.json", "{not json"), logger.Nop())
	if !errors.Is(r.Err(), ErrTableUnavailable) {
		t.Fatalf("expected ErrTableUnavailable, got %v", r.Err())
	}
	if got := r.Lookup("fear"); !reflect.DeepEqual(got, DefaultRecommendation()) {
		t.Fatalf("unexpected doc %+v", got)
	}
}

func TestLookupDoesNotShareDefault(t *testing.T) {
	r := NewRecommendations(NewTable[domain.Recommendation](nil))
	first := r.Lookup("x")
	first.ShortTerm[0] = "changed"
	if second := r.Lookup("x"); second.ShortTerm[0] != "no recommendations found" {
		t.Fatalf("default document was mutated: %v", second.ShortTerm)
	}
}

func TestLabelsSorted(t *testing.T) {
	r := LoadRecommendations(writeFile(t, "recommendations.json", testRecommendations), logger.Nop())
	if got := r.Labels(); !reflect.DeepEqual(got, []string{"fear", "грусть"}) {
		t.Fatalf("Labels=%v", got)
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	r := LoadRecommendations(writeFile(t, "recommendations.json", testRecommendations), logger.Nop())

	doc := r.Lookup("fear")
	doc.ShortTerm[0] = "changed"
	doc.About.Causes[0] = "changed"

	again := r.Lookup("fear")
	if again.ShortTerm[0] != "Сделайте три медленных вдоха" || again.About.Causes[0] != "неопределённость" {
		t.Fatalf("lookup result aliases the table: %+v", again)
	}
}
