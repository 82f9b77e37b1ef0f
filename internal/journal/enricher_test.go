package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/knowledge"
	"github.com/pbaille/moodlog/internal/logger"
)

type fakeModel struct {
	calls int
	pred  classifier.Prediction
	err   error
}

func (m *fakeModel) Predict(context.Context, string) (classifier.Prediction, error) {
	m.calls++
	return m.pred, m.err
}

func newAdapter(m classifier.Model) *classifier.Adapter {
	return classifier.NewAdapter(context.Background(), func(context.Context) (classifier.Model, error) {
		return m, nil
	}, logger.Nop())
}

func testLookup() *knowledge.Recommendations {
	return knowledge.NewRecommendations(knowledge.NewTable(map[string]domain.Recommendation{
		"fear": {ShortTerm: []string{"Дышите медленно"}},
	}))
}

func exampleInput() domain.RawEntry {
	return domain.RawEntry{
		Timestamp:          "2024-05-12 09:30",
		Text:               "Я боюсь провала",
		Triggers:           []string{"экзамен"},
		PhysicalSensations: []string{"дрожь"},
		Thoughts:           []string{"я не справлюсь"},
	}
}

func TestEnrichExample(t *testing.T) {
	store := NewStore(nil)
	model := &fakeModel{pred: classifier.Prediction{Label: "__label__fear", Confidence: 0.82}}
	e := NewEnricher(newAdapter(model), testLookup(), store, EnricherOptions{LabelPrefix: "__label__"})

	entry, analysis, err := e.Enrich(context.Background(), exampleInput())
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if entry.Emotion != "fear" || entry.Intensity != 8 {
		t.Fatalf("unexpected entry emotion=%q intensity=%d", entry.Emotion, entry.Intensity)
	}
	if analysis.ManifestedEmotion != entry.Emotion || analysis.Intensity != entry.Intensity {
		t.Fatalf("analysis %+v disagrees with entry", analysis)
	}
	if len(analysis.Recommendation.ShortTerm) != 1 || analysis.Recommendation.ShortTerm[0] != "Дышите медленно" {
		t.Fatalf("unexpected recommendation %+v", analysis.Recommendation)
	}
	if entry.ID == "" {
		t.Fatal("expected an entry id")
	}

	stored := store.Snapshot()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(stored))
	}
	if stored[0].Emotion != "fear" || stored[0].Intensity != 8 || stored[0].ID != entry.ID {
		t.Fatalf("stored entry differs: %+v", stored[0])
	}
}

func TestEnrichInvalidInput(t *testing.T) {
	store := NewStore(nil)
	model := &fakeModel{pred: classifier.Prediction{Label: "fear", Confidence: 0.5}}
	e := NewEnricher(newAdapter(model), testLookup(), store, EnricherOptions{})

	cases := []domain.RawEntry{
		{Timestamp: "2024-05-12 09:30", Text: "   "},
		{Timestamp: "12/05/2024", Text: "текст"},
		{Text: "текст"},
	}
	for _, raw := range cases {
		if _, _, err := e.Enrich(context.Background(), raw); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", raw, err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("invalid input stored %d entries", store.Len())
	}
	if model.calls != 0 {
		t.Fatalf("classifier called %d times for invalid input", model.calls)
	}
}

func TestEnrichClassificationFailureStoresNothing(t *testing.T) {
	store := NewStore(nil)
	model := &fakeModel{err: errors.New("internal model error")}
	e := NewEnricher(newAdapter(model), testLookup(), store, EnricherOptions{})

	_, _, err := e.Enrich(context.Background(), exampleInput())
	if !errors.Is(err, ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
	if !errors.Is(err, classifier.ErrClassificationFailed) {
		t.Fatalf("expected classifier cause to be preserved, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("failed enrichment stored %d entries", store.Len())
	}
}

func TestEnrichDegradedClassifier(t *testing.T) {
	store := NewStore(nil)
	model := &fakeModel{pred: classifier.Prediction{Label: "fear", Confidence: 1}}
	adapter := classifier.NewAdapter(context.Background(), func(context.Context) (classifier.Model, error) {
		// a model returned along with an error must never be used
		return model, errors.New("model file corrupt")
	}, logger.Nop())
	e := NewEnricher(adapter, testLookup(), store, EnricherOptions{})

	for i := 0; i < 100; i++ {
		entry, analysis, err := e.Enrich(context.Background(), exampleInput())
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if entry.Emotion != "unknown" || entry.Intensity != 0 {
			t.Fatalf("call %d: unexpected entry %q/%d", i, entry.Emotion, entry.Intensity)
		}
		if analysis.ManifestedEmotion != "unknown" {
			t.Fatalf("call %d: unexpected analysis %+v", i, analysis)
		}
		if analysis.Recommendation.ShortTerm[0] != "no recommendations found" {
			t.Fatalf("call %d: expected default recommendation, got %+v", i, analysis.Recommendation)
		}
	}
	if model.calls != 0 {
		t.Fatalf("model reached %d times in degraded mode", model.calls)
	}
	if store.Len() != 100 {
		t.Fatalf("expected 100 stored entries, got %d", store.Len())
	}
}

func TestEnrichCleansTags(t *testing.T) {
	store := NewStore(nil)
	model := &fakeModel{pred: classifier.Prediction{Label: "fear", Confidence: 0.5}}
	e := NewEnricher(newAdapter(model), testLookup(), store, EnricherOptions{})

	raw := exampleInput()
	raw.Triggers = []string{" работа ", "", "  "}
	raw.PhysicalSensations = nil

	entry, _, err := e.Enrich(context.Background(), raw)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(entry.Triggers) != 1 || entry.Triggers[0] != "работа" {
		t.Fatalf("unexpected triggers %q", entry.Triggers)
	}
	if entry.PhysicalSensations == nil || len(entry.PhysicalSensations) != 0 {
		t.Fatalf("expected empty sensations, got %#v", entry.PhysicalSensations)
	}
}

func TestIntensity(t *testing.T) {
	cases := []struct {
		confidence float64
		want       int
	}{
		{0, 0},
		{0.04, 0},
		{0.05, 1},
		{0.82, 8},
		{0.86, 9},
		{1, 10},
		{1.5, 10},
		{-1, 0},
	}
	for _, c := range cases {
		if got := Intensity(c.confidence); got != c.want {
			t.Fatalf("Intensity(%v)=%d want %d", c.confidence, got, c.want)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" работа, ссора ,, ")
	if len(got) != 2 || got[0] != "работа" || got[1] != "ссора" {
		t.Fatalf("SplitTags=%q", got)
	}
	if got := SplitTags(""); len(got) != 0 {
		t.Fatalf("SplitTags empty=%q", got)
	}
}

func TestEnrichPersistsBeforeAppend(t *testing.T) {
	store := NewStore(nil)
	model := &fakeModel{pred: classifier.Prediction{Label: "fear", Confidence: 0.82}}

	var saved []domain.Entry
	e := NewEnricher(newAdapter(model), testLookup(), store, EnricherOptions{
		Persist: func(entry domain.Entry) (domain.Entry, error) {
			if store.Len() != 0 {
				t.Fatal("entry joined the store before it was persisted")
			}
			entry.ID = "saved-1"
			saved = append(saved, entry)
			return entry, nil
		},
	})

	entry, _, err := e.Enrich(context.Background(), exampleInput())
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(saved) != 1 || entry.ID != "saved-1" {
		t.Fatalf("persisted %d entries, returned id %q", len(saved), entry.ID)
	}
	if got := store.Snapshot(); len(got) != 1 || got[0].ID != "saved-1" {
		t.Fatalf("store holds %+v", got)
	}
}

func TestEnrichPersistFailureStoresNothing(t *testing.T) {
	store := NewStore(nil)
	model := &fakeModel{pred: classifier.Prediction{Label: "fear", Confidence: 0.82}}
	e := NewEnricher(newAdapter(model), testLookup(), store, EnricherOptions{
		Persist: func(domain.Entry) (domain.Entry, error) {
			return domain.Entry{}, errors.New("disk full")
		},
	})

	if _, _, err := e.Enrich(context.Background(), exampleInput()); err == nil {
		t.Fatal("expected persist error")
	}
	if store.Len() != 0 {
		t.Fatalf("unpersisted entry kept in store: %d", store.Len())
	}
}
