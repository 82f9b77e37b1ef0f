package journal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/logger"
)

var (
	ErrInvalidInput         = errors.New("invalid entry input")
	ErrClassificationFailed = errors.New("entry analysis failed")
)

// Classifier labels entry text
type Classifier interface {
	Classify(ctx context.Context, text string) (classifier.Result, error)
}

// Lookup resolves an emotion label to its recommendation document
type Lookup interface {
	Lookup(label string) domain.Recommendation
}

// EnricherOptions tunes an Enricher
type EnricherOptions struct {
	// LabelPrefix is stripped from model labels, e.g. fastText's "__label__"
	LabelPrefix string
	Log         *logger.Logger
	// Persist, when set, durably saves the entry before it joins the store.
	// Its result replaces the entry; an error aborts the enrichment.
	Persist func(domain.Entry) (domain.Entry, error)
}

// Enricher turns raw input into a classified entry and appends it to a Store
type Enricher struct {
	classifier  Classifier
	lookup      Lookup
	store       *Store
	labelPrefix string
	log         *logger.Logger
	persist     func(domain.Entry) (domain.Entry, error)
}

// NewEnricher wires the classifier and lookup to the store entries are appended to
func NewEnricher(c Classifier, l Lookup, store *Store, opts EnricherOptions) *Enricher {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Enricher{
		classifier:  c,
		lookup:      l,
		store:       store,
		labelPrefix: opts.LabelPrefix,
		log:         log,
		persist:     opts.Persist,
	}
}

// Enrich validates raw, classifies its text, attaches a recommendation,
// persists the entry and appends it to the store. On error nothing is stored.
func (e *Enricher) Enrich(ctx context.Context, raw domain.RawEntry) (domain.Entry, domain.ImmediateAnalysis, error) {
	entry, err := NewEntry(raw)
	if err != nil {
		return domain.Entry{}, domain.ImmediateAnalysis{}, err
	}

	res, err := e.classifier.Classify(ctx, entry.Text)
	if err != nil {
		e.log.Warn("entry classification failed", "timestamp", entry.Timestamp, "error", err)
		return domain.Entry{}, domain.ImmediateAnalysis{}, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}

	if res.Degraded {
		entry.Emotion = classifier.UnknownLabel
		entry.Intensity = 0
	} else {
		entry.Emotion = strings.TrimPrefix(res.Label, e.labelPrefix)
		entry.Intensity = Intensity(res.Confidence)
	}
	if entry.Emotion == "" {
		return domain.Entry{}, domain.ImmediateAnalysis{}, fmt.Errorf("%w: label %q is empty after prefix removal", ErrClassificationFailed, res.Label)
	}

	entry.Recommendation = e.lookup.Lookup(entry.Emotion)

	if e.persist != nil {
		saved, err := e.persist(entry)
		if err != nil {
			return domain.Entry{}, domain.ImmediateAnalysis{}, fmt.Errorf("persist entry: %w", err)
		}
		entry = saved
	}

	analysis := domain.ImmediateAnalysis{
		ManifestedEmotion: entry.Emotion,
		Intensity:         entry.Intensity,
		Recommendation:    entry.Recommendation,
	}

	e.store.Append(entry)
	e.log.Debug("entry enriched", "id", entry.ID, "emotion", entry.Emotion, "intensity", entry.Intensity, "degraded", res.Degraded)
	return entry, analysis, nil
}

// NewEntry validates raw input into an unenriched entry
func NewEntry(raw domain.RawEntry) (domain.Entry, error) {
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return domain.Entry{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	entry := domain.Entry{
		ID:                 uuid.New().String(),
		Timestamp:          strings.TrimSpace(raw.Timestamp),
		Text:               text,
		Triggers:           CleanTags(raw.Triggers),
		PhysicalSensations: CleanTags(raw.PhysicalSensations),
		Thoughts:           CleanTags(raw.Thoughts),
	}
	if _, ok := entry.Time(); !ok {
		return domain.Entry{}, fmt.Errorf("%w: timestamp %q is not in %q format", ErrInvalidInput, raw.Timestamp, domain.TimestampLayout)
	}
	return entry, nil
}

// CleanTags trims tags and drops blank ones; the result is never nil
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// SplitTags parses a comma-separated tag list as typed into a form
func SplitTags(s string) []string {
	return CleanTags(strings.Split(s, ","))
}

// Intensity maps a confidence in [0,1] to the 0..10 scale
func Intensity(confidence float64) int {
	v := int(math.Round(confidence * 10))
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
