package classifier

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/moodlog/internal/textutil"
)

// LexiconLabel is one class of a lexicon model with its keywords
type LexiconLabel struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// LexiconFile is the on-disk YAML layout of a lexicon model
type LexiconFile struct {
	FallbackLabel string         `yaml:"fallback_label"`
	Labels        []LexiconLabel `yaml:"labels"`
}

// Lexicon is an offline keyword model. Each label scores one point per
// keyword found in the text; confidence is the winner's share of all points.
// Ties go to the label declared first.
type Lexicon struct {
	fallback string
	labels   []LexiconLabel
}

// LoadLexicon reads a lexicon model from a YAML file
func LoadLexicon(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var file LexiconFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	return NewLexicon(file)
}

// NewLexicon validates file and folds its keywords
func NewLexicon(file LexiconFile) (*Lexicon, error) {
	lex := &Lexicon{fallback: strings.TrimSpace(file.FallbackLabel)}
	for _, l := range file.Labels {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return nil, fmt.Errorf("lexicon label without a name")
		}
		var keywords []string
		for _, k := range l.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, textutil.Fold(k))
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("lexicon label %q has no keywords", name)
		}
		lex.labels = append(lex.labels, LexiconLabel{Name: name, Keywords: keywords})
	}
	if len(lex.labels) == 0 {
		return nil, fmt.Errorf("lexicon has no labels")
	}
	if lex.fallback == "" {
		lex.fallback = "neutral"
	}
	return lex, nil
}

// Predict scores text against every label
func (l *Lexicon) Predict(_ context.Context, text string) (Prediction, error) {
	normalized := textutil.Fold(strings.TrimSpace(text))
	if normalized == "" {
		return Prediction{}, fmt.Errorf("empty text")
	}

	best, bestScore, total := "", 0, 0
	for _, label := range l.labels {
		score := 0
		for _, k := range label.Keywords {
			if strings.Contains(normalized, k) {
				score++
			}
		}
		total += score
		if score > bestScore {
			best, bestScore = label.Name, score
		}
	}

	if bestScore == 0 {
		return Prediction{Label: l.fallback, Confidence: 0}, nil
	}
	return Prediction{Label: best, Confidence: float64(bestScore) / float64(total)}, nil
}

// LexiconLoader returns a Loader reading the lexicon at path
func LexiconLoader(path string) Loader {
	return func(context.Context) (Model, error) {
		lex, err := LoadLexicon(path)
		if err != nil {
			return nil, err
		}
		return lex, nil
	}
}
