package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the caller-assigned entry timestamp format
const TimestampLayout = "2006-01-02 15:04"

// Entry is one journaled situation with its derived emotion
type Entry struct {
	ID                 string         `json:"id,omitempty"`
	Timestamp          string         `json:"timestamp"`
	Text               string         `json:"text"`
	Triggers           []string       `json:"triggers"`
	PhysicalSensations []string       `json:"physical_sensations"`
	Thoughts           []string       `json:"thoughts"`
	Emotion            string         `json:"emotion"`
	Intensity          int            `json:"intensity"`
	Recommendation     Recommendation `json:"recommendation"`
	CreatedAt          time.Time      `json:"created_at,omitempty"`
}

// Date returns the date portion of the timestamp (first space-delimited token)
func (e Entry) Date() string {
	date, _, _ := strings.Cut(e.Timestamp, " ")
	return date
}

// Time parses the timestamp; ok is false when it does not match TimestampLayout
func (e Entry) Time() (time.Time, bool) {
	t, err := time.Parse(TimestampLayout, e.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RawEntry is the unenriched input produced by a form or the CLI
type RawEntry struct {
	Timestamp          string   `json:"timestamp"`
	Text               string   `json:"text"`
	Triggers           []string `json:"triggers"`
	PhysicalSensations []string `json:"physical_sensations"`
	Thoughts           []string `json:"thoughts"`
}

// About describes an emotion inside a recommendation document
type About struct {
	Description string   `json:"description"`
	Causes      []string `json:"causes"`
}

// Recommendation is the per-emotion advice document
type Recommendation struct {
	ShortTerm            []string `json:"short_term"`
	ScientificReferences []string `json:"scientific_references"`
	About                About    `json:"about"`
}

// ImmediateAnalysis is returned once per enrichment and not stored by the core
type ImmediateAnalysis struct {
	ManifestedEmotion string         `json:"manifested_emotion"`
	Intensity         int            `json:"intensity"`
	Recommendation    Recommendation `json:"recommendation"`
}

// EmotionShare is the most common emotion with its share of entries
type EmotionShare struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// ProfessionalHelp is the "when to seek help" part of the long-term guidance
type ProfessionalHelp struct {
	WhenToConsider           string   `json:"when_to_consider" yaml:"when_to_consider"`
	RecommendedProfessionals []string `json:"recommended_professionals" yaml:"recommended_professionals"`
	Resources                []string `json:"resources" yaml:"resources"`
}

// Guidance is the fixed long-term recommendation document
type Guidance struct {
	LongTerm         []string         `json:"long_term" yaml:"long_term"`
	ProfessionalHelp ProfessionalHelp `json:"professional_help" yaml:"professional_help"`
}

// Report is the long-term aggregation over all stored entries
type Report struct {
	MostCommonEmotion    string                    `json:"most_common_emotion"`
	DominantEmotion      EmotionShare              `json:"dominant_emotion"`
	TrendingTriggers     []string                  `json:"trending_triggers"`
	PhysiologicalPattern string                    `json:"physiological_pattern"`
	CognitivePattern     string                    `json:"cognitive_pattern"`
	PsychologicalState   string                    `json:"psychological_state"`
	RiskFactors          map[string]string         `json:"risk_factors"`
	RiskyThoughts        []string                  `json:"risky_thoughts"`
	Recommendation       Guidance                  `json:"recommendation"`
	EmotionTrend         map[string]map[string]int `json:"emotion_trend"`
}

// EmotionInfo is an educational document about one emotion
type EmotionInfo struct {
	Description string   `json:"description"`
	Causes      []string `json:"causes"`
	HowToDeal   []string `json:"how_to_deal"`
}
