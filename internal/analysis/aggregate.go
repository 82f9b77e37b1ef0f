package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/textutil"
)

// Engine computes long-term reports. It keeps no state between calls.
type Engine struct {
	settings *Settings
}

// NewEngine returns an engine using settings, or the defaults when nil
func NewEngine(settings *Settings) *Engine {
	if settings == nil {
		settings = DefaultSettings()
	}
	return &Engine{settings: settings}
}

// Settings returns the engine's tuning
func (e *Engine) Settings() *Settings {
	return e.settings
}

// Aggregate builds a report over entries. It returns nil for no entries.
func (e *Engine) Aggregate(entries []domain.Entry) *domain.Report {
	if len(entries) == 0 {
		return nil
	}
	s := e.settings
	msg := s.Messages

	var emotions, triggers, sensations, thoughts []string
	for _, entry := range entries {
		emotions = append(emotions, entry.Emotion)
		triggers = append(triggers, entry.Triggers...)
		sensations = append(sensations, entry.PhysicalSensations...)
		thoughts = append(thoughts, entry.Thoughts...)
	}

	dominant := MostCommon(emotions)

	trending := Top(triggers, s.TopN.Triggers)
	if len(trending) == 0 {
		trending = []string{msg.NoData}
	}

	commonSensations := Top(sensations, s.TopN.Sensations)
	if len(commonSensations) == 0 {
		commonSensations = []string{msg.NoData}
	}

	quoted := []string{msg.NoData}
	if common := Top(thoughts, s.TopN.Thoughts); len(common) > 0 {
		quoted = make([]string, len(common))
		for i, t := range common {
			quoted[i] = "«" + t + "»"
		}
	}

	return &domain.Report{
		MostCommonEmotion: fill(msg.MostCommon,
			"{label}", dominant.Label,
			"{percent}", strconv.Itoa(dominant.Percent)),
		DominantEmotion:      dominant,
		TrendingTriggers:     trending,
		PhysiologicalPattern: fill(msg.Physiological, "{items}", strings.Join(commonSensations, ", ")),
		CognitivePattern:     fill(msg.Cognitive, "{items}", strings.Join(quoted, ", ")),
		PsychologicalState:   AssessMentalState(emotions, s.MentalState),
		RiskFactors:          IdentifyRiskFactors(thoughts, s.RiskPatterns, msg),
		RiskyThoughts:        Top(thoughts, s.TopN.RiskyThoughts),
		Recommendation:       copyGuidance(s.Guidance),
		EmotionTrend:         EmotionTrend(entries),
	}
}

// MostCommon returns the most frequent label; ties go to the label seen first
func MostCommon(labels []string) domain.EmotionShare {
	counts := Rank(labels)
	if len(counts) == 0 {
		return domain.EmotionShare{}
	}
	top := counts[0]
	return domain.EmotionShare{
		Label:   top.Item,
		Count:   top.Count,
		Percent: int(math.Round(float64(top.Count) / float64(len(labels)) * 100)),
	}
}

// EmotionTrend sums intensity per emotion for each date
func EmotionTrend(entries []domain.Entry) map[string]map[string]int {
	trend := make(map[string]map[string]int)
	for _, entry := range entries {
		date := entry.Date()
		day, ok := trend[date]
		if !ok {
			day = make(map[string]int)
			trend[date] = day
		}
		day[entry.Emotion] += entry.Intensity
	}
	return trend
}

// SortedDates returns the dates of a trend in ascending order
func SortedDates[V any](trend map[string]V) []string {
	dates := make([]string, 0, len(trend))
	for d := range trend {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// AssessMentalState applies the rules in order to the share of each label
func AssessMentalState(labels []string, ms MentalState) string {
	if len(labels) == 0 {
		return ms.Default
	}
	total := float64(len(labels))
	for _, rule := range ms.Rules {
		n := 0
		for _, l := range labels {
			if l == rule.Label {
				n++
			}
		}
		if float64(n)/total > rule.Threshold {
			return rule.State
		}
	}
	return ms.Default
}

// IdentifyRiskFactors reports every pattern with at least one phrase found
// in any thought. Without a match the result holds a single entry under the
// empty key.
func IdentifyRiskFactors(thoughts []string, patterns []RiskPattern, msg Messages) map[string]string {
	folded := make([]string, len(thoughts))
	for i, t := range thoughts {
		folded[i] = textutil.Fold(t)
	}

	results := make(map[string]string)
	for _, p := range patterns {
		if matchesAny(folded, p.Phrases) {
			results[p.Name] = fill(msg.RiskExplanation, "{pattern}", p.Name)
		}
	}

	if len(results) == 0 {
		return map[string]string{"": msg.NoneIdentified}
	}
	return results
}

func matchesAny(foldedThoughts, phrases []string) bool {
	for _, phrase := range phrases {
		p := textutil.Fold(phrase)
		if p == "" {
			continue
		}
		for _, t := range foldedThoughts {
			if strings.Contains(t, p) {
				return true
			}
		}
	}
	return false
}

func copyGuidance(g domain.Guidance) domain.Guidance {
	return domain.Guidance{
		LongTerm: append([]string{}, g.LongTerm...),
		ProfessionalHelp: domain.ProfessionalHelp{
			WhenToConsider:           g.ProfessionalHelp.WhenToConsider,
			RecommendedProfessionals: append([]string{}, g.ProfessionalHelp.RecommendedProfessionals...),
			Resources:                append([]string{}, g.ProfessionalHelp.Resources...),
		},
	}
}
