package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pbaille/moodlog/internal/analysis"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/textutil"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func renderAnalysis(w io.Writer, a domain.ImmediateAnalysis) {
	probability := min(100, a.Intensity*10)

	fmt.Fprintf(w, "Emotion: %s (%d%%)\n", a.ManifestedEmotion, probability)

	fmt.Fprintf(w, "\nRecommendations:\n")
	for _, rec := range a.Recommendation.ShortTerm {
		fmt.Fprintf(w, "  - %s\n", rec)
	}

	about := a.Recommendation.About
	if about.Description != "" {
		fmt.Fprintf(w, "\nAbout this emotion:\n%s\n", about.Description)
	}
	if len(about.Causes) > 0 {
		fmt.Fprintf(w, "\nPossible causes:\n")
		for _, c := range about.Causes {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	if refs := a.Recommendation.ScientificReferences; len(refs) > 0 {
		fmt.Fprintf(w, "\nReferences:\n")
		for _, r := range refs {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func renderEntry(w io.Writer, e domain.Entry) {
	fmt.Fprintf(w, "ID:        %s\n", e.ID)
	fmt.Fprintf(w, "Date:      %s\n", e.Timestamp)
	fmt.Fprintf(w, "Emotion:   %s\n", e.Emotion)
	fmt.Fprintf(w, "Intensity: %d/10\n", e.Intensity)
	fmt.Fprintf(w, "-----------------------------\n")
	fmt.Fprintf(w, "%s\n\n", e.Text)
	fmt.Fprintf(w, "Triggers:  %s\n", strings.Join(e.Triggers, ", "))
	fmt.Fprintf(w, "Physical:  %s\n", strings.Join(e.PhysicalSensations, ", "))
	fmt.Fprintf(w, "Thoughts:  %s\n", strings.Join(e.Thoughts, ", "))

	if len(e.Recommendation.ShortTerm) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n")
		for _, rec := range e.Recommendation.ShortTerm {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}

func renderEntryLine(w io.Writer, e domain.Entry) {
	fmt.Fprintf(w, "%s  %-16s  %-10s  %-24s  %s\n",
		shortID(e.ID), e.Timestamp, e.Emotion,
		truncate(strings.Join(e.Triggers, ", "), 24), truncate(e.Text, 50))
}

func renderReport(w io.Writer, r *domain.Report) {
	fmt.Fprintf(w, "Long-term analysis\n\n")
	fmt.Fprintf(w, "Dominant emotion:      %s\n", r.MostCommonEmotion)
	fmt.Fprintf(w, "Main triggers:         %s\n", strings.Join(r.TrendingTriggers, ", "))
	fmt.Fprintf(w, "Physiology:            %s\n", r.PhysiologicalPattern)
	fmt.Fprintf(w, "Cognition:             %s\n", r.CognitivePattern)
	fmt.Fprintf(w, "Psychological state:   %s\n", r.PsychologicalState)

	if len(r.RiskyThoughts) > 0 {
		fmt.Fprintf(w, "\nConscious thoughts:\n")
		for _, t := range r.RiskyThoughts {
			fmt.Fprintf(w, "  - %s\n", t)
		}
	}

	fmt.Fprintf(w, "\nRisk factors:\n")
	names := make([]string, 0, len(r.RiskFactors))
	for name := range r.RiskFactors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "" {
			fmt.Fprintf(w, "  %s\n", r.RiskFactors[name])
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", textutil.Capitalize(name), r.RiskFactors[name])
	}

	fmt.Fprintf(w, "\nDynamics by day:\n")
	for _, date := range analysis.SortedDates(r.EmotionTrend) {
		day := r.EmotionTrend[date]
		emotions := make([]string, 0, len(day))
		for em := range day {
			emotions = append(emotions, em)
		}
		sort.Strings(emotions)
		parts := make([]string, len(emotions))
		for i, em := range emotions {
			parts[i] = fmt.Sprintf("%s %d", em, day[em])
		}
		fmt.Fprintf(w, "  %s: %s\n", date, strings.Join(parts, ", "))
	}

	g := r.Recommendation
	fmt.Fprintf(w, "\nLong-term recommendations:\n")
	for _, rec := range g.LongTerm {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
	fmt.Fprintf(w, "\nWhen to seek help: %s\n", g.ProfessionalHelp.WhenToConsider)
	if len(g.ProfessionalHelp.RecommendedProfessionals) > 0 {
		fmt.Fprintf(w, "Specialists: %s\n", strings.Join(g.ProfessionalHelp.RecommendedProfessionals, ", "))
	}
	if len(g.ProfessionalHelp.Resources) > 0 {
		fmt.Fprintf(w, "Resources:\n")
		for _, res := range g.ProfessionalHelp.Resources {
			fmt.Fprintf(w, "  - %s\n", res)
		}
	}
}

func renderStats(w io.Writer, s *analysis.Stats) {
	fmt.Fprintf(w, "Emotions by day:\n")
	for _, date := range s.Dates {
		counts := s.EmotionCounts[date]
		emotions := make([]string, 0, len(counts))
		for em := range counts {
			emotions = append(emotions, em)
		}
		sort.Strings(emotions)
		parts := make([]string, len(emotions))
		for i, em := range emotions {
			parts[i] = fmt.Sprintf("%s %d (avg %.1f)", em, counts[em], s.AverageIntensity[date][em])
		}
		fmt.Fprintf(w, "  %s: %s\n", date, strings.Join(parts, ", "))
	}

	renderCounts(w, "Top triggers", s.TopTriggers)
	renderCounts(w, "Top sensations", s.TopSensations)
	renderCounts(w, "Frequent thoughts", s.TopThoughts)
}

func renderCounts(w io.Writer, title string, counts []analysis.Count) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  (none)\n")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %3d  %s\n", c.Count, c.Item)
	}
}

func renderEmotionInfo(w io.Writer, label string, info domain.EmotionInfo) {
	fmt.Fprintf(w, "%s\n\n%s\n", textutil.Capitalize(label), info.Description)
	if len(info.Causes) > 0 {
		fmt.Fprintf(w, "\nCauses:\n")
		for _, c := range info.Causes {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	if len(info.HowToDeal) > 0 {
		fmt.Fprintf(w, "\nHow to deal with it:\n")
		for _, h := range info.HowToDeal {
			fmt.Fprintf(w, "  - %s\n", h)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
