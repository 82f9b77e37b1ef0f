package analysis

import (
	"math"

	"github.com/pbaille/moodlog/internal/domain"
)

const chartTopN = 10

// Stats are the chart series drawn over the diary
type Stats struct {
	Dates []string `json:"dates"`
	// EmotionCounts maps date to emotion to number of entries
	EmotionCounts map[string]map[string]int `json:"emotion_counts"`
	// AverageIntensity maps date to emotion to mean intensity, one decimal
	AverageIntensity map[string]map[string]float64 `json:"average_intensity"`
	TopTriggers      []Count                       `json:"top_triggers"`
	TopSensations    []Count                       `json:"top_sensations"`
	TopThoughts      []Count                       `json:"top_thoughts"`
}

// ComputeStats builds the chart series. It returns nil for no entries.
func ComputeStats(entries []domain.Entry) *Stats {
	if len(entries) == 0 {
		return nil
	}

	counts := make(map[string]map[string]int)
	sums := make(map[string]map[string]int)
	var triggers, sensations, thoughts []string

	for _, e := range entries {
		date := e.Date()
		if counts[date] == nil {
			counts[date] = make(map[string]int)
			sums[date] = make(map[string]int)
		}
		counts[date][e.Emotion]++
		sums[date][e.Emotion] += e.Intensity

		triggers = append(triggers, e.Triggers...)
		sensations = append(sensations, e.PhysicalSensations...)
		thoughts = append(thoughts, e.Thoughts...)
	}

	avg := make(map[string]map[string]float64, len(counts))
	for date, byEmotion := range counts {
		avg[date] = make(map[string]float64, len(byEmotion))
		for emotion, n := range byEmotion {
			mean := float64(sums[date][emotion]) / float64(n)
			avg[date][emotion] = math.Round(mean*10) / 10
		}
	}

	return &Stats{
		Dates:            SortedDates(counts),
		EmotionCounts:    counts,
		AverageIntensity: avg,
		TopTriggers:      nonNil(TopCounts(triggers, chartTopN)),
		TopSensations:    nonNil(TopCounts(sensations, chartTopN)),
		TopThoughts:      nonNil(TopCounts(thoughts, chartTopN)),
	}
}

func nonNil(c []Count) []Count {
	if c == nil {
		return []Count{}
	}
	return c
}
