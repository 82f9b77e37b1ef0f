package knowledge

import (
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/logger"
)

// EmotionGuide holds the educational description of each emotion
type EmotionGuide struct {
	table *Table[domain.EmotionInfo]
}

// LoadEmotionGuide loads emotions_info.json
func LoadEmotionGuide(path string, log *logger.Logger) *EmotionGuide {
	table := LoadTable[domain.EmotionInfo](path)
	if err := table.Err(); err != nil {
		log.Warn("emotion guide unavailable", "path", path, "error", err)
	}
	return &EmotionGuide{table: table}
}

// Err reports why the guide failed to load, if it did
func (g *EmotionGuide) Err() error {
	return g.table.Err()
}

// Lookup returns the guide entry for label
func (g *EmotionGuide) Lookup(label string) (domain.EmotionInfo, bool) {
	info, ok := g.table.Get(label)
	if !ok {
		return domain.EmotionInfo{}, false
	}
	info.Causes = append([]string{}, info.Causes...)
	info.HowToDeal = append([]string{}, info.HowToDeal...)
	return info, true
}

// Labels lists the emotions the guide describes, sorted
func (g *EmotionGuide) Labels() []string {
	return g.table.Labels()
}
