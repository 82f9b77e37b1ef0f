package knowledge

import (
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/logger"
)

// DefaultRecommendation is returned for unknown labels and when the table failed to load
func DefaultRecommendation() domain.Recommendation {
	return domain.Recommendation{
		ShortTerm:            []string{"no recommendations found"},
		ScientificReferences: []string{},
		About:                domain.About{Causes: []string{}},
	}
}

// Recommendations maps emotion labels to advice documents
type Recommendations struct {
	table *Table[domain.Recommendation]
}

// LoadRecommendations loads the recommendation table once. A failure is
// logged and leaves every lookup returning DefaultRecommendation.
func LoadRecommendations(path string, log *logger.Logger) *Recommendations {
	table := LoadTable[domain.Recommendation](path)
	if err := table.Err(); err != nil {
		log.Warn("recommendation table unavailable, using default advice", "path", path, "error", err)
	}
	return &Recommendations{table: table}
}

// NewRecommendations wraps an in-memory table
func NewRecommendations(table *Table[domain.Recommendation]) *Recommendations {
	return &Recommendations{table: table}
}

// Err reports why the table failed to load, if it did
func (r *Recommendations) Err() error {
	return r.table.Err()
}

// Lookup returns the document for label, or the default document
func (r *Recommendations) Lookup(label string) domain.Recommendation {
	doc, ok := r.table.Get(label)
	if !ok {
		return DefaultRecommendation()
	}
	return normalize(doc)
}

// Labels lists the emotions the table has advice for
func (r *Recommendations) Labels() []string {
	return r.table.Labels()
}

// normalize copies the arrays out of the table, so callers may modify the
// result, and turns missing arrays into empty ones
func normalize(doc domain.Recommendation) domain.Recommendation {
	doc.ShortTerm = append([]string{}, doc.ShortTerm...)
	doc.ScientificReferences = append([]string{}, doc.ScientificReferences...)
	doc.About.Causes = append([]string{}, doc.About.Causes...)
	return doc
}
