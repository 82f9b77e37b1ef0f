package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/textutil"
)

// SearchScope selects which fields a text query looks at
type SearchScope string

const (
	ScopeText     SearchScope = "text"
	ScopeThoughts SearchScope = "thoughts"
	ScopeAll      SearchScope = "all"
)

// ParseScope validates a scope name; empty means ScopeAll
func ParseScope(s string) (SearchScope, error) {
	switch SearchScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeText:
		return ScopeText, nil
	case ScopeThoughts:
		return ScopeThoughts, nil
	}
	return "", fmt.Errorf("unknown search scope %q (use text, thoughts or all)", s)
}

// Filter narrows a diary listing. Zero fields do not filter.
type Filter struct {
	Emotion string
	// From and To bound the entry date, inclusive
	From  time.Time
	To    time.Time
	Query string
	Scope SearchScope
}

// Apply returns the matching entries, newest first
func (f Filter) Apply(entries []domain.Entry) []domain.Entry {
	query := textutil.Fold(strings.TrimSpace(f.Query))
	emotion := strings.TrimSpace(f.Emotion)

	out := []domain.Entry{}
	for _, e := range entries {
		if emotion != "" && e.Emotion != emotion {
			continue
		}
		if !f.inRange(e) {
			continue
		}
		if query != "" && !f.matches(e, query) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

func (f Filter) inRange(e domain.Entry) bool {
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}
	t, ok := e.Time()
	if !ok {
		return false
	}
	day := truncateDay(t)
	if !f.From.IsZero() && day.Before(truncateDay(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(truncateDay(f.To)) {
		return false
	}
	return true
}

func (f Filter) matches(e domain.Entry, foldedQuery string) bool {
	scope := f.Scope
	if scope == "" {
		scope = ScopeAll
	}
	if scope == ScopeText || scope == ScopeAll {
		if strings.Contains(textutil.Fold(e.Text), foldedQuery) {
			return true
		}
	}
	if scope == ScopeThoughts || scope == ScopeAll {
		for _, t := range e.Thoughts {
			if strings.Contains(textutil.Fold(t), foldedQuery) {
				return true
			}
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD bound; empty yields the zero time
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
