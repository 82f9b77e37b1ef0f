package analysis

import "sort"

// Count is one ranked item with its number of occurrences
type Count struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Rank orders distinct items by frequency, most frequent first. Items with
// the same frequency keep the order in which they were first seen.
func Rank(items []string) []Count {
	index := make(map[string]int, len(items))
	var counts []Count
	for _, item := range items {
		if i, ok := index[item]; ok {
			counts[i].Count++
			continue
		}
		index[item] = len(counts)
		counts = append(counts, Count{Item: item, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopCounts returns at most n entries of Rank(items)
func TopCounts(items []string, n int) []Count {
	counts := Rank(items)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Top returns the n most frequent items
func Top(items []string, n int) []string {
	counts := TopCounts(items, n)
	top := make([]string, len(counts))
	for i, c := range counts {
		top[i] = c.Item
	}
	return top
}
