package journal

import (
	"testing"

	"github.com/pbaille/moodlog/internal/domain"
)

func TestStoreSnapshotIsCopy(t *testing.T) {
	seed := []domain.Entry{{Text: "первая", Emotion: "joy"}}
	s := NewStore(seed)
	seed[0].Text = "changed"

	s.Append(domain.Entry{Text: "вторая", Emotion: "fear"})

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	if snap[0].Text != "первая" || snap[1].Text != "вторая" {
		t.Fatalf("unexpected order or content: %+v", snap)
	}

	snap[0].Emotion = "anger"
	if s.Snapshot()[0].Emotion != "joy" {
		t.Fatal("snapshot mutation leaked into the store")
	}
	if s.Len() != 2 {
		t.Fatalf("Len=%d", s.Len())
	}
}
