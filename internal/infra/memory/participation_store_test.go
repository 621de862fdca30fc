package memory

import (
	"context"
	"testing"
	"time"

	"quiz-api-service/internal/domain"
)

func TestParticipationStoreTopOrdering(t *testing.T) {
	s := NewParticipationStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []domain.Participation{
		{PlayerName: "old-3", Score: 3},
		{PlayerName: "one", Score: 1},
		{PlayerName: "new-3", Score: 3},
		{PlayerName: "five", Score: 5},
	} {
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Add(context.Background(), &p); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	top, err := s.Top(context.Background(), 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"five", "new-3", "old-3"}
	for i, name := range want {
		if top[i].PlayerName != name {
			t.Fatalf("position %d: expected %s, got %+v", i, name, top)
		}
	}

	if err := s.DeleteAll(context.Background()); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if top, _ := s.Top(context.Background(), 10); len(top) != 0 {
		t.Fatalf("expected empty store, got %+v", top)
	}
}
