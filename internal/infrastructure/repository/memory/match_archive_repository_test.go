package memory

import (
	"context"
	"testing"

	"github.com/skanelive/matchcenter/internal/domain/match"
)

func TestMatchArchiveRepository_UpsertAndGet(t *testing.T) {
	repo := NewMatchArchiveRepository()
	ctx := context.Background()

	score := 2
	stored := match.UnifiedMatch{
		LeagueID:        "allsvenskan",
		ExternalMatchID: "m-100",
		Slug:            "mff-dif",
		Status:          "Slutspelad",
		HomeScore:       &score,
		Referees:        []string{"Anna Berg"},
	}
	if err := repo.Upsert(ctx, stored); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, found, err := repo.GetByKey(ctx, "allsvenskan", "m-100")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected archived match")
	}
	if got.Slug != "mff-dif" || got.HomeScore == nil || *got.HomeScore != 2 {
		t.Fatalf("unexpected match: %+v", got)
	}

	// The stored copy must not alias caller slices.
	stored.Referees[0] = "changed"
	got2, _, _ := repo.GetByKey(ctx, "allsvenskan", "m-100")
	if got2.Referees[0] != "Anna Berg" {
		t.Fatalf("stored match aliased caller slice: %q", got2.Referees[0])
	}
}

func TestMatchArchiveRepository_MissAndInvalidKey(t *testing.T) {
	repo := NewMatchArchiveRepository()
	ctx := context.Background()

	_, found, err := repo.GetByKey(ctx, "allsvenskan", "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}

	// Upserts without a full key are dropped rather than stored under "::".
	if err := repo.Upsert(ctx, match.UnifiedMatch{LeagueID: "allsvenskan"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	_, found, _ = repo.GetByKey(ctx, "allsvenskan", "")
	if found {
		t.Fatal("expected partial key to be dropped")
	}
}
