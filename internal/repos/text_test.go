package repos

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/repos/testutil"
	"github.com/annomania/annomania-api/internal/strategy"
	"github.com/annomania/annomania-api/internal/types"
)

func TestTextRepoFetchByPlanRandom(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "owner")
	set := testutil.SeedSet(t, ctx, tx, user.ID, "a", "b")
	other := testutil.SeedSet(t, ctx, tx, user.ID, "a", "b")
	for i := 0; i < 4; i++ {
		testutil.SeedText(t, ctx, tx, set.ID, fmt.Sprintf("text %d", i))
	}
	testutil.SeedText(t, ctx, tx, other.ID, "belongs elsewhere")

	repo := NewTextRepo(db, log)
	texts, err := repo.FetchByPlan(ctx, tx, strategy.Plan{
		Kind:  strategy.KindRandom,
		SetID: set.ID,
		Limit: 3,
	})
	if err != nil {
		t.Fatalf("FetchByPlan: %v", err)
	}
	if len(texts) != 3 {
		t.Fatalf("expected 3 texts, got %d", len(texts))
	}
	for _, text := range texts {
		if text.SetID != set.ID {
			t.Fatalf("random fetch leaked text from set %s", text.SetID)
		}
	}
}

func TestTextRepoFetchByPlanTopic(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "owner")
	set := testutil.SeedSet(t, ctx, tx, user.ID, "a", "b")
	match := testutil.SeedText(t, ctx, tx, set.ID, "the election results surprised everyone")
	testutil.SeedText(t, ctx, tx, set.ID, "my cat sleeps all day")

	repo := NewTextRepo(db, log)
	texts, err := repo.FetchByPlan(ctx, tx, strategy.Plan{
		Kind:  strategy.KindTopic,
		SetID: set.ID,
		Topic: "election",
		Limit: 5,
	})
	if err != nil {
		t.Fatalf("FetchByPlan: %v", err)
	}
	if len(texts) != 1 {
		t.Fatalf("expected 1 topic match, got %d", len(texts))
	}
	if texts[0].ID != match.ID {
		t.Fatalf("expected text %s, got %s", match.ID, texts[0].ID)
	}
}

func TestTextRepoFetchByPlanLeastAnnotated(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "owner")
	set := testutil.SeedSet(t, ctx, tx, user.ID, "a", "b")
	question := set.AnnotationTypes[0]
	option := question.Options[0]

	statusRepo := NewStatusRepo(db, log)
	counts := []int{5, 2, 1}
	textsByCount := map[int]uuid.UUID{}
	for _, count := range counts {
		text := testutil.SeedText(t, ctx, tx, set.ID, fmt.Sprintf("voted %d times", count))
		textsByCount[count] = text.ID
		err := statusRepo.Upsert(ctx, tx, &types.TextAnnotationStatus{
			TextID:             text.ID,
			AnnotationTypeID:   question.ID,
			AnnotationOptionID: option.ID,
			Ratio:              1,
			AnnotationCount:    count,
		})
		if err != nil {
			t.Fatalf("Upsert count %d: %v", count, err)
		}
	}
	unvoted := testutil.SeedText(t, ctx, tx, set.ID, "never voted on")

	repo := NewTextRepo(db, log)
	texts, err := repo.FetchByPlan(ctx, tx, strategy.Plan{
		Kind:  strategy.KindLeastAnnotated,
		SetID: set.ID,
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("FetchByPlan: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("expected 2 texts, got %d", len(texts))
	}
	if texts[0].ID != unvoted.ID {
		t.Fatalf("expected the unvoted text first, got %s", texts[0].ID)
	}
	if texts[1].ID != textsByCount[1] {
		t.Fatalf("expected the once-voted text second, got %s", texts[1].ID)
	}
}

func TestTextRepoCursorBySetPagination(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "owner")
	set := testutil.SeedSet(t, ctx, tx, user.ID, "a", "b")
	question := set.AnnotationTypes[0]
	option := question.Options[0]

	var seeded []uuid.UUID
	for i := 0; i < 5; i++ {
		text := testutil.SeedText(t, ctx, tx, set.ID, fmt.Sprintf("export row %d", i))
		seeded = append(seeded, text.ID)
	}
	statusRepo := NewStatusRepo(db, log)
	if err := statusRepo.Upsert(ctx, tx, &types.TextAnnotationStatus{
		TextID:             seeded[2],
		AnnotationTypeID:   question.ID,
		AnnotationOptionID: option.ID,
		Ratio:              0.8,
		AnnotationCount:    5,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	repo := NewTextRepo(db, log)
	cursor, err := repo.CursorBySet(ctx, tx, set.ID, question.ID, 2, 2)
	if err != nil {
		t.Fatalf("CursorBySet: %v", err)
	}
	defer cursor.Close()

	var rows []*TextExportRow
	for cursor.Next() {
		rows = append(rows, cursor.Row())
	}
	if err := cursor.Err(); err != nil {
		t.Fatalf("cursor error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for offset 2 limit 2, got %d", len(rows))
	}

	if rows[0].Status == nil {
		t.Fatal("expected a status on the third seeded text")
	}
	if rows[0].Status.AnnotationOptionID != option.ID {
		t.Fatalf("expected winning option %s, got %s", option.ID, rows[0].Status.AnnotationOptionID)
	}
	if rows[1].Status != nil {
		t.Fatalf("expected no status on the fourth seeded text, got %+v", rows[1].Status)
	}
}

func TestTextRepoGetByIDNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewTextRepo(db, log)
	_, err := repo.GetByID(ctx, tx, uuid.New())
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestTextRepoDeleteNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewTextRepo(db, log)
	err := repo.Delete(ctx, tx, uuid.New())
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
