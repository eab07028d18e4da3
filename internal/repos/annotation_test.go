package repos

import (
	"context"
	"testing"

	"github.com/annomania/annomania-api/internal/repos/testutil"
)

func TestAnnotationRepoCountByOption(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "annotator")
	set := testutil.SeedSet(t, ctx, tx, user.ID, "positive", "negative")
	text := testutil.SeedText(t, ctx, tx, set.ID, "the coffee was excellent")

	question := set.AnnotationTypes[0]
	positive := question.Options[0]
	negative := question.Options[1]

	for i := 0; i < 3; i++ {
		testutil.SeedAnnotation(t, ctx, tx, text.ID, question.ID, positive.ID, user.ID)
	}
	testutil.SeedAnnotation(t, ctx, tx, text.ID, question.ID, negative.ID, user.ID)

	repo := NewAnnotationRepo(db, log)
	counts, err := repo.CountByOption(ctx, tx, text.ID, question.ID)
	if err != nil {
		t.Fatalf("CountByOption: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 option groups, got %d", len(counts))
	}

	byOption := map[string]int{}
	for _, c := range counts {
		byOption[c.AnnotationOptionID.String()] = c.Count
	}
	if byOption[positive.ID.String()] != 3 {
		t.Fatalf("expected 3 votes for positive, got %d", byOption[positive.ID.String()])
	}
	if byOption[negative.ID.String()] != 1 {
		t.Fatalf("expected 1 vote for negative, got %d", byOption[negative.ID.String()])
	}
}

func TestAnnotationRepoCountByOptionEmpty(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "annotator")
	set := testutil.SeedSet(t, ctx, tx, user.ID, "yes", "no")
	text := testutil.SeedText(t, ctx, tx, set.ID, "no votes here")

	repo := NewAnnotationRepo(db, log)
	counts, err := repo.CountByOption(ctx, tx, text.ID, set.AnnotationTypes[0].ID)
	if err != nil {
		t.Fatalf("CountByOption: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected no groups for unvoted text, got %d", len(counts))
	}
}
