package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/types"
)

func TestConsensusRebuildWritesMajority(t *testing.T) {
	ctx := context.Background()
	textRepo := newFakeTextRepo()
	annotationRepo := newFakeAnnotationRepo()
	statusRepo := newFakeStatusRepo()

	textID := uuid.New()
	typeID := uuid.New()
	optionA := uuid.New()
	optionB := uuid.New()

	textRepo.add(&types.Text{ID: textID})
	annotationRepo.setCounts(textID, typeID, []types.OptionCount{
		{AnnotationOptionID: optionA, Count: 3},
		{AnnotationOptionID: optionB, Count: 1},
	})

	svc := NewConsensusService(nil, testLogger(), textRepo, annotationRepo, statusRepo)
	require.NoError(t, svc.Rebuild(ctx, textID, typeID))

	require.Len(t, statusRepo.upserts, 1)
	got := statusRepo.upserts[0]
	require.Equal(t, optionA, got.AnnotationOptionID)
	require.Equal(t, 0.75, got.Ratio)
	require.Equal(t, 4, got.AnnotationCount)
}

func TestConsensusRebuildIsIdempotent(t *testing.T) {
	ctx := context.Background()
	textRepo := newFakeTextRepo()
	annotationRepo := newFakeAnnotationRepo()
	statusRepo := newFakeStatusRepo()

	textID := uuid.New()
	typeID := uuid.New()
	option := uuid.New()

	textRepo.add(&types.Text{ID: textID})
	annotationRepo.setCounts(textID, typeID, []types.OptionCount{
		{AnnotationOptionID: option, Count: 2},
	})

	svc := NewConsensusService(nil, testLogger(), textRepo, annotationRepo, statusRepo)
	require.NoError(t, svc.Rebuild(ctx, textID, typeID))
	require.NoError(t, svc.Rebuild(ctx, textID, typeID))

	require.Len(t, statusRepo.statuses, 1, "repeat rebuilds must converge to one row")
	final := statusRepo.statuses[pairKey(textID, typeID)]
	require.Equal(t, option, final.AnnotationOptionID)
	require.Equal(t, float64(1), final.Ratio)
	require.Equal(t, 2, final.AnnotationCount)
}

func TestConsensusRebuildKeepsQuestionsSeparate(t *testing.T) {
	ctx := context.Background()
	textRepo := newFakeTextRepo()
	annotationRepo := newFakeAnnotationRepo()
	statusRepo := newFakeStatusRepo()

	textID := uuid.New()
	firstType := uuid.New()
	secondType := uuid.New()

	textRepo.add(&types.Text{ID: textID})
	annotationRepo.setCounts(textID, firstType, []types.OptionCount{
		{AnnotationOptionID: uuid.New(), Count: 2},
	})
	annotationRepo.setCounts(textID, secondType, []types.OptionCount{
		{AnnotationOptionID: uuid.New(), Count: 5},
	})

	svc := NewConsensusService(nil, testLogger(), textRepo, annotationRepo, statusRepo)
	require.NoError(t, svc.Rebuild(ctx, textID, firstType))
	require.NoError(t, svc.Rebuild(ctx, textID, secondType))

	statuses, err := statusRepo.GetByTextID(ctx, nil, textID)
	require.NoError(t, err)
	require.Len(t, statuses, 2, "each question keeps its own status entry")
}

func TestConsensusRebuildNoVotes(t *testing.T) {
	ctx := context.Background()
	textRepo := newFakeTextRepo()
	annotationRepo := newFakeAnnotationRepo()
	statusRepo := newFakeStatusRepo()

	textID := uuid.New()
	textRepo.add(&types.Text{ID: textID})

	svc := NewConsensusService(nil, testLogger(), textRepo, annotationRepo, statusRepo)
	err := svc.Rebuild(ctx, textID, uuid.New())
	require.True(t, apperrors.IsNotFound(err))
	require.Empty(t, statusRepo.upserts, "no status row without votes")
}

func TestConsensusRebuildDeletedText(t *testing.T) {
	ctx := context.Background()
	textRepo := newFakeTextRepo()
	annotationRepo := newFakeAnnotationRepo()
	statusRepo := newFakeStatusRepo()

	textID := uuid.New()
	typeID := uuid.New()
	annotationRepo.setCounts(textID, typeID, []types.OptionCount{
		{AnnotationOptionID: uuid.New(), Count: 1},
	})

	svc := NewConsensusService(nil, testLogger(), textRepo, annotationRepo, statusRepo)
	err := svc.Rebuild(ctx, textID, typeID)
	require.True(t, apperrors.IsNotFound(err))
	require.Empty(t, statusRepo.upserts, "no status row for a deleted text")
}
