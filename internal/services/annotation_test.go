package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/types"
)

func annotateFixture() (*types.Set, *types.Text, *fakeTextRepo) {
	set := &types.Set{
		ID: uuid.New(),
		AnnotationTypes: []types.AnnotationType{{
			ID: uuid.New(),
			Options: []types.AnnotationOption{
				{ID: uuid.New(), Name: "yes"},
				{ID: uuid.New(), Name: "no"},
			},
		}},
	}
	text := &types.Text{ID: uuid.New(), SetID: set.ID, Text: "vote on me"}
	textRepo := newFakeTextRepo()
	textRepo.add(text)
	return set, text, textRepo
}

func TestAnnotateCreatesVoteAndDispatchesJob(t *testing.T) {
	set, text, textRepo := annotateFixture()
	annotationRepo := newFakeAnnotationRepo()
	dispatcher := &fakeDispatcher{}
	svc := NewAnnotationService(nil, testLogger(), textRepo, annotationRepo, dispatcher)

	question := set.AnnotationTypes[0]
	userID := uuid.New()
	input := AnnotationInput{
		AnnotationTypeID:   question.ID,
		AnnotationOptionID: question.Options[0].ID,
	}

	annotation, err := svc.Annotate(context.Background(), set, text.ID, input, userID)
	require.NoError(t, err)
	require.Equal(t, text.ID, annotation.TextID)
	require.Equal(t, userID, annotation.UserID)
	require.Len(t, annotationRepo.annotations, 1)

	require.Len(t, dispatcher.jobs, 1)
	require.Equal(t, text.ID, dispatcher.jobs[0].TextID)
	require.Equal(t, question.ID, dispatcher.jobs[0].AnnotationTypeID)
}

func TestAnnotateRejectsForeignType(t *testing.T) {
	set, text, textRepo := annotateFixture()
	svc := NewAnnotationService(nil, testLogger(), textRepo, newFakeAnnotationRepo(), &fakeDispatcher{})

	input := AnnotationInput{
		AnnotationTypeID:   uuid.New(),
		AnnotationOptionID: set.AnnotationTypes[0].Options[0].ID,
	}
	_, err := svc.Annotate(context.Background(), set, text.ID, input, uuid.New())
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAnnotateRejectsForeignOption(t *testing.T) {
	set, text, textRepo := annotateFixture()
	svc := NewAnnotationService(nil, testLogger(), textRepo, newFakeAnnotationRepo(), &fakeDispatcher{})

	input := AnnotationInput{
		AnnotationTypeID:   set.AnnotationTypes[0].ID,
		AnnotationOptionID: uuid.New(),
	}
	_, err := svc.Annotate(context.Background(), set, text.ID, input, uuid.New())
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAnnotateUnknownText(t *testing.T) {
	set, _, textRepo := annotateFixture()
	svc := NewAnnotationService(nil, testLogger(), textRepo, newFakeAnnotationRepo(), &fakeDispatcher{})

	question := set.AnnotationTypes[0]
	input := AnnotationInput{
		AnnotationTypeID:   question.ID,
		AnnotationOptionID: question.Options[0].ID,
	}
	_, err := svc.Annotate(context.Background(), set, uuid.New(), input, uuid.New())
	require.True(t, apperrors.IsNotFound(err))
}

func TestAnnotateSurvivesDispatchFailure(t *testing.T) {
	set, text, textRepo := annotateFixture()
	annotationRepo := newFakeAnnotationRepo()
	dispatcher := &fakeDispatcher{err: context.DeadlineExceeded}
	svc := NewAnnotationService(nil, testLogger(), textRepo, annotationRepo, dispatcher)

	question := set.AnnotationTypes[0]
	input := AnnotationInput{
		AnnotationTypeID:   question.ID,
		AnnotationOptionID: question.Options[1].ID,
	}
	annotation, err := svc.Annotate(context.Background(), set, text.ID, input, uuid.New())
	require.NoError(t, err, "a lost dispatch must not fail the vote")
	require.NotNil(t, annotation)
	require.Len(t, annotationRepo.annotations, 1)
}
