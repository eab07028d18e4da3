package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/types"
)

const sentimentSchema = `{
	"type": "object",
	"properties": {
		"source": {"type": "string"}
	},
	"required": ["source"]
}`

func TestTextAddValidatesMetaAgainstSchema(t *testing.T) {
	set := &types.Set{ID: uuid.New(), TextSchema: datatypes.JSON(sentimentSchema)}
	textRepo := newFakeTextRepo()
	svc := NewTextService(nil, testLogger(), textRepo)
	ctx := context.Background()

	created, err := svc.Add(ctx, set, []TextInput{{
		Text: "conforming",
		Meta: datatypes.JSON(`{"source": "twitter"}`),
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)

	_, err = svc.Add(ctx, set, []TextInput{{
		Text: "missing required field",
		Meta: datatypes.JSON(`{"origin": "twitter"}`),
	}})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTextAddWithoutSchemaAcceptsAnyMeta(t *testing.T) {
	set := &types.Set{ID: uuid.New()}
	svc := NewTextService(nil, testLogger(), newFakeTextRepo())

	created, err := svc.Add(context.Background(), set, []TextInput{{
		Text: "anything goes",
		Meta: datatypes.JSON(`{"whatever": 42}`),
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)
}

func TestTextAddRejectsEmptyBatch(t *testing.T) {
	set := &types.Set{ID: uuid.New()}
	svc := NewTextService(nil, testLogger(), newFakeTextRepo())

	_, err := svc.Add(context.Background(), set, nil)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTextFetchEmptyResultIsNotFound(t *testing.T) {
	set := &types.Set{ID: uuid.New()}
	textRepo := newFakeTextRepo()
	svc := NewTextService(nil, testLogger(), textRepo)

	_, err := svc.Fetch(context.Background(), set, "random", "", 5)
	require.True(t, apperrors.IsNotFound(err), "an exhausted strategy answers not-found, not an empty list")
}

func TestTextFetchReturnsCandidates(t *testing.T) {
	set := &types.Set{ID: uuid.New()}
	textRepo := newFakeTextRepo()
	textRepo.fetched = []*types.Text{
		{ID: uuid.New(), SetID: set.ID, Text: "candidate"},
	}
	svc := NewTextService(nil, testLogger(), textRepo)

	texts, err := svc.Fetch(context.Background(), set, "", "", 5)
	require.NoError(t, err)
	require.Len(t, texts, 1)
}

func TestTextUpdateChecksSetMembership(t *testing.T) {
	set := &types.Set{ID: uuid.New()}
	textRepo := newFakeTextRepo()
	foreign := &types.Text{ID: uuid.New(), SetID: uuid.New(), Text: "other set"}
	textRepo.add(foreign)
	svc := NewTextService(nil, testLogger(), textRepo)

	newContent := "rewritten"
	_, err := svc.Update(context.Background(), set, foreign.ID, TextUpdateInput{Text: &newContent})
	require.True(t, apperrors.IsNotFound(err))
}
