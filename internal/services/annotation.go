package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/jobqueue"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
	"github.com/annomania/annomania-api/internal/types"
)

type AnnotationService interface {
	Annotate(ctx context.Context, set *types.Set, textID uuid.UUID, input AnnotationInput, userID uuid.UUID) (*types.Annotation, error)
}

type AnnotationInput struct {
	AnnotationTypeID   uuid.UUID `json:"annotationTypeId"`
	AnnotationOptionID uuid.UUID `json:"annotationOptionId"`
}

type annotationService struct {
	db             *gorm.DB
	log            *logger.Logger
	textRepo       repos.TextRepo
	annotationRepo repos.AnnotationRepo
	dispatcher     jobqueue.Dispatcher
}

func NewAnnotationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	textRepo repos.TextRepo,
	annotationRepo repos.AnnotationRepo,
	dispatcher jobqueue.Dispatcher,
) AnnotationService {
	serviceLog := baseLog.With("service", "AnnotationService")
	return &annotationService{
		db:             db,
		log:            serviceLog,
		textRepo:       textRepo,
		annotationRepo: annotationRepo,
		dispatcher:     dispatcher,
	}
}

// Annotate records one vote and hands the consensus rebuild off to the job
// queue. The vote is durable once this returns; the status row catches up
// asynchronously.
func (s *annotationService) Annotate(ctx context.Context, set *types.Set, textID uuid.UUID, input AnnotationInput, userID uuid.UUID) (*types.Annotation, error) {
	text, err := s.textRepo.GetByID(ctx, nil, textID)
	if err != nil {
		return nil, err
	}
	if text.SetID != set.ID {
		return nil, apperrors.NotFoundf("text %s not in set %s", textID, set.ID)
	}

	annotationType, err := set.AnnotationTypeByID(input.AnnotationTypeID)
	if err != nil {
		return nil, apperrors.Validationf("annotationType %s does not belong to set %s", input.AnnotationTypeID, set.ID)
	}
	if _, err := annotationType.OptionByID(input.AnnotationOptionID); err != nil {
		return nil, apperrors.Validationf("annotationOption %s does not belong to annotationType %s", input.AnnotationOptionID, annotationType.ID)
	}

	annotation := &types.Annotation{
		ID:                 uuid.New(),
		TextID:             textID,
		AnnotationTypeID:   input.AnnotationTypeID,
		AnnotationOptionID: input.AnnotationOptionID,
		UserID:             userID,
	}
	if err := s.annotationRepo.Create(ctx, nil, annotation); err != nil {
		s.log.Error("Annotate failed", "text_id", textID, "error", err)
		return nil, err
	}

	// Fire and forget: a lost dispatch only delays the status until the
	// next vote on this pair triggers another rebuild.
	job := jobqueue.StatusJob{TextID: textID, AnnotationTypeID: input.AnnotationTypeID}
	if err := s.dispatcher.Dispatch(ctx, job); err != nil {
		s.log.Error("status job dispatch failed",
			"text_id", textID,
			"annotation_type_id", input.AnnotationTypeID,
			"error", err)
	}
	return annotation, nil
}
