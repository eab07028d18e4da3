package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/consensus"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
	"github.com/annomania/annomania-api/internal/types"
)

type ConsensusService interface {
	Rebuild(ctx context.Context, textID, annotationTypeID uuid.UUID) error
}

type consensusService struct {
	db             *gorm.DB
	log            *logger.Logger
	textRepo       repos.TextRepo
	annotationRepo repos.AnnotationRepo
	statusRepo     repos.StatusRepo
}

func NewConsensusService(
	db *gorm.DB,
	baseLog *logger.Logger,
	textRepo repos.TextRepo,
	annotationRepo repos.AnnotationRepo,
	statusRepo repos.StatusRepo,
) ConsensusService {
	serviceLog := baseLog.With("service", "ConsensusService")
	return &consensusService{
		db:             db,
		log:            serviceLog,
		textRepo:       textRepo,
		annotationRepo: annotationRepo,
		statusRepo:     statusRepo,
	}
}

// Rebuild recomputes the consensus of one (text, question) pair from the
// full vote log and upserts its status row. Safe to run repeatedly and
// concurrently: every run derives the same row from the same votes.
// ErrNotFound means the pair has nothing to aggregate (no votes, or the
// text vanished); retrying cannot change that.
func (s *consensusService) Rebuild(ctx context.Context, textID, annotationTypeID uuid.UUID) error {
	counts, err := s.annotationRepo.CountByOption(ctx, nil, textID, annotationTypeID)
	if err != nil {
		s.log.Error("Rebuild count failed", "text_id", textID, "annotation_type_id", annotationTypeID, "error", err)
		return err
	}

	status, err := consensus.Compute(annotationTypeID, counts)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.log.Warn("Rebuild without votes", "text_id", textID, "annotation_type_id", annotationTypeID)
		}
		return err
	}

	// The text may have been deleted after its votes were counted. Skip
	// the write instead of resurrecting a status row for a dead text.
	exists, err := s.textRepo.Exists(ctx, nil, textID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFoundf("text %s", textID)
	}

	row := &types.TextAnnotationStatus{
		TextID:             textID,
		AnnotationTypeID:   status.AnnotationTypeID,
		AnnotationOptionID: status.AnnotationOptionID,
		Ratio:              status.Ratio,
		AnnotationCount:    status.AnnotationCount,
	}
	if err := s.statusRepo.Upsert(ctx, nil, row); err != nil {
		s.log.Error("Rebuild upsert failed", "text_id", textID, "annotation_type_id", annotationTypeID, "error", err)
		return err
	}
	return nil
}
