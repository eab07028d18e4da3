package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/types"
)

type AnnotationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, annotation *types.Annotation) error
	CountByOption(ctx context.Context, tx *gorm.DB, textID, annotationTypeID uuid.UUID) ([]types.OptionCount, error)
}

type annotationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnnotationRepo(db *gorm.DB, baseLog *logger.Logger) AnnotationRepo {
	repoLog := baseLog.With("repo", "AnnotationRepo")
	return &annotationRepo{db: db, log: repoLog}
}

func (r *annotationRepo) Create(ctx context.Context, tx *gorm.DB, annotation *types.Annotation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(annotation).Error
}

// CountByOption groups the full vote log of one (text, question) pair by
// option. This is the authoritative input of the consensus computation;
// an empty result simply means nobody voted yet.
func (r *annotationRepo) CountByOption(ctx context.Context, tx *gorm.DB, textID, annotationTypeID uuid.UUID) ([]types.OptionCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var counts []types.OptionCount
	err := transaction.WithContext(ctx).
		Model(&types.Annotation{}).
		Select("annotation_option_id, COUNT(*) AS count").
		Where("text_id = ? AND annotation_type_id = ?", textID, annotationTypeID).
		Group("annotation_option_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
