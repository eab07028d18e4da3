package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/types"
)

type StatusRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, status *types.TextAnnotationStatus) error
	GetByTextID(ctx context.Context, tx *gorm.DB, textID uuid.UUID) ([]*types.TextAnnotationStatus, error)
}

type statusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatusRepo(db *gorm.DB, baseLog *logger.Logger) StatusRepo {
	repoLog := baseLog.With("repo", "StatusRepo")
	return &statusRepo{db: db, log: repoLog}
}

// Upsert writes the consensus row for one (text, question) pair. The
// targeted ON CONFLICT update keeps concurrent rebuilds for different
// questions on the same text from clobbering each other; concurrent
// rebuilds for the same pair are last-writer-wins and convergent because
// every writer recomputed from the full vote log.
func (r *statusRepo) Upsert(ctx context.Context, tx *gorm.DB, status *types.TextAnnotationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	status.UpdatedAt = time.Now().UTC()
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "text_id"}, {Name: "annotation_type_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"annotation_option_id", "ratio", "annotation_count", "updated_at",
			}),
		}).
		Create(status).Error
}

func (r *statusRepo) GetByTextID(ctx context.Context, tx *gorm.DB, textID uuid.UUID) ([]*types.TextAnnotationStatus, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var statuses []*types.TextAnnotationStatus
	err := transaction.WithContext(ctx).
		Where("text_id = ?", textID).
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}
