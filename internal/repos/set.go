package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/types"
)

type SetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, set *types.Set) error
	GetByID(ctx context.Context, tx *gorm.DB, setID uuid.UUID) (*types.Set, error)
	ListPublic(ctx context.Context, tx *gorm.DB) ([]*types.Set, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, setID uuid.UUID, fields map[string]any) error
	AppendAnnotationTypes(ctx context.Context, tx *gorm.DB, setID uuid.UUID, annotationTypes []types.AnnotationType) error
	Delete(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error
}

type setRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSetRepo(db *gorm.DB, baseLog *logger.Logger) SetRepo {
	repoLog := baseLog.With("repo", "SetRepo")
	return &setRepo{db: db, log: repoLog}
}

func (r *setRepo) Create(ctx context.Context, tx *gorm.DB, set *types.Set) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(set).Error
}

func (r *setRepo) GetByID(ctx context.Context, tx *gorm.DB, setID uuid.UUID) (*types.Set, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var set types.Set
	err := transaction.WithContext(ctx).
		Preload("AnnotationTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("annotation_type.position ASC")
		}).
		Preload("AnnotationTypes.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("annotation_option.position ASC")
		}).
		First(&set, "id = ?", setID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("set %s", setID)
		}
		return nil, err
	}
	return &set, nil
}

func (r *setRepo) ListPublic(ctx context.Context, tx *gorm.DB) ([]*types.Set, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var sets []*types.Set
	err := transaction.WithContext(ctx).
		Preload("AnnotationTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("annotation_type.position ASC")
		}).
		Preload("AnnotationTypes.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("annotation_option.position ASC")
		}).
		Where("private = ?", false).
		Find(&sets).Error
	if err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *setRepo) UpdateFields(ctx context.Context, tx *gorm.DB, setID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.Set{}).
		Where("id = ?", setID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("set %s", setID)
	}
	return nil
}

// AppendAnnotationTypes adds new questions to the end of the set's list.
// Existing types are never reordered or replaced.
func (r *setRepo) AppendAnnotationTypes(ctx context.Context, tx *gorm.DB, setID uuid.UUID, annotationTypes []types.AnnotationType) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(annotationTypes) == 0 {
		return nil
	}

	var maxPos int
	row := transaction.WithContext(ctx).
		Model(&types.AnnotationType{}).
		Where("set_id = ?", setID).
		Select("COALESCE(MAX(position), -1)").
		Row()
	if err := row.Scan(&maxPos); err != nil {
		return err
	}

	for i := range annotationTypes {
		annotationTypes[i].SetID = setID
		annotationTypes[i].Position = maxPos + 1 + i
		for j := range annotationTypes[i].Options {
			annotationTypes[i].Options[j].Position = j
		}
	}
	return transaction.WithContext(ctx).Create(&annotationTypes).Error
}

func (r *setRepo) Delete(ctx context.Context, tx *gorm.DB, setID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", setID).
		Delete(&types.Set{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("set %s", setID)
	}
	return nil
}
