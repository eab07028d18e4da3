package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/strategy"
	"github.com/annomania/annomania-api/internal/types"
)

type TextRepo interface {
	Create(ctx context.Context, tx *gorm.DB, texts []*types.Text) ([]*types.Text, error)
	GetByID(ctx context.Context, tx *gorm.DB, textID uuid.UUID) (*types.Text, error)
	Exists(ctx context.Context, tx *gorm.DB, textID uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, textID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, textID uuid.UUID) error
	FetchByPlan(ctx context.Context, tx *gorm.DB, plan strategy.Plan) ([]*types.Text, error)
	CursorBySet(ctx context.Context, tx *gorm.DB, setID, annotationTypeID uuid.UUID, offset, limit int) (TextCursor, error)
}

// TextExportRow is one cursor row of a training-set export: the text plus
// its consensus for the export's target question, nil when none exists yet.
type TextExportRow struct {
	Text   types.Text
	Status *types.TextAnnotationStatus
}

// TextCursor iterates export rows one at a time so an export never holds a
// whole set in memory. Close releases the underlying store cursor and must
// be called even on early exit.
type TextCursor interface {
	Next() bool
	Row() *TextExportRow
	Err() error
	Close() error
}

type textRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTextRepo(db *gorm.DB, baseLog *logger.Logger) TextRepo {
	repoLog := baseLog.With("repo", "TextRepo")
	return &textRepo{db: db, log: repoLog}
}

func (r *textRepo) Create(ctx context.Context, tx *gorm.DB, texts []*types.Text) ([]*types.Text, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(texts) == 0 {
		return []*types.Text{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&texts).Error; err != nil {
		return nil, err
	}
	return texts, nil
}

func (r *textRepo) GetByID(ctx context.Context, tx *gorm.DB, textID uuid.UUID) (*types.Text, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var text types.Text
	err := transaction.WithContext(ctx).
		Preload("Statuses").
		First(&text, "id = ?", textID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("text %s", textID)
		}
		return nil, err
	}
	return &text, nil
}

func (r *textRepo) Exists(ctx context.Context, tx *gorm.DB, textID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Text{}).
		Where("id = ?", textID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *textRepo) UpdateFields(ctx context.Context, tx *gorm.DB, textID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.Text{}).
		Where("id = ?", textID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("text %s", textID)
	}
	return nil
}

func (r *textRepo) Delete(ctx context.Context, tx *gorm.DB, textID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", textID).
		Delete(&types.Text{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("text %s", textID)
	}
	return nil
}

// FetchByPlan executes a resolved fetch-strategy plan. All variants select
// the public projection only and cap at the plan limit.
func (r *textRepo) FetchByPlan(ctx context.Context, tx *gorm.DB, plan strategy.Plan) ([]*types.Text, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var texts []*types.Text
	var err error

	switch plan.Kind {
	case strategy.KindRandom:
		err = transaction.WithContext(ctx).
			Model(&types.Text{}).
			Select("id", "set_id", "text", "meta").
			Where("set_id = ?", plan.SetID).
			Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "random()"}}).
			Limit(plan.Limit).
			Find(&texts).Error

	case strategy.KindTopic:
		// Relevance ordering is delegated to ts_rank.
		err = transaction.WithContext(ctx).
			Model(&types.Text{}).
			Select("id", "set_id", "text", "meta").
			Where("set_id = ?", plan.SetID).
			Where("to_tsvector('simple', text) @@ plainto_tsquery('simple', ?)", plan.Topic).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "ts_rank(to_tsvector('simple', text), plainto_tsquery('simple', ?)) DESC",
				Vars: []interface{}{plan.Topic},
			}}).
			Limit(plan.Limit).
			Find(&texts).Error

	case strategy.KindLeastAnnotated:
		// A text's sort key is its lowest per-question vote count; texts
		// without any status row sort first as count 0.
		err = transaction.WithContext(ctx).Raw(`
			SELECT t.id, t.set_id, t.text, t.meta
			FROM "text" t
			LEFT JOIN "text_annotation_status" s ON s.text_id = t.id
			WHERE t.set_id = ?
			GROUP BY t.id, t.set_id, t.text, t.meta
			ORDER BY COALESCE(MIN(s.annotation_count), 0) ASC
			LIMIT ?
		`, plan.SetID, plan.Limit).Scan(&texts).Error

	default:
		return nil, apperrors.Validationf("unknown fetch strategy kind: %s", plan.Kind)
	}

	if err != nil {
		return nil, err
	}
	return texts, nil
}

// CursorBySet opens a streaming cursor over the set's texts in store order,
// each joined with its status row for the target question.
func (r *textRepo) CursorBySet(ctx context.Context, tx *gorm.DB, setID, annotationTypeID uuid.UUID, offset, limit int) (TextCursor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	rows, err := transaction.WithContext(ctx).Raw(`
		SELECT t.id, t.set_id, t.text, t.meta, t.created_at, t.updated_at,
		       s.annotation_option_id, s.ratio, s.annotation_count
		FROM "text" t
		LEFT JOIN "text_annotation_status" s
		  ON s.text_id = t.id AND s.annotation_type_id = ?
		WHERE t.set_id = ?
		ORDER BY t.created_at ASC, t.id ASC
		OFFSET ? LIMIT ?
	`, annotationTypeID, setID, offset, limit).Rows()
	if err != nil {
		return nil, err
	}
	return &textCursor{rows: rows, annotationTypeID: annotationTypeID}, nil
}

type textCursor struct {
	rows             *sql.Rows
	annotationTypeID uuid.UUID
	current          *TextExportRow
	err              error
}

func (c *textCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}

	var (
		row      TextExportRow
		meta     []byte
		optionID sql.NullString
		ratio    sql.NullFloat64
		count    sql.NullInt64
	)
	c.err = c.rows.Scan(
		&row.Text.ID, &row.Text.SetID, &row.Text.Text, &meta,
		&row.Text.CreatedAt, &row.Text.UpdatedAt,
		&optionID, &ratio, &count,
	)
	if c.err != nil {
		return false
	}
	row.Text.Meta = datatypes.JSON(meta)

	if optionID.Valid {
		parsed, err := uuid.Parse(optionID.String)
		if err != nil {
			c.err = err
			return false
		}
		row.Status = &types.TextAnnotationStatus{
			TextID:             row.Text.ID,
			AnnotationTypeID:   c.annotationTypeID,
			AnnotationOptionID: parsed,
			Ratio:              ratio.Float64,
			AnnotationCount:    int(count.Int64),
		}
	}
	c.current = &row
	return true
}

func (c *textCursor) Row() *TextExportRow {
	return c.current
}

func (c *textCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *textCursor) Close() error {
	return c.rows.Close()
}
