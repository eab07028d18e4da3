package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
	"github.com/annomania/annomania-api/internal/types"
)

const (
	DefaultExportPage   = 1
	DefaultExportAmount = 200
)

type TrainingSetService interface {
	Export(ctx context.Context, set *types.Set, annotationTypeID uuid.UUID, page, amount int, w io.Writer) error
}

type trainingSetService struct {
	db       *gorm.DB
	log      *logger.Logger
	textRepo repos.TextRepo
}

func NewTrainingSetService(db *gorm.DB, baseLog *logger.Logger, textRepo repos.TextRepo) TrainingSetService {
	serviceLog := baseLog.With("service", "TrainingSetService")
	return &trainingSetService{db: db, log: serviceLog, textRepo: textRepo}
}

// exportItem is one element of the streamed training-set array. Status is
// resolved to the option's name; texts without a consensus yet carry an
// empty object so consumers can key on the field unconditionally.
type exportItem struct {
	ID                   uuid.UUID      `json:"id"`
	SetID                uuid.UUID      `json:"setId"`
	Text                 string         `json:"text"`
	Meta                 datatypes.JSON `json:"meta,omitempty"`
	AnnotationTypeStatus any            `json:"annotationTypeStatus"`
}

type exportStatus struct {
	AnnotationOption string  `json:"annotationOption"`
	Ratio            float64 `json:"ratio"`
	AnnotationCount  int     `json:"annotationCount"`
}

// Export streams one page of the set's texts as a JSON array, each with its
// consensus for the chosen question. The array is written incrementally;
// memory use is bounded by one row, not the page size. A canceled request
// context stops the stream and closes the cursor.
func (s *trainingSetService) Export(ctx context.Context, set *types.Set, annotationTypeID uuid.UUID, page, amount int, w io.Writer) error {
	if page < 1 {
		return apperrors.Validationf("page must be >= 1")
	}
	if amount < 1 {
		return apperrors.Validationf("amount must be >= 1")
	}

	var annotationType *types.AnnotationType
	var err error
	if annotationTypeID != uuid.Nil {
		annotationType, err = set.AnnotationTypeByID(annotationTypeID)
		if err != nil {
			return apperrors.Validationf("annotationType %s does not belong to set %s", annotationTypeID, set.ID)
		}
	} else {
		annotationType, err = set.FirstAnnotationType()
		if err != nil {
			return err
		}
	}

	offset := (page - 1) * amount
	cursor, err := s.textRepo.CursorBySet(ctx, nil, set.ID, annotationType.ID, offset, amount)
	if err != nil {
		s.log.Error("Export cursor failed", "set_id", set.ID, "error", err)
		return err
	}
	defer cursor.Close()

	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}

	first := true
	for cursor.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := cursor.Row()

		item := exportItem{
			ID:                   row.Text.ID,
			SetID:                row.Text.SetID,
			Text:                 row.Text.Text,
			Meta:                 row.Text.Meta,
			AnnotationTypeStatus: struct{}{},
		}
		if row.Status != nil {
			optionName, err := annotationType.OptionNameByID(row.Status.AnnotationOptionID)
			if err != nil {
				return fmt.Errorf("resolve option name for text %s: %w", row.Text.ID, err)
			}
			item.AnnotationTypeStatus = exportStatus{
				AnnotationOption: optionName,
				Ratio:            row.Status.Ratio,
				AnnotationCount:  row.Status.AnnotationCount,
			}
		}

		encoded, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if !first {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		first = false
		if _, err := w.Write(encoded); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		s.log.Error("Export cursor iteration failed", "set_id", set.ID, "error", err)
		return err
	}

	_, err = io.WriteString(w, "]")
	return err
}
