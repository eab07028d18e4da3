package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
	"github.com/annomania/annomania-api/internal/types"
)

type SetService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input SetInput) (*types.Set, error)
	Get(ctx context.Context, setID uuid.UUID) (*types.Set, error)
	ListPublic(ctx context.Context) ([]*types.Set, error)
	Update(ctx context.Context, setID uuid.UUID, input SetUpdateInput) (*types.Set, error)
	Delete(ctx context.Context, setID uuid.UUID) error
}

// SetInput is the creation payload. AnnotationTypes are created with their
// options in the given order.
type SetInput struct {
	Name            string                `json:"name"`
	Private         *bool                 `json:"private"`
	Language        string                `json:"language"`
	TextSchema      datatypes.JSON        `json:"textSchema"`
	Meta            datatypes.JSON        `json:"meta"`
	AnnotationTypes []AnnotationTypeInput `json:"annotationTypes"`
}

// SetUpdateInput updates scalar fields and appends questions. Existing
// questions are never changed: annotations may already reference them.
type SetUpdateInput struct {
	Name            *string               `json:"name"`
	Private         *bool                 `json:"private"`
	Language        *string               `json:"language"`
	TextSchema      datatypes.JSON        `json:"textSchema"`
	Meta            datatypes.JSON        `json:"meta"`
	AnnotationTypes []AnnotationTypeInput `json:"annotationTypes"`
}

type AnnotationTypeInput struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type setService struct {
	db      *gorm.DB
	log     *logger.Logger
	setRepo repos.SetRepo
}

func NewSetService(db *gorm.DB, baseLog *logger.Logger, setRepo repos.SetRepo) SetService {
	serviceLog := baseLog.With("service", "SetService")
	return &setService{db: db, log: serviceLog, setRepo: setRepo}
}

func (s *setService) Create(ctx context.Context, ownerID uuid.UUID, input SetInput) (*types.Set, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validationf("set name is required")
	}

	annotationTypes, err := buildAnnotationTypes(input.AnnotationTypes)
	if err != nil {
		return nil, err
	}

	set := &types.Set{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Name:            name,
		Language:        strings.TrimSpace(input.Language),
		TextSchema:      input.TextSchema,
		Meta:            input.Meta,
		AnnotationTypes: annotationTypes,
	}
	if input.Private != nil {
		set.Private = *input.Private
	}

	if err := s.setRepo.Create(ctx, nil, set); err != nil {
		s.log.Error("Create failed", "owner_id", ownerID, "name", name, "error", err)
		return nil, err
	}
	return s.setRepo.GetByID(ctx, nil, set.ID)
}

func (s *setService) Get(ctx context.Context, setID uuid.UUID) (*types.Set, error) {
	return s.setRepo.GetByID(ctx, nil, setID)
}

func (s *setService) ListPublic(ctx context.Context) ([]*types.Set, error) {
	return s.setRepo.ListPublic(ctx, nil)
}

func (s *setService) Update(ctx context.Context, setID uuid.UUID, input SetUpdateInput) (*types.Set, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.Validationf("set name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Private != nil {
		fields["private"] = *input.Private
	}
	if input.Language != nil {
		fields["language"] = strings.TrimSpace(*input.Language)
	}
	if input.TextSchema != nil {
		fields["text_schema"] = input.TextSchema
	}
	if input.Meta != nil {
		fields["meta"] = input.Meta
	}

	annotationTypes, err := buildAnnotationTypes(input.AnnotationTypes)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := s.setRepo.UpdateFields(ctx, tx, setID, fields); err != nil {
				return err
			}
		}
		if len(annotationTypes) > 0 {
			return s.setRepo.AppendAnnotationTypes(ctx, tx, setID, annotationTypes)
		}
		return nil
	})
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.log.Error("Update failed", "set_id", setID, "error", err)
		}
		return nil, err
	}
	return s.setRepo.GetByID(ctx, nil, setID)
}

func (s *setService) Delete(ctx context.Context, setID uuid.UUID) error {
	if err := s.setRepo.Delete(ctx, nil, setID); err != nil {
		if !apperrors.IsNotFound(err) {
			s.log.Error("Delete failed", "set_id", setID, "error", err)
		}
		return err
	}
	return nil
}

func buildAnnotationTypes(inputs []AnnotationTypeInput) ([]types.AnnotationType, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	out := make([]types.AnnotationType, 0, len(inputs))
	for i, in := range inputs {
		if len(in.Options) < 2 {
			return nil, apperrors.Validationf("annotationType %q needs at least two options", in.Name)
		}
		annotationType := types.AnnotationType{
			ID:       uuid.New(),
			Name:     strings.TrimSpace(in.Name),
			Position: i,
		}
		for j, optionName := range in.Options {
			optionName = strings.TrimSpace(optionName)
			if optionName == "" {
				return nil, apperrors.Validationf("annotationType %q has an empty option", in.Name)
			}
			annotationType.Options = append(annotationType.Options, types.AnnotationOption{
				ID:       uuid.New(),
				Name:     optionName,
				Position: j,
			})
		}
		out = append(out, annotationType)
	}
	return out, nil
}
