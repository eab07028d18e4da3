package services

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
	"github.com/annomania/annomania-api/internal/strategy"
	"github.com/annomania/annomania-api/internal/types"
)

type TextService interface {
	Add(ctx context.Context, set *types.Set, inputs []TextInput) ([]*types.Text, error)
	Get(ctx context.Context, textID uuid.UUID) (*types.Text, error)
	Fetch(ctx context.Context, set *types.Set, strategyName, topic string, amount int) ([]*types.Text, error)
	Update(ctx context.Context, set *types.Set, textID uuid.UUID, input TextUpdateInput) (*types.Text, error)
	Delete(ctx context.Context, set *types.Set, textID uuid.UUID) error
}

type TextInput struct {
	Text string         `json:"text"`
	Meta datatypes.JSON `json:"meta"`
}

type TextUpdateInput struct {
	Text *string        `json:"text"`
	Meta datatypes.JSON `json:"meta"`
}

type textService struct {
	db       *gorm.DB
	log      *logger.Logger
	textRepo repos.TextRepo
}

func NewTextService(db *gorm.DB, baseLog *logger.Logger, textRepo repos.TextRepo) TextService {
	serviceLog := baseLog.With("service", "TextService")
	return &textService{db: db, log: serviceLog, textRepo: textRepo}
}

func (s *textService) Add(ctx context.Context, set *types.Set, inputs []TextInput) ([]*types.Text, error) {
	if len(inputs) == 0 {
		return nil, apperrors.Validationf("no texts given")
	}

	schema, err := compileTextSchema(set.TextSchema)
	if err != nil {
		return nil, err
	}

	texts := make([]*types.Text, 0, len(inputs))
	for _, in := range inputs {
		if in.Text == "" {
			return nil, apperrors.Validationf("text content is required")
		}
		if err := validateMeta(schema, in.Meta); err != nil {
			return nil, err
		}
		texts = append(texts, &types.Text{
			ID:    uuid.New(),
			SetID: set.ID,
			Text:  in.Text,
			Meta:  in.Meta,
		})
	}

	created, err := s.textRepo.Create(ctx, nil, texts)
	if err != nil {
		s.log.Error("Add failed", "set_id", set.ID, "count", len(texts), "error", err)
		return nil, err
	}
	return created, nil
}

func (s *textService) Get(ctx context.Context, textID uuid.UUID) (*types.Text, error) {
	return s.textRepo.GetByID(ctx, nil, textID)
}

// Fetch returns annotation candidates chosen by the named strategy. An
// empty result is a not-found condition, not an empty page: the set has
// nothing matching the request.
func (s *textService) Fetch(ctx context.Context, set *types.Set, strategyName, topic string, amount int) ([]*types.Text, error) {
	plan, err := strategy.Resolve(strategyName, strategy.Params{SetID: set.ID, Topic: topic}, amount)
	if err != nil {
		return nil, err
	}

	texts, err := s.textRepo.FetchByPlan(ctx, nil, plan)
	if err != nil {
		s.log.Error("Fetch failed", "set_id", set.ID, "strategy", plan.Kind, "error", err)
		return nil, err
	}
	if len(texts) == 0 {
		return nil, apperrors.NotFoundf("no texts for set %s (strategy %s)", set.ID, plan.Kind)
	}
	return texts, nil
}

func (s *textService) Update(ctx context.Context, set *types.Set, textID uuid.UUID, input TextUpdateInput) (*types.Text, error) {
	existing, err := s.textRepo.GetByID(ctx, nil, textID)
	if err != nil {
		return nil, err
	}
	if existing.SetID != set.ID {
		return nil, apperrors.NotFoundf("text %s not in set %s", textID, set.ID)
	}

	fields := map[string]any{}
	if input.Text != nil {
		if *input.Text == "" {
			return nil, apperrors.Validationf("text content cannot be empty")
		}
		fields["text"] = *input.Text
	}
	if input.Meta != nil {
		schema, err := compileTextSchema(set.TextSchema)
		if err != nil {
			return nil, err
		}
		if err := validateMeta(schema, input.Meta); err != nil {
			return nil, err
		}
		fields["meta"] = input.Meta
	}

	if err := s.textRepo.UpdateFields(ctx, nil, textID, fields); err != nil {
		if !apperrors.IsNotFound(err) {
			s.log.Error("Update failed", "text_id", textID, "error", err)
		}
		return nil, err
	}
	return s.textRepo.GetByID(ctx, nil, textID)
}

func (s *textService) Delete(ctx context.Context, set *types.Set, textID uuid.UUID) error {
	existing, err := s.textRepo.GetByID(ctx, nil, textID)
	if err != nil {
		return err
	}
	if existing.SetID != set.ID {
		return apperrors.NotFoundf("text %s not in set %s", textID, set.ID)
	}
	return s.textRepo.Delete(ctx, nil, textID)
}

// compileTextSchema returns nil when the set defines no schema.
func compileTextSchema(raw datatypes.JSON) (*jsonschema.Schema, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("textSchema.json", bytes.NewReader(raw)); err != nil {
		return nil, apperrors.Validationf("invalid textSchema: %v", err)
	}
	schema, err := compiler.Compile("textSchema.json")
	if err != nil {
		return nil, apperrors.Validationf("invalid textSchema: %v", err)
	}
	return schema, nil
}

func validateMeta(schema *jsonschema.Schema, meta datatypes.JSON) error {
	if schema == nil {
		return nil
	}
	var doc any
	if len(meta) == 0 {
		doc = nil
	} else if err := json.Unmarshal(meta, &doc); err != nil {
		return apperrors.Validationf("meta is not valid JSON: %v", err)
	}
	if err := schema.Validate(doc); err != nil {
		return apperrors.Validationf("meta does not match textSchema: %v", err)
	}
	return nil
}
