package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/annomania/annomania-api/internal/apperrors"
)

// Set groups texts and defines the questions (annotation types) that can be
// answered on them. TextSchema optionally constrains each text's meta.
type Set struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID         uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_set_owner_name" json:"owner"`
	Owner           *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"-"`
	Name            string           `gorm:"column:name;not null;uniqueIndex:idx_set_owner_name" json:"name"`
	Private         bool             `gorm:"column:private;not null;default:false" json:"private"`
	Language        string           `gorm:"column:language" json:"language,omitempty"`
	TextSchema      datatypes.JSON   `gorm:"column:text_schema;type:jsonb" json:"textSchema,omitempty"`
	Meta            datatypes.JSON   `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`
	AnnotationTypes []AnnotationType `gorm:"foreignKey:SetID;references:ID" json:"annotationTypes"`
	CreatedAt       time.Time        `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt       time.Time        `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Set) TableName() string {
	return "set"
}

// PublicSet is the reduced shape exposed to non-owners.
type PublicSet struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Language        string           `json:"language,omitempty"`
	AnnotationTypes []AnnotationType `json:"annotationTypes"`
}

func (s *Set) ToPublic() PublicSet {
	return PublicSet{
		ID:              s.ID,
		Name:            s.Name,
		Language:        s.Language,
		AnnotationTypes: s.AnnotationTypes,
	}
}

func (s *Set) IsOwner(userID uuid.UUID) bool {
	return s.OwnerID == userID
}

// AnnotationTypeByID resolves one of the set's questions.
func (s *Set) AnnotationTypeByID(typeID uuid.UUID) (*AnnotationType, error) {
	for i := range s.AnnotationTypes {
		if s.AnnotationTypes[i].ID == typeID {
			return &s.AnnotationTypes[i], nil
		}
	}
	return nil, apperrors.NotFoundf("no annotationType %s in set %s", typeID, s.ID)
}

// FirstAnnotationType returns the first question defined on the set, the
// default target for training-set exports.
func (s *Set) FirstAnnotationType() (*AnnotationType, error) {
	if len(s.AnnotationTypes) == 0 {
		return nil, apperrors.NotFoundf("set %s has no annotationTypes", s.ID)
	}
	return &s.AnnotationTypes[0], nil
}

// AnnotationType is a labeling question on a set, e.g. sentiment, with a
// fixed ordered list of options. Immutable once annotations reference it.
type AnnotationType struct {
	ID       uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SetID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"-"`
	Name     string             `gorm:"column:name" json:"name,omitempty"`
	Position int                `gorm:"column:position;not null;default:0" json:"-"`
	Options  []AnnotationOption `gorm:"foreignKey:AnnotationTypeID;references:ID" json:"options"`
}

func (AnnotationType) TableName() string {
	return "annotation_type"
}

func (t *AnnotationType) OptionByID(optionID uuid.UUID) (*AnnotationOption, error) {
	for i := range t.Options {
		if t.Options[i].ID == optionID {
			return &t.Options[i], nil
		}
	}
	return nil, apperrors.NotFoundf("annotationOption %s not found on type %s", optionID, t.ID)
}

func (t *AnnotationType) OptionNameByID(optionID uuid.UUID) (string, error) {
	option, err := t.OptionByID(optionID)
	if err != nil {
		return "", err
	}
	return option.Name, nil
}

type AnnotationOption struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AnnotationTypeID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name             string    `gorm:"column:name;not null" json:"name"`
	Position         int       `gorm:"column:position;not null;default:0" json:"-"`
}

func (AnnotationOption) TableName() string {
	return "annotation_option"
}
