package types

import (
	"time"

	"github.com/google/uuid"
)

// Annotation is one user's vote for an option under a question, on a text.
// Rows are immutable and carry no uniqueness constraint: the majority
// computation counts every row as one vote, repeat votes included.
type Annotation struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TextID             uuid.UUID `gorm:"type:uuid;not null;index" json:"textId"`
	Text               *Text     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TextID;references:ID" json:"-"`
	AnnotationTypeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"annotationTypeId"`
	AnnotationOptionID uuid.UUID `gorm:"type:uuid;not null" json:"annotationOptionId"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (Annotation) TableName() string {
	return "annotation"
}

// OptionCount is one group of the per-option vote aggregation for a
// (text, question) pair.
type OptionCount struct {
	AnnotationOptionID uuid.UUID `gorm:"column:annotation_option_id"`
	Count              int       `gorm:"column:count"`
}
