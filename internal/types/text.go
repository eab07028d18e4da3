package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Text belongs to exactly one set. Its content and meta are edited by the
// set owner; its status rows are written only by the consensus job.
type Text struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SetID     uuid.UUID              `gorm:"type:uuid;not null;index" json:"setId"`
	Set       *Set                   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SetID;references:ID" json:"-"`
	Text      string                 `gorm:"column:text;not null" json:"text"`
	Meta      datatypes.JSON         `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`
	Statuses  []TextAnnotationStatus `gorm:"foreignKey:TextID;references:ID" json:"annotationTypeStatus,omitempty"`
	CreatedAt time.Time              `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time              `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Text) TableName() string {
	return "text"
}

// PublicText is the projection returned by the fetch strategies. Status rows
// are a selection signal there, not display data, so they are excluded.
type PublicText struct {
	ID    uuid.UUID      `json:"id"`
	SetID uuid.UUID      `json:"setId"`
	Text  string         `json:"text"`
	Meta  datatypes.JSON `json:"meta,omitempty"`
}

func (t *Text) ToPublic() PublicText {
	return PublicText{
		ID:    t.ID,
		SetID: t.SetID,
		Text:  t.Text,
		Meta:  t.Meta,
	}
}

// StatusFor returns the text's consensus entry for one question, nil if the
// question has not been aggregated yet.
func (t *Text) StatusFor(typeID uuid.UUID) *TextAnnotationStatus {
	for i := range t.Statuses {
		if t.Statuses[i].AnnotationTypeID == typeID {
			return &t.Statuses[i]
		}
	}
	return nil
}

// TextAnnotationStatus is the derived consensus for one (text, question)
// pair: the majority option, its support ratio and the total vote count.
// At most one row exists per pair; the consensus job upserts it by key
// instead of rewriting the text, so updates for different questions on the
// same text never clobber each other.
type TextAnnotationStatus struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	TextID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_status_text_type" json:"-"`
	AnnotationTypeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_status_text_type" json:"annotationTypeId"`
	AnnotationOptionID uuid.UUID `gorm:"type:uuid;not null" json:"annotationOptionId"`
	Ratio              float64   `gorm:"column:ratio;not null" json:"ratio"`
	AnnotationCount    int       `gorm:"column:annotation_count;not null" json:"annotationCount"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"-"`
}

func (TextAnnotationStatus) TableName() string {
	return "text_annotation_status"
}
