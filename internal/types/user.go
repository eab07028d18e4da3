package types

import (
	"time"

	"github.com/google/uuid"
)

// User is created lazily from the gateway consumer headers. The API itself
// never authenticates; it trusts the upstream gateway's consumer identity.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username   string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	ConsumerID string    `gorm:"column:consumer_id;not null;uniqueIndex" json:"consumerId"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (User) TableName() string {
	return "user"
}
