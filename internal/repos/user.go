package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/types"
)

type UserRepo interface {
	FindOrCreateByConsumer(ctx context.Context, tx *gorm.DB, consumerID, username string) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

// FindOrCreateByConsumer resolves the gateway consumer to a local user,
// creating one on first contact.
func (r *userRepo) FindOrCreateByConsumer(ctx context.Context, tx *gorm.DB, consumerID, username string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var user types.User
	err := transaction.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = types.User{
		Username:   username,
		ConsumerID: consumerID,
	}
	if err := transaction.WithContext(ctx).Create(&user).Error; err != nil {
		r.log.Error("FindOrCreateByConsumer create failed", "consumer_id", consumerID, "error", err)
		return nil, err
	}
	return &user, nil
}
