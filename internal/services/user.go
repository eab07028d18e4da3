package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
	"github.com/annomania/annomania-api/internal/types"
)

type UserService interface {
	Identify(ctx context.Context, consumerID, username string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

// Identify resolves the gateway consumer to a local user, creating one on
// first sight. The gateway is trusted; no credentials are checked here.
func (s *userService) Identify(ctx context.Context, consumerID, username string) (*types.User, error) {
	consumerID = strings.TrimSpace(consumerID)
	if consumerID == "" {
		return nil, apperrors.Validationf("missing consumer id")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = consumerID
	}

	user, err := s.userRepo.FindOrCreateByConsumer(ctx, nil, consumerID, username)
	if err != nil {
		s.log.Error("Identify failed", "consumer_id", consumerID, "error", err)
		return nil, err
	}
	return user, nil
}
