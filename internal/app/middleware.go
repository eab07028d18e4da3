package app

import (
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/middleware"
)

type Middleware struct {
	Identity  *middleware.IdentityMiddleware
	SetAccess *middleware.SetAccessMiddleware
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Identity:  middleware.NewIdentityMiddleware(log, serviceset.User),
		SetAccess: middleware.NewSetAccessMiddleware(log, serviceset.Set),
	}
}
