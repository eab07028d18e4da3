package app

import (
	"github.com/gin-gonic/gin"

	"github.com/annomania/annomania-api/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:         cfg.ServiceName,
		CORSOrigins:         cfg.CORSOrigins,
		IdentityMiddleware:  mw.Identity,
		SetAccessMiddleware: mw.SetAccess,
		SetHandler:          handlerset.Set,
		TextHandler:         handlerset.Text,
		AnnotationHandler:   handlerset.Annotation,
		TrainingSetHandler:  handlerset.TrainingSet,
	})
}
