package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/handlers/response"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/services"
	"github.com/annomania/annomania-api/internal/types"
)

// CtxSetKey is the gin context key holding the loaded *types.Set.
const CtxSetKey = "currentSet"

type SetAccessMiddleware struct {
	log        *logger.Logger
	setService services.SetService
}

func NewSetAccessMiddleware(log *logger.Logger, setService services.SetService) *SetAccessMiddleware {
	return &SetAccessMiddleware{
		log:        log.With("middleware", "SetAccessMiddleware"),
		setService: setService,
	}
}

// LoadSet resolves :setid and stores the set on the request. 404 for bad or
// unknown ids.
func (m *SetAccessMiddleware) LoadSet() gin.HandlerFunc {
	return func(c *gin.Context) {
		setID, err := uuid.Parse(c.Param("setid"))
		if err != nil {
			response.RespondError(c, http.StatusNotFound, "set_not_found", err)
			c.Abort()
			return
		}

		set, err := m.setService.Get(c.Request.Context(), setID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				response.RespondError(c, http.StatusNotFound, "set_not_found", err)
			} else {
				m.log.Error("load set failed", "set_id", setID, "error", err)
				response.RespondError(c, http.StatusInternalServerError, "load_set_failed", err)
			}
			c.Abort()
			return
		}

		c.Set(CtxSetKey, set)
		c.Next()
	}
}

// RequireReadable lets anyone at a public set but only the owner at a
// private one. Runs after LoadSet and RequireConsumer.
func (m *SetAccessMiddleware) RequireReadable() gin.HandlerFunc {
	return func(c *gin.Context) {
		set := CurrentSet(c)
		user := CurrentUser(c)
		if set == nil || user == nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		if set.Private && !set.IsOwner(user.ID) {
			response.RespondError(c, http.StatusUnauthorized, "private_set", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireOwner guards mutations and the training-set export.
func (m *SetAccessMiddleware) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		set := CurrentSet(c)
		user := CurrentUser(c)
		if set == nil || user == nil || !set.IsOwner(user.ID) {
			response.RespondError(c, http.StatusUnauthorized, "not_owner", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSet returns the set loaded by LoadSet, nil outside of set routes.
func CurrentSet(c *gin.Context) *types.Set {
	v, ok := c.Get(CtxSetKey)
	if !ok {
		return nil
	}
	set, ok := v.(*types.Set)
	if !ok {
		return nil
	}
	return set
}
