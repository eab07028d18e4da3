package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annomania/annomania-api/internal/handlers/response"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/services"
	"github.com/annomania/annomania-api/internal/types"
)

// Gateway identity headers. The API sits behind an authenticating gateway
// (Kong); it trusts these headers and never sees credentials itself.
const (
	HeaderConsumerID       = "X-Consumer-ID"
	HeaderConsumerUsername = "X-Consumer-Username"
)

// CtxUserKey is the gin context key holding the resolved *types.User.
const CtxUserKey = "currentUser"

type IdentityMiddleware struct {
	log         *logger.Logger
	userService services.UserService
}

func NewIdentityMiddleware(log *logger.Logger, userService services.UserService) *IdentityMiddleware {
	return &IdentityMiddleware{
		log:         log.With("middleware", "IdentityMiddleware"),
		userService: userService,
	}
}

// RequireConsumer resolves the gateway consumer to a local user, creating
// one on first contact, and aborts with 401 when the headers are absent.
func (m *IdentityMiddleware) RequireConsumer() gin.HandlerFunc {
	return func(c *gin.Context) {
		consumerID := c.GetHeader(HeaderConsumerID)
		if consumerID == "" {
			response.RespondError(c, http.StatusUnauthorized, "missing_consumer", nil)
			c.Abort()
			return
		}

		user, err := m.userService.Identify(c.Request.Context(), consumerID, c.GetHeader(HeaderConsumerUsername))
		if err != nil {
			m.log.Error("consumer identify failed", "consumer_id", consumerID, "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unknown_consumer", err)
			c.Abort()
			return
		}

		c.Set(CtxUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireConsumer, nil outside of
// guarded routes.
func CurrentUser(c *gin.Context) *types.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*types.User)
	if !ok {
		return nil
	}
	return user
}
