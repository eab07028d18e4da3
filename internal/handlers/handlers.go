package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/handlers/response"
	"github.com/annomania/annomania-api/internal/logger"
)

// respondServiceError maps the error taxonomy onto HTTP statuses: validation
// errors are the caller's fault, not-found is a missing resource, anything
// else is ours.
func respondServiceError(c *gin.Context, log *logger.Logger, code string, err error) {
	switch {
	case apperrors.IsValidation(err):
		response.RespondError(c, http.StatusBadRequest, code, err)
	case apperrors.IsNotFound(err):
		response.RespondError(c, http.StatusNotFound, code, err)
	default:
		if log != nil {
			log.Error("request failed", "code", code, "error", err)
		}
		response.RespondError(c, http.StatusInternalServerError, code, err)
	}
}
