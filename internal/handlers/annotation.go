package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/handlers/response"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/middleware"
	"github.com/annomania/annomania-api/internal/services"
)

type AnnotationHandler struct {
	log               *logger.Logger
	annotationService services.AnnotationService
}

func NewAnnotationHandler(log *logger.Logger, annotationService services.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{
		log:               log.With("handler", "AnnotationHandler"),
		annotationService: annotationService,
	}
}

// Create records a vote. The response confirms the durable vote only; the
// consensus status follows asynchronously.
func (h *AnnotationHandler) Create(c *gin.Context) {
	set := middleware.CurrentSet(c)
	user := middleware.CurrentUser(c)
	if set == nil || user == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	textID, err := uuid.Parse(c.Param("textid"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "text_not_found", err)
		return
	}

	var input services.AnnotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_annotation_payload", err)
		return
	}
	if input.AnnotationTypeID == uuid.Nil || input.AnnotationOptionID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_annotation_payload", nil)
		return
	}

	annotation, err := h.annotationService.Annotate(c.Request.Context(), set, textID, input, user.ID)
	if err != nil {
		respondServiceError(c, h.log, "create_annotation_failed", err)
		return
	}
	response.RespondCreated(c, annotation)
}
